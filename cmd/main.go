package main

import (
	"os"

	_ "inferno/docs"
)

// @title                       Inferno smoker API
// @version                     1.0
// @description                 Mode, set point and smoke level control for a pellet smoker, with live status and the operational event log.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
