package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"inferno/internal/config"
	"inferno/internal/logger"
	"inferno/internal/models"
	"inferno/internal/repository"
	"inferno/internal/repository/db"
	"inferno/internal/service"

	"github.com/spf13/cobra"
)

type eventsOptions struct {
	since     time.Duration
	eventType string
	asJSON    bool
}

func newEventsCmd(root *rootOptions) *cobra.Command {
	opts := &eventsOptions{}
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the operational event log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewLoader(root.configFile, logger.Nop()).Load()
			if err != nil {
				return err
			}
			conn, err := db.InitDB(cfg.DB.Path)
			if err != nil {
				return err
			}
			defer conn.Close()

			f := service.LogFilter{Type: opts.eventType}
			if opts.since > 0 {
				f.From = time.Now().Add(-opts.since)
			}
			events, err := service.NewEventLogService(repository.NewRepository(conn).EventRepo).List(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printEvents(cmd.OutOrStdout(), events, opts.asJSON)
		},
	}
	cmd.Flags().DurationVar(&opts.since, "since", 24*time.Hour, "only events newer than this (0 for all)")
	cmd.Flags().StringVarP(&opts.eventType, "type", "t", "", "event type, e.g. FAULT or MODE_CHANGE")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func printEvents(w io.Writer, events []models.SmokerEvent, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tDESCRIPTION")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.OccurredAt.Local().Format(time.DateTime), e.Type, e.Description)
	}
	return tw.Flush()
}
