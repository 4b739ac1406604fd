package models

import "time"

// TempUnplugged marks a temperature channel that is disconnected or out of
// range.
const TempUnplugged = -1.0

// Temps holds the latest smoothed readings in °F.
type Temps struct {
	GrillTemp float64 `json:"grillTemp"`
	ProbeTemp float64 `json:"probeTemp"`
}

// Status is a point-in-time view of the smoker, computed on request.
type Status struct {
	Mode        Mode      `json:"mode"`
	SetPoint    int       `json:"setPoint"`
	PValue      int       `json:"pValue"`
	Temps       Temps     `json:"temps"`
	AugerOn     bool      `json:"augerOn"`
	BlowerOn    bool      `json:"blowerOn"`
	IgniterOn   bool      `json:"igniterOn"`
	FireHealthy bool      `json:"fireHealthy"`
	ModeTime    time.Time `json:"modeTime"`
	CurrentTime time.Time `json:"currentTime"`
}
