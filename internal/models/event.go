package models

import "time"

// Event types written to the operational log.
const (
	EventModeChange    = "MODE_CHANGE"
	EventModeRejected  = "MODE_REJECTED"
	EventIgnition      = "IGNITION"
	EventFireStarted   = "FIRE_STARTED"
	EventFireCheck     = "FIRE_CHECK"
	EventReignition    = "REIGNITION"
	EventFireRecovered = "FIRE_RECOVERED"
	EventFault         = "FAULT"
	EventSettings      = "SETTINGS"
)

var eventTypes = []string{
	EventModeChange,
	EventModeRejected,
	EventIgnition,
	EventFireStarted,
	EventFireCheck,
	EventReignition,
	EventFireRecovered,
	EventFault,
	EventSettings,
}

// EventTypes returns every type the controller records.
func EventTypes() []string {
	return append([]string(nil), eventTypes...)
}

// IsEventType reports whether s is one of EventTypes.
func IsEventType(s string) bool {
	for _, t := range eventTypes {
		if t == s {
			return true
		}
	}
	return false
}

// SmokerEvent is a single operational log entry.
type SmokerEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
