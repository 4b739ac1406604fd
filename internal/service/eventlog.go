package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inferno/internal/models"
	"inferno/internal/repository"
)

var (
	ErrInvalidTimeRange = errors.New("event log: from is after to")
	ErrUnknownEventType = errors.New("event log: unknown event type")
)

// LogFilter selects events by time range and type. Zero bounds and an empty
// type match everything; both bounds are inclusive.
type LogFilter struct {
	From time.Time
	To   time.Time
	Type string
}

// Normalize returns f with its bounds in UTC and its type upper-cased.
func (f LogFilter) Normalize() (LogFilter, error) {
	out := LogFilter{
		From: inUTC(f.From),
		To:   inUTC(f.To),
		Type: strings.ToUpper(strings.TrimSpace(f.Type)),
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, fmt.Errorf("%w (%s > %s)", ErrInvalidTimeRange,
			out.From.Format(time.RFC3339), out.To.Format(time.RFC3339))
	}
	if out.Type != "" && !models.IsEventType(out.Type) {
		return LogFilter{}, fmt.Errorf("%w %q", ErrUnknownEventType, f.Type)
	}
	return out, nil
}

func inUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// EventLogService reads the operational log back for operators.
type EventLogService struct {
	events repository.EventRepo
}

func NewEventLogService(events repository.EventRepo) *EventLogService {
	return &EventLogService{events: events}
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.SmokerEvent, error) {
	q, err := f.Normalize()
	if err != nil {
		return nil, err
	}
	events, err := s.events.List(ctx, q.From, q.To, q.Type)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
