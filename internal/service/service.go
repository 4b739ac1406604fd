package service

import (
	"context"

	"inferno/internal/logger"
	"inferno/internal/models"
	"inferno/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Control changes what the smoker is doing.
type Control interface {
	RequestMode(ctx context.Context, m models.Mode) error
	SetSetPoint(ctx context.Context, v int) (int, error)
	SetPValue(ctx context.Context, v int) (int, error)
}

// Monitoring exposes read-only live state.
type Monitoring interface {
	Mode() models.Mode
	SetPoint() int
	PValue() int
	Temps() models.Temps
	Status() models.Status
}

// EventLog exposes the operational log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.SmokerEvent, error)
}

// Smoker is the controller surface the services drive. *smoker.Controller
// satisfies it.
type Smoker interface {
	Mode() models.Mode
	RequestMode(m models.Mode) bool
	SetPoint() int
	SetSetPoint(v int) int
	PValue() int
	SetPValue(v int) int
	Temps() models.Temps
	Status() models.Status
}

type Service struct {
	Control
	Monitoring
	EventLog
	Authorization
}

// NewService wires the repositories and the running controller into the
// services the adapters consume.
func NewService(repos *repository.Repository, s Smoker, auth AuthConfig, log *logger.Logger) *Service {
	return &Service{
		Control:       NewControlService(s, repos.SettingsRepo, log),
		Monitoring:    NewMonitoringService(s),
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(repos.Auth, auth),
	}
}
