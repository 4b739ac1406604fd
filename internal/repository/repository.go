package repository

import (
	"context"
	"database/sql"
	"time"

	"inferno/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.Operator, error)
}

type SettingsRepo interface {
	Save(ctx context.Context, s models.Settings) error
	Load(ctx context.Context) (models.Settings, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.SmokerEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.SmokerEvent, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

type Repository struct {
	SettingsRepo SettingsRepo
	EventRepo    EventRepo
	Auth         Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		SettingsRepo: NewSettingsSQLite(db),
		EventRepo:    NewEventSQLite(db),
		Auth:         NewOperatorRepository(db),
	}
}
