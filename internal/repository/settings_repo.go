package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inferno/internal/models"
)

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite {
	return &SettingsSQLite{db: db}
}

const (
	settingsRowID = 1

	upsertSettingsSQL = `
		INSERT INTO smoker_settings (id, set_point, p_value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			set_point=excluded.set_point,
			p_value=excluded.p_value,
			updated_at=excluded.updated_at
	`

	selectSettingsSQL = `
		SELECT id, set_point, p_value, updated_at
		FROM smoker_settings WHERE id=?
	`
)

// Save upserts the single settings row.
func (r *SettingsSQLite) Save(ctx context.Context, s models.Settings) error {
	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	if _, err := r.db.ExecContext(ctx, upsertSettingsSQL,
		settingsRowID,
		s.SetPoint,
		s.PValue,
		ts.UTC(),
	); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Load returns the stored settings, or the zero value (ID 0) when nothing
// has been saved yet.
func (r *SettingsSQLite) Load(ctx context.Context) (models.Settings, error) {
	var s models.Settings
	err := r.db.QueryRowContext(ctx, selectSettingsSQL, settingsRowID).
		Scan(&s.ID, &s.SetPoint, &s.PValue, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Settings{}, nil
		}
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
