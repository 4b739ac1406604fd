package service

import (
	"context"
	"errors"
	"fmt"

	"inferno/internal/logger"
	"inferno/internal/models"
	"inferno/internal/repository"
)

// ErrRejectedTransition is returned when the state machine refuses a mode
// change. The mode is left as it was.
var ErrRejectedTransition = errors.New("mode transition rejected")

type ControlService struct {
	smoker   Smoker
	settings repository.SettingsRepo
	log      *logger.Logger
}

func NewControlService(s Smoker, settings repository.SettingsRepo, log *logger.Logger) *ControlService {
	return &ControlService{smoker: s, settings: settings, log: log.Named("control")}
}

// RequestMode asks the controller for m.
func (s *ControlService) RequestMode(_ context.Context, m models.Mode) error {
	from := s.smoker.Mode()
	if !s.smoker.RequestMode(m) {
		return fmt.Errorf("%w: %s to %s", ErrRejectedTransition, from, m)
	}
	return nil
}

// SetSetPoint applies v, clamped, and persists the settings. The applied
// value is returned even when persisting fails.
func (s *ControlService) SetSetPoint(ctx context.Context, v int) (int, error) {
	stored := s.smoker.SetSetPoint(v)
	return stored, s.persist(ctx)
}

// SetPValue applies v, clamped, and persists the settings.
func (s *ControlService) SetPValue(ctx context.Context, v int) (int, error) {
	stored := s.smoker.SetPValue(v)
	return stored, s.persist(ctx)
}

// Restore applies the saved smoke level. The saved set point is not
// applied: the controller starts in Ready, which pins it to the minimum.
func (s *ControlService) Restore(ctx context.Context) error {
	saved, err := s.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore settings: %w", err)
	}
	if saved.ID == 0 {
		s.log.Infow("no_saved_settings")
		return nil
	}
	pv := s.smoker.SetPValue(saved.PValue)
	s.log.Infow("settings_restored", "p_value", pv, "last_set_point", saved.SetPoint, "saved_at", saved.UpdatedAt)
	return nil
}

func (s *ControlService) persist(ctx context.Context) error {
	err := s.settings.Save(ctx, models.Settings{
		SetPoint: s.smoker.SetPoint(),
		PValue:   s.smoker.PValue(),
	})
	if err != nil {
		s.log.Errorw("settings_save_failed", "err", err)
		return fmt.Errorf("persist settings: %w", err)
	}
	return nil
}
