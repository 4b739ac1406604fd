package service

import "inferno/internal/models"

// MonitoringService reads live state straight from the controller; nothing
// here is cached or persisted.
type MonitoringService struct {
	smoker Smoker
}

func NewMonitoringService(s Smoker) *MonitoringService {
	return &MonitoringService{smoker: s}
}

func (s *MonitoringService) Mode() models.Mode     { return s.smoker.Mode() }
func (s *MonitoringService) SetPoint() int         { return s.smoker.SetPoint() }
func (s *MonitoringService) PValue() int           { return s.smoker.PValue() }
func (s *MonitoringService) Temps() models.Temps   { return s.smoker.Temps() }
func (s *MonitoringService) Status() models.Status { return s.smoker.Status() }
