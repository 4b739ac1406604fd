package sensor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"inferno/internal/logger"
	"inferno/internal/models"
)

// Reader is the converter the sampler polls.
type Reader interface {
	Read(channel int) (int, error)
}

// Options controls sampling rate, smoothing and the divider's electrical
// parameters.
type Options struct {
	Interval     time.Duration `mapstructure:"interval"`
	Window       int           `mapstructure:"window"`
	VRef         float64       `mapstructure:"vref"`
	FullScale    int           `mapstructure:"full_scale"`
	GrillChannel int           `mapstructure:"grill_channel"`
	ProbeChannel int           `mapstructure:"probe_channel"`
}

// DefaultOptions matches an MCP3008 at 3.3 V sampled at 100 Hz.
func DefaultOptions() Options {
	return Options{
		Interval:     10 * time.Millisecond,
		Window:       100,
		VRef:         3.3,
		FullScale:    1023,
		GrillChannel: 0,
		ProbeChannel: 1,
	}
}

// failureLogEvery throttles repeated read-failure logs.
const failureLogEvery = 500

// Sampler keeps a moving window of resistance samples per channel. The
// sampling loop is the only writer; readers get the converted average.
type Sampler struct {
	adc  Reader
	opts Options
	log  *logger.Logger

	mu       sync.RWMutex
	grill    *window
	probe    *window
	failures int
}

// NewSampler builds a sampler. Call Run to start sampling.
func NewSampler(adc Reader, opts Options, log *logger.Logger) *Sampler {
	if opts.Window <= 0 {
		opts.Window = DefaultOptions().Window
	}
	return &Sampler{
		adc:   adc,
		opts:  opts,
		log:   log,
		grill: newWindow(opts.Window),
		probe: newWindow(opts.Window),
	}
}

// Run samples until ctx is cancelled. Read failures are logged and retried
// on the next tick.
func (s *Sampler) Run(ctx context.Context) error {
	t := time.NewTicker(s.opts.Interval)
	defer t.Stop()
	for {
		if err := s.Sample(); err != nil {
			s.noteFailure(err)
		} else {
			s.noteSuccess()
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

// Sample reads both channels once and pushes the results into their windows.
func (s *Sampler) Sample() error {
	grillRaw, gErr := s.adc.Read(s.opts.GrillChannel)
	probeRaw, pErr := s.adc.Read(s.opts.ProbeChannel)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gErr == nil {
		s.grill.push(ResistanceFromRaw(grillRaw, s.opts.FullScale, s.opts.VRef))
	}
	if pErr == nil {
		s.probe.push(ResistanceFromRaw(probeRaw, s.opts.FullScale, s.opts.VRef))
	}

	var errs []error
	if gErr != nil {
		errs = append(errs, fmt.Errorf("grill channel %d: %w", s.opts.GrillChannel, gErr))
	}
	if pErr != nil {
		errs = append(errs, fmt.Errorf("probe channel %d: %w", s.opts.ProbeChannel, pErr))
	}
	return errors.Join(errs...)
}

// GrillTemp returns the smoothed grill temperature in °F or
// models.TempUnplugged.
func (s *Sampler) GrillTemp() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return temperature(s.grill)
}

// ProbeTemp returns the smoothed meat-probe temperature in °F or
// models.TempUnplugged.
func (s *Sampler) ProbeTemp() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return temperature(s.probe)
}

// Temps returns both readings.
func (s *Sampler) Temps() models.Temps {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Temps{
		GrillTemp: temperature(s.grill),
		ProbeTemp: temperature(s.probe),
	}
}

func temperature(w *window) float64 {
	ohms, ok := w.mean()
	if !ok {
		return models.TempUnplugged
	}
	return FahrenheitFromResistance(ohms)
}

func (s *Sampler) noteFailure(err error) {
	s.failures++
	if s.failures == 1 || s.failures%failureLogEvery == 0 {
		s.log.Errorw("adc_read_failed", "err", err, "consecutive", s.failures)
	}
}

func (s *Sampler) noteSuccess() {
	if s.failures > 0 {
		s.log.Infow("adc_read_recovered", "after_failures", s.failures)
		s.failures = 0
	}
}
