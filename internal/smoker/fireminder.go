package smoker

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"inferno/internal/logger"
	"inferno/internal/models"
)

// FireState is a snapshot of the fire supervisor's bookkeeping.
type FireState struct {
	FireStarted     bool      `json:"fireStarted"`
	FireCheck       bool      `json:"fireCheck"`
	InitialIgnition bool      `json:"initialIgnition"`
	IgnitionTemp    float64   `json:"ignitionTemp"`
	IgniterOnTime   time.Time `json:"igniterOnTime"`
	FireCheckTime   time.Time `json:"fireCheckTime"`
}

// FireMinder lights the fire, watches for flame-out and forces Error when
// ignition or recovery takes too long. It owns the igniter.
type FireMinder struct {
	c       *Controller
	igniter Actuator
	tun     FireTunables
	log     *logger.Logger

	mu    sync.Mutex
	state FireState
}

func newFireMinder(c *Controller, igniter Actuator, tun FireTunables, log *logger.Logger) *FireMinder {
	f := &FireMinder{c: c, igniter: igniter, tun: tun, log: log}
	f.Reset()
	return f
}

// Reset forgets any fire and restores the initial ignition threshold.
func (f *FireMinder) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.FireStarted = false
	f.state.FireCheck = false
	f.state.InitialIgnition = true
	f.state.IgnitionTemp = f.tun.InitialIgnitionTemp
}

// Started reports whether a fire has been detected since the last reset.
func (f *FireMinder) Started() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.FireStarted
}

// Healthy is false while a suspected flame-out is being investigated.
func (f *FireMinder) Healthy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.state.FireCheck
}

// State returns a copy of the current bookkeeping.
func (f *FireMinder) State() FireState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Run evaluates the fire once per poll interval until ctx is cancelled.
func (f *FireMinder) Run(ctx context.Context) error {
	f.log.Infow("fire_monitor_started", "poll", f.tun.Poll)
	t := time.NewTicker(f.tun.Poll)
	defer t.Stop()

	for {
		f.safeStep(time.Now())
		select {
		case <-ctx.Done():
			f.igniter.Off()
			f.log.Infow("fire_monitor_stopped")
			return nil
		case <-t.C:
		}
	}
}

func (f *FireMinder) safeStep(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			f.log.Errorw("fire_monitor_panic", "panic", fmt.Sprint(r))
		}
	}()
	f.Step(now)
}

type fireNote struct {
	typ  string
	desc string
	meta map[string]any
}

type fireVerdict struct {
	notes []fireNote
	fault string
	meta  map[string]any
}

func (v *fireVerdict) note(typ, desc string, meta map[string]any) {
	v.notes = append(v.notes, fireNote{typ: typ, desc: desc, meta: meta})
}

// Step runs one evaluation as of now. The controller's read lock is held
// while the igniter is driven so a concurrent transition cannot leave it on
// outside a cooking mode. Events and the fault, if any, are raised after
// both locks are released.
func (f *FireMinder) Step(now time.Time) {
	grill := f.c.Temps().GrillTemp

	f.c.mu.RLock()
	mode, sp := f.c.mode, f.c.setPoint
	v := f.evaluate(now, mode, grill, f.checkTemp(mode, sp))
	f.c.mu.RUnlock()

	for _, n := range v.notes {
		f.log.Infow("fire_event", "type", n.typ, "grill", grill, "mode", mode)
		f.c.record(n.typ, n.desc, n.meta)
	}
	if v.fault != "" {
		f.c.fault(v.fault, v.meta)
	}
}

// checkTemp is the reading below which a lit fire is suspected to be out.
func (f *FireMinder) checkTemp(mode models.Mode, sp int) float64 {
	if mode == models.ModeSmoke {
		return float64(f.tun.SmokeCheckTemp)
	}
	return float64(sp - sp/180*f.tun.CheckDropPer180)
}

func (f *FireMinder) evaluate(now time.Time, mode models.Mode, grill, check float64) fireVerdict {
	f.mu.Lock()
	defer f.mu.Unlock()

	var v fireVerdict
	s := &f.state
	cooking := mode.IsCooking()
	valid := validReading(grill)

	if cooking && valid && !s.FireStarted && grill < s.IgnitionTemp && !f.igniter.IsOn() {
		f.igniter.On()
		s.IgnitionTemp = math.Trunc(grill) + f.tun.IgnitionRise
		s.IgniterOnTime = now
		v.note(models.EventIgnition, "Igniter on", map[string]any{
			"grill":         grill,
			"ignition_temp": s.IgnitionTemp,
		})
	}

	if cooking && valid && s.FireStarted && s.InitialIgnition && grill > check {
		s.InitialIgnition = false
	}

	if f.igniter.IsOn() && now.Sub(s.IgniterOnTime) > f.tun.IgniterTimeout {
		f.igniter.Off()
		v.fault = "igniter timeout"
		v.meta = map[string]any{"grill": grill, "igniter_on_since": s.IgniterOnTime}
		return v
	}

	if !cooking || !valid {
		return v
	}

	if grill >= s.IgnitionTemp {
		if !s.FireStarted {
			v.note(models.EventFireStarted, "Fire detected", map[string]any{"grill": grill})
		}
		s.FireStarted = true
		f.igniter.Off()
	}

	switch {
	case s.FireStarted && !s.InitialIgnition && grill < check && !s.FireCheck:
		s.FireCheck = true
		s.FireCheckTime = now
		v.note(models.EventFireCheck, "Grill below fire check temperature", map[string]any{
			"grill":      grill,
			"check_temp": check,
		})
	case s.FireStarted && s.FireCheck && grill < check &&
		now.Sub(s.FireCheckTime) > f.tun.ReigniteWait && !f.igniter.IsOn():
		f.igniter.On()
		s.IgnitionTemp = math.Trunc(grill) + f.tun.ReigniteRise
		s.IgniterOnTime = now
		v.note(models.EventReignition, "Igniter on to relight fire", map[string]any{
			"grill":         grill,
			"ignition_temp": s.IgnitionTemp,
		})
	case s.FireCheck && grill >= check:
		f.igniter.Off()
		s.FireCheck = false
		v.note(models.EventFireRecovered, "Fire recovered", map[string]any{"grill": grill})
	case s.FireCheck && now.Sub(s.FireCheckTime) > f.tun.FireTimeout:
		v.fault = "fire timeout"
		v.meta = map[string]any{"grill": grill, "check_temp": check, "since": s.FireCheckTime}
	}
	return v
}
