// Package smoker runs the smoker's mode state machine and supervises the
// fire. Construction wires the components; the caller starts Run on the
// Controller and on its FireMinder.
package smoker

import (
	"context"
	"math"
	"sync"
	"time"

	"inferno/internal/logger"
	"inferno/internal/models"
	"inferno/internal/pid"
)

// Actuator is a relay-like output. *device.Relay satisfies it.
type Actuator interface {
	On()
	Off()
	IsOn() bool
}

// Thermometer supplies the latest smoothed readings.
type Thermometer interface {
	Temps() models.Temps
}

// EventSink receives operational events. Record must not block.
type EventSink interface {
	Record(e models.SmokerEvent)
}

// Hardware is the set of devices the controller owns.
type Hardware struct {
	Auger   Actuator
	Blower  Actuator
	Igniter Actuator
	Temps   Thermometer
}

// Option customises a Controller.
type Option func(*Controller)

// WithEventSink sends mode changes, rejections and faults to sink.
func WithEventSink(sink EventSink) Option {
	return func(c *Controller) { c.events = sink }
}

// Controller is the smoker's state machine.
type Controller struct {
	auger   Actuator
	blower  Actuator
	igniter Actuator
	temps   Thermometer
	pid     *pid.Controller
	fire    *FireMinder
	tun     Tunables
	log     *logger.Logger
	events  EventSink

	mu            sync.RWMutex
	mode          models.Mode
	setPoint      int
	pValue        int
	modeChangedAt time.Time
	cancelBody    context.CancelFunc
}

// NewController builds a controller in Ready mode.
func NewController(hw Hardware, tun Tunables, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		auger:         hw.Auger,
		blower:        hw.Blower,
		igniter:       hw.Igniter,
		temps:         hw.Temps,
		pid:           pid.New(tun.PID),
		tun:           tun,
		log:           log.Named("smoker"),
		mode:          models.ModeReady,
		setPoint:      tun.MinSetPoint,
		pValue:        clampInt(tun.DefaultPValue, 0, maxPValue),
		modeChangedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.fire = newFireMinder(c, hw.Igniter, tun.Fire, log.Named("fire"))
	return c
}

const maxPValue = 5

// FireMinder returns the fire supervisor so the caller can run it.
func (c *Controller) FireMinder() *FireMinder { return c.fire }

// Mode returns the current mode.
func (c *Controller) Mode() models.Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// SetPoint returns the target grill temperature in °F.
func (c *Controller) SetPoint() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.setPoint
}

// SetSetPoint clamps v to the allowed range, stores it and returns the
// stored value.
func (c *Controller) SetSetPoint(v int) int {
	v = clampInt(v, c.tun.MinSetPoint, c.tun.MaxSetPoint)
	c.mu.Lock()
	c.setPoint = v
	c.mu.Unlock()
	return v
}

// PValue returns the smoke level.
func (c *Controller) PValue() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pValue
}

// SetPValue clamps v to 0..5, stores it and returns the stored value.
func (c *Controller) SetPValue(v int) int {
	v = clampInt(v, 0, maxPValue)
	c.mu.Lock()
	c.pValue = v
	c.mu.Unlock()
	return v
}

// SetTuning applies new PID gains to the running controller.
func (c *Controller) SetTuning(t pid.Tuning) {
	c.pid.SetTuning(t)
	c.log.Infow("pid_tuning_changed", "pb", t.PB, "ti", t.Ti, "td", t.Td)
}

// Temps returns the latest readings with NaN mapped to the unplugged
// sentinel.
func (c *Controller) Temps() models.Temps {
	t := c.temps.Temps()
	return models.Temps{
		GrillTemp: sanitize(t.GrillTemp),
		ProbeTemp: sanitize(t.ProbeTemp),
	}
}

// Status reads live device and sensor state.
func (c *Controller) Status() models.Status {
	c.mu.RLock()
	mode, sp, pv, changed := c.mode, c.setPoint, c.pValue, c.modeChangedAt
	c.mu.RUnlock()

	return models.Status{
		Mode:        mode,
		SetPoint:    sp,
		PValue:      pv,
		Temps:       c.Temps(),
		AugerOn:     c.auger.IsOn(),
		BlowerOn:    c.blower.IsOn(),
		IgniterOn:   c.igniter.IsOn(),
		FireHealthy: c.fire.Healthy(),
		ModeTime:    changed,
		CurrentTime: time.Now(),
	}
}

// RequestMode asks for a mode change on behalf of an operator. It returns
// false when the transition is not allowed. Error cannot be requested.
func (c *Controller) RequestMode(next models.Mode) bool {
	if next == models.ModeError && c.Mode() != models.ModeError {
		c.reject(c.Mode(), next, "error mode is entered by fault only")
		return false
	}
	return c.transition(next, "operator request")
}

// fault forces Error mode.
func (c *Controller) fault(reason string, meta map[string]any) {
	c.log.Errorw("fault", "reason", reason, "meta", meta)
	c.record(models.EventFault, reason, meta)
	c.transition(models.ModeError, reason)
}

func (c *Controller) transition(next models.Mode, reason string) bool {
	c.mu.Lock()
	cur := c.mode
	if next == cur {
		c.mu.Unlock()
		return true
	}
	if why := transitionBlocked(cur, next); why != "" {
		c.mu.Unlock()
		c.reject(cur, next, why)
		return false
	}

	if cur == models.ModeReady && next.IsCooking() {
		c.fire.Reset()
		c.pid.Reset()
	}
	if next == models.ModeHold {
		c.pid.Resync()
	}
	switch {
	case next == models.ModeSear:
		c.setPoint = c.tun.MaxSetPoint
	case next == models.ModeSmoke, !next.IsCooking():
		c.setPoint = c.tun.MinSetPoint
	}
	c.mode = next
	c.modeChangedAt = time.Now()
	cancel := c.cancelBody
	sp := c.setPoint
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.log.Infow("mode_changed", "from", cur, "to", next, "reason", reason, "set_point", sp)
	c.record(models.EventModeChange, "Mode changed to "+next.String(), map[string]any{
		"from":      cur.String(),
		"to":        next.String(),
		"reason":    reason,
		"set_point": sp,
	})
	return true
}

// transitionBlocked returns why cur→next is refused, or "" when allowed.
func transitionBlocked(cur, next models.Mode) string {
	switch {
	case cur.IsCooking() && next == models.ModeReady:
		return "cooking modes must shut down before ready"
	case (cur == models.ModeShutdown || cur == models.ModeError) && next.IsCooking():
		return "must reach ready before cooking again"
	case cur == models.ModeError && next == models.ModeReady:
		return "error must be acknowledged through shutdown"
	}
	return ""
}

func (c *Controller) reject(cur, next models.Mode, why string) {
	c.log.Warnw("mode_rejected", "from", cur, "to", next, "why", why)
	c.record(models.EventModeRejected, "Rejected change to "+next.String(), map[string]any{
		"from": cur.String(),
		"to":   next.String(),
		"why":  why,
	})
}

func (c *Controller) record(typ, desc string, meta map[string]any) {
	if c.events == nil {
		return
	}
	c.events.Record(models.SmokerEvent{
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
}

func sanitize(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return models.TempUnplugged
	}
	return t
}

func validReading(t float64) bool {
	return !math.IsNaN(t) && t != models.TempUnplugged
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
