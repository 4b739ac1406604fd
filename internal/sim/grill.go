// Package sim models a pellet grill's thermal behaviour so the controller
// can run end to end without hardware. It watches the relay pins and feeds
// synthetic converter codes back through an ADC.
package sim

import (
	"context"
	"math"
	"sync"
	"time"

	"inferno/internal/logger"
)

// ----------- Simulation constants -----------
const (
	AmbientF          = 70.0             // °F outside the grill
	FeedPerSec        = 1.0              // fuel units per second while the auger runs
	IgniteAfter       = 60 * time.Second // igniter dwell needed to light fuel
	BurnFrac          = 0.05             // share of the fuel burnt per second with the blower on
	HeatPerFuel       = 5.0              // °F per fuel unit burnt
	LossPerSec        = 0.01             // share of the gap to ambient lost per second
	IgniterHeatPerSec = 0.3              // °F per second from the hot rod alone
	ProbeLagPerSec    = 0.002            // share of the grill–probe gap closed per second
	StartProbeF       = 40.0             // °F of meat straight out of the fridge
	flameOutFuel      = 0.01
	maxStep           = time.Second
)

// Level is a pin the simulation can read back.
type Level interface {
	Level() bool
}

// Grill is the thermal model. All methods are safe for concurrent use.
type Grill struct {
	auger   Level
	blower  Level
	igniter Level
	log     *logger.Logger

	mu           sync.RWMutex
	temp         float64
	probe        float64
	fuel         float64
	lit          bool
	igniterDwell time.Duration
	probeIn      bool
}

// NewGrill returns a cold, empty grill with the meat probe plugged in.
func NewGrill(auger, blower, igniter Level, log *logger.Logger) *Grill {
	return &Grill{
		auger:   auger,
		blower:  blower,
		igniter: igniter,
		log:     log.Named("sim"),
		temp:    AmbientF,
		probe:   StartProbeF,
		probeIn: true,
	}
}

// Run advances the model by the wall-clock time between ticks until ctx is
// cancelled.
func (g *Grill) Run(ctx context.Context, tick time.Duration) error {
	t := time.NewTicker(tick)
	defer t.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			g.Advance(now.Sub(last))
			last = now
		}
	}
}

// Advance moves the model forward by dt in steps of at most one second.
func (g *Grill) Advance(dt time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for dt > 0 {
		step := min(dt, maxStep)
		g.step(step)
		dt -= step
	}
}

func (g *Grill) step(dt time.Duration) {
	secs := dt.Seconds()
	augerOn := g.auger.Level()
	blowerOn := g.blower.Level()
	igniterOn := g.igniter.Level()

	if augerOn {
		g.fuel += FeedPerSec * secs
	}

	if igniterOn {
		g.igniterDwell += dt
		g.temp += IgniterHeatPerSec * secs
	} else {
		g.igniterDwell = 0
	}

	if !g.lit && g.fuel > flameOutFuel && g.igniterDwell >= IgniteAfter {
		g.lit = true
		g.log.Infow("fuel_lit", "fuel", g.fuel, "temp", g.temp)
	}

	if g.lit {
		frac := BurnFrac
		if !blowerOn {
			frac /= 2
		}
		burnt := g.fuel * math.Min(1, frac*secs)
		g.fuel -= burnt
		g.temp += burnt * HeatPerFuel
		if g.fuel < flameOutFuel {
			g.lit = false
			g.log.Infow("fire_out", "temp", g.temp)
		}
	}

	g.temp -= (g.temp - AmbientF) * math.Min(1, LossPerSec*secs)
	g.probe += (g.temp - g.probe) * math.Min(1, ProbeLagPerSec*secs)
}

// GrillTemp returns the chamber temperature in °F.
func (g *Grill) GrillTemp() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.temp
}

// ProbeTemp returns the meat temperature in °F.
func (g *Grill) ProbeTemp() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.probe
}

// Fuel returns the unburnt pellets in the fire pot.
func (g *Grill) Fuel() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.fuel
}

// Lit reports whether fuel is burning.
func (g *Grill) Lit() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lit
}

// SetProbePlugged connects or disconnects the meat probe.
func (g *Grill) SetProbePlugged(in bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.probeIn = in
}

func (g *Grill) probePlugged() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.probeIn
}
