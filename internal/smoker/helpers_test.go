package smoker

import (
	"sync"
	"testing"
	"time"

	"inferno/internal/device"
	"inferno/internal/logger"
	"inferno/internal/models"
)

type fakeThermometer struct {
	mu      sync.Mutex
	temps   models.Temps
	reads   int
	panicOn int
	onRead  func() // runs after the reading is taken, outside mu
}

func (f *fakeThermometer) Temps() models.Temps {
	f.mu.Lock()
	f.reads++
	if f.panicOn > 0 && f.reads == f.panicOn {
		f.mu.Unlock()
		panic("sensor bus exploded")
	}
	t, hook := f.temps, f.onRead
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return t
}

func (f *fakeThermometer) setGrill(t float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.temps.GrillTemp = t
}

func (f *fakeThermometer) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

type recordingSink struct {
	mu     sync.Mutex
	events []models.SmokerEvent
}

func (s *recordingSink) Record(e models.SmokerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

type rig struct {
	c       *Controller
	auger   *device.Relay
	blower  *device.Relay
	igniter *device.Relay
	thermo  *fakeThermometer
	sink    *recordingSink
}

func newRig(t *testing.T, tun Tunables) *rig {
	t.Helper()
	log := logger.Nop()
	r := &rig{
		auger:   device.NewRelay(device.RoleAuger, device.NewMemoryPin(), log),
		blower:  device.NewRelay(device.RoleBlower, device.NewMemoryPin(), log),
		igniter: device.NewRelay(device.RoleIgniter, device.NewMemoryPin(), log),
		thermo:  &fakeThermometer{temps: models.Temps{GrillTemp: 70, ProbeTemp: models.TempUnplugged}},
		sink:    &recordingSink{},
	}
	r.c = NewController(Hardware{
		Auger:   r.auger,
		Blower:  r.blower,
		Igniter: r.igniter,
		Temps:   r.thermo,
	}, tun, log, WithEventSink(r.sink))
	return r
}

// fastTunables shrinks every timer so mode bodies cycle in milliseconds.
func fastTunables() Tunables {
	tun := DefaultTunables()
	tun.HoldCycle = 40 * time.Millisecond
	tun.SmokeAugerOn = 20 * time.Millisecond
	tun.SmokeRestBase = 20 * time.Millisecond
	tun.SmokeRestPerP = 5 * time.Millisecond
	tun.PreheatBurst = 20 * time.Millisecond
	tun.PreheatRest = 10 * time.Millisecond
	tun.CooldownTimeout = 60 * time.Millisecond
	tun.IdlePoll = 5 * time.Millisecond
	tun.Fire.Poll = 5 * time.Millisecond
	return tun
}

// forceMode puts the controller in mode without going through the
// transition table.
func (r *rig) forceMode(m models.Mode) {
	r.c.mu.Lock()
	r.c.mode = m
	r.c.modeChangedAt = time.Now()
	r.c.mu.Unlock()
}

// lightFire marks the fire as established.
func (r *rig) lightFire() {
	f := r.c.fire
	f.mu.Lock()
	f.state.FireStarted = true
	f.state.InitialIgnition = false
	f.mu.Unlock()
}
