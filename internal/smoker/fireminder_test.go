package smoker

import (
	"context"
	"testing"
	"time"

	"inferno/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time { return t0.Add(d) }

func TestFire_IgnitionThenFireStartedWithinOneTick(t *testing.T) {
	r := newRig(t, DefaultTunables())
	f := r.c.FireMinder()

	require.True(t, r.c.RequestMode(models.ModeSmoke))
	require.False(t, f.Started())

	r.thermo.setGrill(70)
	f.Step(at(0))
	require.True(t, r.igniter.IsOn())
	assert.Equal(t, 80.0, f.State().IgnitionTemp, "threshold is re-targeted above the current reading")

	r.thermo.setGrill(85)
	f.Step(at(time.Second))

	assert.True(t, f.Started())
	assert.False(t, r.igniter.IsOn())
	assert.Equal(t, []string{
		models.EventModeChange,
		models.EventIgnition,
		models.EventFireStarted,
	}, r.sink.types())
}

func TestFire_IgniterTimeoutForcesError(t *testing.T) {
	tun := DefaultTunables()
	r := newRig(t, tun)
	f := r.c.FireMinder()
	require.True(t, r.c.RequestMode(models.ModeSmoke))

	r.thermo.setGrill(70)
	f.Step(at(0))
	require.True(t, r.igniter.IsOn())

	f.Step(at(tun.Fire.IgniterTimeout))
	require.Equal(t, models.ModeSmoke, r.c.Mode(), "timeout is strictly greater than the limit")

	f.Step(at(tun.Fire.IgniterTimeout + time.Second))

	assert.Equal(t, models.ModeError, r.c.Mode())
	assert.False(t, r.igniter.IsOn())
	assert.Contains(t, r.sink.types(), models.EventFault)
}

func TestFire_FlameOutReignitesAndRecovers(t *testing.T) {
	tun := DefaultTunables()
	r := newRig(t, tun)
	f := r.c.FireMinder()
	require.True(t, r.c.RequestMode(models.ModeSmoke))

	r.thermo.setGrill(70)
	f.Step(at(0))
	r.thermo.setGrill(150)
	f.Step(at(time.Second))
	f.Step(at(2 * time.Second))
	require.True(t, f.Started())
	require.False(t, f.State().InitialIgnition)

	r.thermo.setGrill(100)
	f.Step(at(10 * time.Second))
	require.False(t, f.Healthy())
	require.False(t, r.igniter.IsOn(), "no relight before the reignite wait")

	f.Step(at(10*time.Second + tun.Fire.ReigniteWait/2))
	require.False(t, r.igniter.IsOn())

	f.Step(at(11*time.Second + tun.Fire.ReigniteWait))
	require.True(t, r.igniter.IsOn())
	assert.Equal(t, 105.0, f.State().IgnitionTemp)

	r.thermo.setGrill(145)
	f.Step(at(2 * tun.Fire.ReigniteWait))

	assert.True(t, f.Healthy())
	assert.False(t, r.igniter.IsOn())
	assert.Equal(t, models.ModeSmoke, r.c.Mode())
	assert.Contains(t, r.sink.types(), models.EventFireRecovered)
}

func TestFire_FireTimeoutForcesError(t *testing.T) {
	tun := DefaultTunables()
	r := newRig(t, tun)
	f := r.c.FireMinder()
	require.True(t, r.c.RequestMode(models.ModeSmoke))

	r.thermo.setGrill(70)
	f.Step(at(0))
	r.thermo.setGrill(150)
	f.Step(at(time.Second))
	f.Step(at(2 * time.Second))

	r.thermo.setGrill(100)
	f.Step(at(10 * time.Second))
	f.Step(at(11*time.Second + tun.Fire.ReigniteWait))
	require.True(t, r.igniter.IsOn())
	require.Equal(t, models.ModeSmoke, r.c.Mode())

	f.Step(at(11*time.Second + tun.Fire.FireTimeout))

	assert.Equal(t, models.ModeError, r.c.Mode())
}

func TestFire_InitialIgnitionSuppressesFireCheck(t *testing.T) {
	r := newRig(t, DefaultTunables())
	f := r.c.FireMinder()
	require.True(t, r.c.RequestMode(models.ModeSmoke))

	r.thermo.setGrill(70)
	f.Step(at(0))
	r.thermo.setGrill(90)
	f.Step(at(time.Second))
	require.True(t, f.Started())

	f.Step(at(time.Minute))

	assert.True(t, f.Healthy(), "a fire still warming up is not checked")
	assert.True(t, f.State().InitialIgnition)
}

func TestFire_CheckTemp(t *testing.T) {
	r := newRig(t, DefaultTunables())
	f := r.c.FireMinder()

	tests := []struct {
		mode models.Mode
		sp   int
		want float64
	}{
		{models.ModeSmoke, 225, 140},
		{models.ModeSmoke, 400, 140},
		{models.ModePreheat, 180, 150},
		{models.ModeHold, 225, 195},
		{models.ModeHold, 359, 329},
		{models.ModeHold, 360, 300},
		{models.ModeSear, 400, 340},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.checkTemp(tt.mode, tt.sp), "%s at %d", tt.mode, tt.sp)
	}
}

func TestFire_UnpluggedGrillSkipsDecisions(t *testing.T) {
	r := newRig(t, DefaultTunables())
	f := r.c.FireMinder()
	require.True(t, r.c.RequestMode(models.ModeSmoke))
	r.thermo.setGrill(models.TempUnplugged)

	f.Step(at(0))

	assert.False(t, r.igniter.IsOn())
	assert.Equal(t, []string{models.EventModeChange}, r.sink.types())
}

func TestFire_EventsCarryMetadata(t *testing.T) {
	r := newRig(t, DefaultTunables())
	require.True(t, r.c.RequestMode(models.ModeSmoke))
	r.thermo.setGrill(70)

	r.c.FireMinder().Step(at(0))

	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	last := r.sink.events[len(r.sink.events)-1]
	require.Equal(t, models.EventIgnition, last.Type)
	assert.Equal(t, map[string]any{"grill": 70.0, "ignition_temp": 80.0}, last.Metadata)
}

func TestFire_ShutdownDuringStepKeepsIgniterOff(t *testing.T) {
	r := newRig(t, DefaultTunables())
	f := r.c.FireMinder()
	require.True(t, r.c.RequestMode(models.ModeSmoke))
	r.thermo.setGrill(70)

	// The operator shuts down while the monitor is mid-evaluation.
	var once bool
	r.thermo.onRead = func() {
		if !once {
			once = true
			require.True(t, r.c.RequestMode(models.ModeShutdown))
		}
	}

	f.Step(at(0))

	assert.Equal(t, models.ModeShutdown, r.c.Mode())
	assert.False(t, r.igniter.IsOn(), "igniter must not be lit outside a cooking mode")
	assert.NotContains(t, r.sink.types(), models.EventIgnition)
}

func TestFire_IdleOutsideCookingModes(t *testing.T) {
	for _, m := range []models.Mode{models.ModeReady, models.ModeShutdown, models.ModeError} {
		t.Run(m.String(), func(t *testing.T) {
			r := newRig(t, DefaultTunables())
			r.forceMode(m)
			r.thermo.setGrill(70)

			r.c.FireMinder().Step(at(0))

			assert.False(t, r.igniter.IsOn())
			assert.False(t, r.c.FireMinder().Started())
		})
	}
}

func TestFire_IgniterNeverOnWhileFireHealthy(t *testing.T) {
	tun := DefaultTunables()
	r := newRig(t, tun)
	f := r.c.FireMinder()
	require.True(t, r.c.RequestMode(models.ModeSmoke))

	profile := []float64{70, 75, 79, 82, 120, 150, 160, 130, 120, 110, 100, 104, 106, 112, 139, 141, 150, 90, 80, 70}
	now := t0
	for round := 0; round < 3; round++ {
		for _, temp := range profile {
			r.thermo.setGrill(temp)
			f.Step(now)
			now = now.Add(20 * time.Second)

			s := f.State()
			if r.c.Mode() != models.ModeSmoke {
				return
			}
			assert.False(t, s.FireStarted && !s.FireCheck && r.igniter.IsOn(),
				"igniter on with a healthy fire at %.0f°F", temp)
		}
	}
}

func TestFireMinder_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := newRig(t, fastTunables())
	require.True(t, r.c.RequestMode(models.ModeSmoke))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.c.FireMinder().Run(ctx) }()

	require.Eventually(t, r.igniter.IsOn, time.Second, time.Millisecond)
	cancel()

	require.NoError(t, <-done)
	assert.False(t, r.igniter.IsOn())
}
