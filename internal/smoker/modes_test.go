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

// runLoop starts the mode loop and returns a stop function that cancels it
// and waits for Run to return.
func runLoop(t *testing.T, c *Controller) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	return func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("mode loop did not stop")
		}
	}
}

func TestHoldRunTime_AtSetPointIsMinimumDuty(t *testing.T) {
	tun := DefaultTunables()
	r := newRig(t, tun)
	require.True(t, r.c.RequestMode(models.ModeHold))
	r.c.SetSetPoint(225)

	run := r.c.holdRunTime(225, 225)

	want := time.Duration(tun.UMin * float64(tun.HoldCycle))
	assert.InDelta(t, float64(want), float64(run), float64(time.Millisecond))
	assert.Equal(t, 3*time.Second, run.Round(time.Millisecond))
}

func TestHoldRunTime_Bounds(t *testing.T) {
	tun := DefaultTunables()
	tests := []struct {
		name  string
		grill float64
		want  time.Duration
	}{
		{"far below set point saturates", 100, tun.HoldCycle},
		{"far above set point floors", 400, time.Duration(tun.UMin * float64(tun.HoldCycle))},
		{"unplugged probe floors", models.TempUnplugged, time.Duration(tun.UMin * float64(tun.HoldCycle))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, tun)
			run := r.c.holdRunTime(tt.grill, 225)
			assert.InDelta(t, float64(tt.want), float64(run), float64(time.Millisecond))
		})
	}
}

func TestHoldRunTime_FollowsSetPointChanges(t *testing.T) {
	r := newRig(t, DefaultTunables())

	r.c.holdRunTime(225, 225)
	require.Equal(t, 225.0, r.c.pid.SetPoint())

	r.c.holdRunTime(225, 250)
	assert.Equal(t, 250.0, r.c.pid.SetPoint())
}

func TestRun_ReadyKeepsOutputsOff(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := newRig(t, fastTunables())
	r.auger.On()
	r.blower.On()
	r.igniter.On()
	r.c.mu.Lock()
	r.c.setPoint = 300
	r.c.mu.Unlock()

	stop := runLoop(t, r.c)
	defer stop()

	require.Eventually(t, func() bool {
		return !r.auger.IsOn() && !r.blower.IsOn() && !r.igniter.IsOn()
	}, time.Second, time.Millisecond)
	assert.Equal(t, DefaultTunables().MinSetPoint, r.c.SetPoint())
}

func TestRun_SmokeCyclesAuger(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := newRig(t, fastTunables())
	require.True(t, r.c.RequestMode(models.ModeSmoke))

	stop := runLoop(t, r.c)
	defer stop()

	require.Eventually(t, r.auger.IsOn, time.Second, time.Millisecond)
	assert.True(t, r.blower.IsOn())
	require.Eventually(t, func() bool { return !r.auger.IsOn() }, time.Second, time.Millisecond)
}

func TestRun_ShutdownReturnsToReadyAfterCooldown(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := newRig(t, fastTunables())
	require.True(t, r.c.RequestMode(models.ModeSmoke))
	require.True(t, r.c.RequestMode(models.ModeShutdown))

	stop := runLoop(t, r.c)
	defer stop()

	require.Eventually(t, r.blower.IsOn, time.Second, time.Millisecond)
	assert.False(t, r.auger.IsOn())
	assert.False(t, r.igniter.IsOn())

	require.Eventually(t, func() bool { return r.c.Mode() == models.ModeReady }, time.Second, 2*time.Millisecond)
	require.Eventually(t, func() bool { return !r.blower.IsOn() }, time.Second, time.Millisecond)
}

func TestRun_ErrorDoesNotAutoAdvance(t *testing.T) {
	defer goleak.VerifyNone(t)
	tun := fastTunables()
	r := newRig(t, tun)
	require.True(t, r.c.RequestMode(models.ModeSmoke))
	r.c.fault("test fault", nil)
	require.Equal(t, models.ModeError, r.c.Mode())

	stop := runLoop(t, r.c)
	defer stop()

	require.Eventually(t, r.blower.IsOn, time.Second, time.Millisecond)
	time.Sleep(3 * tun.CooldownTimeout)

	assert.Equal(t, models.ModeError, r.c.Mode())
	assert.False(t, r.blower.IsOn(), "blower stops once cool-down is over")
	assert.False(t, r.auger.IsOn())

	require.True(t, r.c.RequestMode(models.ModeShutdown))
	require.Eventually(t, func() bool { return r.c.Mode() == models.ModeReady }, time.Second, 2*time.Millisecond)
}

func TestRun_PreheatHandsOverToHold(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := newRig(t, fastTunables())
	require.True(t, r.c.RequestMode(models.ModePreheat))
	r.c.SetSetPoint(225)
	r.lightFire()
	r.thermo.setGrill(100)

	stop := runLoop(t, r.c)
	defer stop()

	require.Eventually(t, r.auger.IsOn, time.Second, time.Millisecond, "cold grill gets feed bursts")
	assert.Equal(t, models.ModePreheat, r.c.Mode())

	r.thermo.setGrill(220)
	require.Eventually(t, func() bool { return r.c.Mode() == models.ModeHold }, time.Second, time.Millisecond)
	assert.Equal(t, 225, r.c.SetPoint())
}

func TestPreheat_HandOverLeavesAugerOff(t *testing.T) {
	r := newRig(t, fastTunables())
	require.True(t, r.c.RequestMode(models.ModePreheat))
	r.c.SetSetPoint(225)
	r.lightFire()
	r.thermo.setGrill(220)
	r.auger.On() // still running from a Sear feed cycle

	r.c.preheat(context.Background())

	assert.Equal(t, models.ModeHold, r.c.Mode())
	assert.False(t, r.auger.IsOn())
}

func TestHold_UnpluggedGrillFeedsMinimumDuty(t *testing.T) {
	tun := fastTunables()
	tun.HoldCycle = 200 * time.Millisecond
	tun.SmokeAugerOn = 150 * time.Millisecond
	r := newRig(t, tun)
	require.True(t, r.c.RequestMode(models.ModeHold))
	r.c.SetSetPoint(tun.MaxSetPoint)
	r.lightFire()
	r.thermo.setGrill(models.TempUnplugged)

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.c.hold(context.Background())
	}()

	require.Eventually(t, r.auger.IsOn, 50*time.Millisecond, time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.False(t, r.auger.IsOn(), "blind hold runs uMin of the cycle, not a smoke or full feed")
	select {
	case <-done:
		t.Fatal("hold returned before its cycle ended")
	default:
	}
	<-done
}

func TestRun_SearStopsFeedingAboveCeiling(t *testing.T) {
	defer goleak.VerifyNone(t)
	tun := fastTunables()
	r := newRig(t, tun)
	require.True(t, r.c.RequestMode(models.ModeSear))
	r.lightFire()
	r.thermo.setGrill(tun.MaxGrillTemp + 10)
	r.auger.On()

	stop := runLoop(t, r.c)
	defer stop()

	require.Eventually(t, r.blower.IsOn, time.Second, time.Millisecond)
	assert.False(t, r.auger.IsOn())

	r.thermo.setGrill(300)
	require.Eventually(t, r.auger.IsOn, time.Second, time.Millisecond)
}

func TestRun_HoldAtMaxSetPointFeedsContinuously(t *testing.T) {
	defer goleak.VerifyNone(t)
	tun := fastTunables()
	r := newRig(t, tun)
	require.True(t, r.c.RequestMode(models.ModeHold))
	r.c.SetSetPoint(tun.MaxSetPoint)
	r.lightFire()
	r.thermo.setGrill(300)

	stop := runLoop(t, r.c)
	defer stop()

	require.Eventually(t, r.auger.IsOn, time.Second, time.Millisecond)
	for i := 0; i < 10; i++ {
		time.Sleep(tun.HoldCycle / 4)
		assert.True(t, r.auger.IsOn(), "auger must not pause between cycles")
	}
}

func TestRun_BodyPanicIsRecovered(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := newRig(t, fastTunables())
	require.True(t, r.c.RequestMode(models.ModePreheat))
	r.thermo.panicOn = 1

	stop := runLoop(t, r.c)
	defer stop()

	require.Eventually(t, func() bool { return r.thermo.readCount() > 2 }, time.Second, time.Millisecond,
		"loop keeps running after a panicking iteration")
	assert.Equal(t, models.ModePreheat, r.c.Mode())
}

func TestRun_CancelTurnsEverythingOff(t *testing.T) {
	defer goleak.VerifyNone(t)
	tun := fastTunables()
	tun.SmokeAugerOn = time.Hour
	r := newRig(t, tun)
	require.True(t, r.c.RequestMode(models.ModeSmoke))
	r.igniter.On()

	stop := runLoop(t, r.c)
	require.Eventually(t, r.auger.IsOn, time.Second, time.Millisecond)

	stop()

	assert.False(t, r.auger.IsOn())
	assert.False(t, r.blower.IsOn())
	assert.False(t, r.igniter.IsOn())
}
