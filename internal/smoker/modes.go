package smoker

import (
	"context"
	"fmt"
	"math"
	"runtime/debug"
	"time"

	"inferno/internal/models"
)

// Run drives the mode loop until ctx is cancelled. Each iteration executes
// one step of the current mode's body under a context that a mode change
// cancels, so a transition takes effect without waiting out a timer.
func (c *Controller) Run(ctx context.Context) error {
	c.log.Infow("mode_loop_started", "mode", c.Mode())
	defer func() {
		c.allOff()
		c.log.Infow("mode_loop_stopped")
	}()

	for ctx.Err() == nil {
		c.step(ctx)
	}
	return nil
}

func (c *Controller) step(ctx context.Context) {
	c.mu.Lock()
	body, cancel := context.WithCancel(ctx)
	c.cancelBody = cancel
	mode := c.mode
	c.mu.Unlock()

	panicked := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = true
				c.log.Errorw("mode_body_panic",
					"mode", mode,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		c.runMode(body, mode)
	}()

	if body.Err() != nil || panicked {
		c.auger.Off()
	}
	cancel()

	if panicked {
		sleep(ctx, c.tun.IdlePoll)
	}
}

func (c *Controller) runMode(ctx context.Context, mode models.Mode) {
	switch mode {
	case models.ModeReady:
		c.ready(ctx)
	case models.ModePreheat:
		c.preheat(ctx)
	case models.ModeSmoke:
		c.smoke(ctx)
	case models.ModeHold:
		c.hold(ctx)
	case models.ModeSear:
		c.sear(ctx)
	case models.ModeShutdown, models.ModeError:
		c.cooldown(ctx, mode)
	default:
		c.log.Errorw("unknown_mode", "mode", int(mode))
		sleep(ctx, c.tun.IdlePoll)
	}
}

func (c *Controller) ready(ctx context.Context) {
	c.auger.Off()
	c.blower.Off()
	c.igniter.Off()
	c.fire.Reset()

	c.mu.Lock()
	c.setPoint = c.tun.MinSetPoint
	c.mu.Unlock()

	sleep(ctx, c.tun.IdlePoll)
}

func (c *Controller) smoke(ctx context.Context) {
	c.blower.On()
	rest := c.tun.SmokeRestBase + time.Duration(c.PValue())*c.tun.SmokeRestPerP
	c.runAuger(ctx, c.tun.SmokeAugerOn, rest)
}

func (c *Controller) preheat(ctx context.Context) {
	c.blower.On()
	grill := c.Temps().GrillTemp
	if !c.fire.Started() || !validReading(grill) {
		c.smoke(ctx)
		return
	}

	sp := c.SetPoint()
	if grill < float64(sp)-c.tun.PreheatMargin {
		c.runAuger(ctx, c.tun.PreheatBurst, c.tun.PreheatRest)
		return
	}
	c.log.Infow("preheat_complete", "grill", grill, "set_point", sp)
	// A Sear feed cycle may have left the auger running.
	c.auger.Off()
	c.transition(models.ModeHold, "preheat reached set point")
}

// hold runs the PID duty cycle. An unplugged grill reading yields a zero
// control variable, so a blind Hold feeds at the minimum duty.
func (c *Controller) hold(ctx context.Context) {
	c.blower.On()
	if !c.fire.Started() {
		c.smoke(ctx)
		return
	}

	grill := c.Temps().GrillTemp
	sp := c.SetPoint()
	if sp == c.tun.MaxSetPoint && validReading(grill) && grill < float64(sp) {
		c.feedCycle(ctx)
		return
	}

	run := c.holdRunTime(grill, sp)
	if run >= c.tun.HoldCycle {
		c.feedCycle(ctx)
		return
	}
	c.runAuger(ctx, run, c.tun.HoldCycle-run)
}

// holdRunTime converts the PID output for the current reading into the
// auger's share of one hold cycle.
func (c *Controller) holdRunTime(grill float64, sp int) time.Duration {
	if c.pid.SetPoint() != float64(sp) {
		c.pid.SetSetPoint(float64(sp))
	}
	u := c.pid.Update(grill)
	if math.IsNaN(u) || u < c.tun.UMin {
		u = c.tun.UMin
	}
	if u > c.tun.UMax {
		u = c.tun.UMax
	}
	return time.Duration(u * float64(c.tun.HoldCycle))
}

func (c *Controller) sear(ctx context.Context) {
	c.blower.On()
	grill := c.Temps().GrillTemp
	if !c.fire.Started() || !validReading(grill) {
		c.smoke(ctx)
		return
	}

	if grill < c.tun.MaxGrillTemp {
		c.feedCycle(ctx)
		return
	}
	c.auger.Off()
	sleep(ctx, c.tun.HoldCycle)
}

// cooldown runs the blower with fuel and ignition cut until the cool-down
// period since entering the mode has passed.
func (c *Controller) cooldown(ctx context.Context, mode models.Mode) {
	c.auger.Off()
	c.igniter.Off()

	c.mu.RLock()
	since := time.Since(c.modeChangedAt)
	c.mu.RUnlock()

	if remaining := c.tun.CooldownTimeout - since; remaining > 0 {
		c.blower.On()
		sleep(ctx, min(remaining, c.tun.IdlePoll))
		return
	}

	if mode == models.ModeShutdown {
		c.transition(models.ModeReady, "cool-down complete")
		return
	}

	c.blower.Off()
	c.log.Warnw("error_mode_idle", "hint", "request shutdown to recover")
	<-ctx.Done()
}

// runAuger feeds for run, then rests. A cancel during the feed turns the
// auger off and skips the rest.
func (c *Controller) runAuger(ctx context.Context, run, rest time.Duration) {
	if run > 0 {
		c.auger.On()
		ok := sleep(ctx, run)
		c.auger.Off()
		if !ok {
			return
		}
	}
	sleep(ctx, rest)
}

// feedCycle keeps the auger on for a whole hold cycle. It is left running
// afterwards so back-to-back cycles feed continuously.
func (c *Controller) feedCycle(ctx context.Context) {
	c.auger.On()
	if !sleep(ctx, c.tun.HoldCycle) {
		c.auger.Off()
	}
}

func (c *Controller) allOff() {
	c.auger.Off()
	c.igniter.Off()
	c.blower.Off()
}

// sleep waits for d or until ctx is done. It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
