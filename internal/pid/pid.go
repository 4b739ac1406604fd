// Package pid converts grill temperature error into a fractional auger duty
// cycle.
package pid

import (
	"math"
	"sync"
	"time"

	"inferno/internal/models"
)

// integralLimit is the share of full output the integral term may demand.
const integralLimit = 0.5

// Tuning is expressed in process terms: proportional band in °F, integral
// and derivative times in seconds.
type Tuning struct {
	PB float64 `mapstructure:"pb"`
	Ti float64 `mapstructure:"ti"`
	Td float64 `mapstructure:"td"`
}

// DefaultTuning is the tuning the smoker shipped with.
func DefaultTuning() Tuning {
	return Tuning{PB: 60, Ti: 180, Td: 45}
}

func (t Tuning) kp() float64 { return -1 / t.PB }
func (t Tuning) ki() float64 { return t.kp() / t.Ti }
func (t Tuning) kd() float64 { return t.kp() * t.Td }

func (t Tuning) integralMax() float64 {
	return math.Abs(integralLimit / t.ki())
}

// Controller is safe for concurrent use.
type Controller struct {
	mu       sync.Mutex
	tuning   Tuning
	setPoint float64
	integral float64

	hasPrev  bool
	prevTemp float64
	prevAt   time.Time
}

// New returns a controller with a zero setpoint and empty history.
func New(t Tuning) *Controller {
	return &Controller{tuning: t}
}

// SetPoint returns the target temperature.
func (c *Controller) SetPoint() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setPoint
}

// SetSetPoint changes the target. Integral and derivative history are kept.
func (c *Controller) SetSetPoint(sp float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPoint = sp
}

// Tuning returns the active tuning.
func (c *Controller) Tuning() Tuning {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tuning
}

// SetTuning swaps gains and re-clamps the integral to the new bound.
func (c *Controller) SetTuning(t Tuning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tuning = t
	c.integral = clamp(c.integral, -t.integralMax(), t.integralMax())
}

// Integral returns the accumulated error·seconds.
func (c *Controller) Integral() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.integral
}

// Reset clears integral and history.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.integral = 0
	c.hasPrev = false
}

// Resync forgets the previous sample so the next update neither integrates
// nor differentiates across an interval the controller was not in charge.
func (c *Controller) Resync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasPrev = false
}

// Update is UpdateAt with the current time.
func (c *Controller) Update(temp float64) float64 {
	return c.UpdateAt(temp, time.Now())
}

// UpdateAt returns the control variable for a reading taken at now. The
// output is unbounded; callers clamp it. A NaN or unplugged reading returns
// 0 and leaves all state untouched.
func (c *Controller) UpdateAt(temp float64, now time.Time) float64 {
	if math.IsNaN(temp) || temp == models.TempUnplugged {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.tuning
	err := temp - c.setPoint

	var derivative float64
	if c.hasPrev {
		if dt := now.Sub(c.prevAt).Seconds(); dt > 0 {
			c.integral += err * dt
			c.integral = clamp(c.integral, -t.integralMax(), t.integralMax())
			derivative = (temp - c.prevTemp) / dt
		}
	}

	u := t.kp()*err + t.ki()*c.integral + t.kd()*derivative

	c.hasPrev = true
	c.prevTemp = temp
	c.prevAt = now
	return u
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
