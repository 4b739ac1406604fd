package device

import (
	"sync"

	"inferno/internal/logger"
)

// Role names what a relay drives. It only affects log text.
type Role string

const (
	RoleAuger   Role = "auger"
	RoleBlower  Role = "blower"
	RoleIgniter Role = "igniter"
)

// Relay is a binary actuator with idempotent On/Off. A relay that cannot be
// commanded is a safety fault: write failures go to the fault handler, which
// terminates the process unless replaced with WithFaultHandler.
type Relay struct {
	role    Role
	pin     Pin
	log     *logger.Logger
	onFault func(Role, error)

	mu sync.Mutex
	on bool
}

// RelayOption customises a Relay at construction.
type RelayOption func(*Relay)

// WithFaultHandler replaces the default fatal handler for pin write errors.
func WithFaultHandler(fn func(Role, error)) RelayOption {
	return func(r *Relay) { r.onFault = fn }
}

// NewRelay wraps pin and drives it off before returning.
func NewRelay(role Role, pin Pin, log *logger.Logger, opts ...RelayOption) *Relay {
	r := &Relay{
		role: role,
		pin:  pin,
		log:  log,
	}
	r.onFault = func(role Role, err error) {
		r.log.Fatalw("relay_write_failed", "role", role, "err", err)
	}
	for _, opt := range opts {
		opt(r)
	}

	r.mu.Lock()
	r.write(false)
	r.mu.Unlock()
	return r
}

// Role returns what the relay drives.
func (r *Relay) Role() Role { return r.role }

// On energises the relay. Calling it on an energised relay does nothing.
func (r *Relay) On() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.on {
		return
	}
	r.log.Debugw("relay_on", "role", r.role)
	r.write(true)
}

// Off de-energises the relay. Calling it on an idle relay does nothing.
func (r *Relay) Off() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.on {
		return
	}
	r.log.Debugw("relay_off", "role", r.role)
	r.write(false)
}

// IsOn reports the commanded state.
func (r *Relay) IsOn() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.on
}

// Close forces the relay off and releases the pin.
func (r *Relay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write(false)
	return r.pin.Close()
}

// write must be called with mu held.
func (r *Relay) write(on bool) {
	if err := r.pin.Write(on); err != nil {
		r.onFault(r.role, err)
		return
	}
	r.on = on
}
