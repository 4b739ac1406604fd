// Package device wraps the smoker's hardware: relay outputs on GPIO lines
// and the analog-to-digital converter that reads the RTD probes.
package device

import "sync"

// Pin is a digital output. true energises whatever is attached to it;
// polarity inversion is the implementation's concern.
type Pin interface {
	Write(on bool) error
	Close() error
}

// MemoryPin is a Pin that only remembers its level. The simulator and tests
// read it back with Level.
type MemoryPin struct {
	mu     sync.RWMutex
	level  bool
	writes int
	err    error
}

var _ Pin = (*MemoryPin)(nil)

// NewMemoryPin returns a de-energised in-memory pin.
func NewMemoryPin() *MemoryPin {
	return &MemoryPin{}
}

func (p *MemoryPin) Write(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.level = on
	p.writes++
	return nil
}

func (p *MemoryPin) Close() error {
	return nil
}

// Level reports the last written level.
func (p *MemoryPin) Level() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

// Writes counts successful writes.
func (p *MemoryPin) Writes() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.writes
}

// FailWith makes every following Write return err. nil clears it.
func (p *MemoryPin) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}
