package models

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the smoker's operating mode.
type Mode int

const (
	ModeReady Mode = iota
	ModePreheat
	ModeSmoke
	ModeHold
	ModeSear
	ModeShutdown
	ModeError
)

// ErrInvalidMode is returned when a mode name cannot be parsed.
var ErrInvalidMode = errors.New("invalid mode")

var modeNames = [...]string{
	ModeReady:    "Ready",
	ModePreheat:  "Preheat",
	ModeSmoke:    "Smoke",
	ModeHold:     "Hold",
	ModeSear:     "Sear",
	ModeShutdown: "Shutdown",
	ModeError:    "Error",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// IsCooking reports whether fuel is being fed and the fire is supervised.
func (m Mode) IsCooking() bool {
	switch m {
	case ModePreheat, ModeSmoke, ModeHold, ModeSear:
		return true
	}
	return false
}

// ParseMode parses a mode name case-insensitively. "seer" is accepted as an
// alias for Sear.
func ParseMode(s string) (Mode, error) {
	name := strings.TrimSpace(s)
	if strings.EqualFold(name, "seer") {
		return ModeSear, nil
	}
	for i, n := range modeNames {
		if strings.EqualFold(name, n) {
			return Mode(i), nil
		}
	}
	return ModeReady, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
