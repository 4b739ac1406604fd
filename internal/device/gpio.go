package device

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const gpioConsumer = "inferno"

// GPIOPin drives one line of a GPIO character device.
type GPIOPin struct {
	line *gpiocdev.Line
}

var _ Pin = (*GPIOPin)(nil)

// OpenGPIOPin requests offset on chip (e.g. "gpiochip0") as an output held
// inactive. activeLow suits relay boards that energise on a low level.
func OpenGPIOPin(chip string, offset int, activeLow bool) (*GPIOPin, error) {
	opts := []gpiocdev.LineReqOption{
		gpiocdev.WithConsumer(gpioConsumer),
		gpiocdev.AsOutput(0),
	}
	if activeLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}
	line, err := gpiocdev.RequestLine(chip, offset, opts...)
	if err != nil {
		return nil, fmt.Errorf("request %s line %d: %w", chip, offset, err)
	}
	return &GPIOPin{line: line}, nil
}

func (p *GPIOPin) Write(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := p.line.SetValue(v); err != nil {
		return fmt.Errorf("set line %d: %w", p.line.Offset(), err)
	}
	return nil
}

// Close drives the line inactive and releases it.
func (p *GPIOPin) Close() error {
	_ = p.line.SetValue(0)
	return p.line.Close()
}
