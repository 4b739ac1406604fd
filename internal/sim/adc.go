package sim

import (
	"fmt"

	"inferno/internal/device"
	"inferno/internal/sensor"
)

// ADC serves the grill model's temperatures as converter codes.
type ADC struct {
	g         *Grill
	fullScale int
	vref      float64
	grillCh   int
	probeCh   int
}

var _ device.ADC = (*ADC)(nil)

// NewADC maps grillCh and probeCh onto the model using the same scale and
// reference the sampler decodes with.
func NewADC(g *Grill, opts sensor.Options) *ADC {
	return &ADC{
		g:         g,
		fullScale: opts.FullScale,
		vref:      opts.VRef,
		grillCh:   opts.GrillChannel,
		probeCh:   opts.ProbeChannel,
	}
}

func (a *ADC) Read(channel int) (int, error) {
	switch channel {
	case a.grillCh:
		return sensor.RawFromFahrenheit(a.g.GrillTemp(), a.fullScale, a.vref), nil
	case a.probeCh:
		if !a.g.probePlugged() {
			return 0, nil
		}
		return sensor.RawFromFahrenheit(a.g.ProbeTemp(), a.fullScale, a.vref), nil
	default:
		return 0, fmt.Errorf("sim adc: channel %d not wired", channel)
	}
}

func (a *ADC) Close() error { return nil }
