package main

import (
	"errors"
	"fmt"

	"inferno/internal/config"
	"inferno/internal/device"
	"inferno/internal/logger"
	"inferno/internal/sim"
)

// rig is the hardware the controller drives: three relays, the converter
// behind the sampler and, in simulation, the grill model feeding it.
type rig struct {
	auger   *device.Relay
	blower  *device.Relay
	igniter *device.Relay
	adc     device.ADC
	grill   *sim.Grill

	closers []func() error
}

func openRig(cfg config.Config, log *logger.Logger) (*rig, error) {
	r := &rig{}

	pins, err := openPins(cfg, r, log)
	if err != nil {
		return nil, err
	}

	// Relay.Close drives the line off and releases it.
	relayLog := log.Named("relay")
	r.auger = device.NewRelay(device.RoleAuger, pins[0], relayLog)
	r.blower = device.NewRelay(device.RoleBlower, pins[1], relayLog)
	r.igniter = device.NewRelay(device.RoleIgniter, pins[2], relayLog)
	r.closers = []func() error{r.auger.Close, r.blower.Close, r.igniter.Close}

	if err := r.openADC(cfg); err != nil {
		_ = r.Close()
		return nil, err
	}

	log.Infow("hardware_ready", "relays", cfg.Hardware.Driver, "adc", cfg.ADC.Driver)
	return r, nil
}

// openPins returns the auger, blower and igniter lines in that order. In
// simulation it also builds the grill model watching them.
func openPins(cfg config.Config, r *rig, log *logger.Logger) ([3]device.Pin, error) {
	var pins [3]device.Pin
	switch cfg.Hardware.Driver {
	case config.DriverGPIO:
		offsets := [3]int{cfg.Hardware.Pins.Auger, cfg.Hardware.Pins.Blower, cfg.Hardware.Pins.Igniter}
		for i, off := range offsets {
			p, err := device.OpenGPIOPin(cfg.Hardware.Chip, off, cfg.Hardware.ActiveLow)
			if err != nil {
				for _, opened := range pins[:i] {
					_ = opened.Close()
				}
				return pins, fmt.Errorf("open relay line %d: %w", off, err)
			}
			pins[i] = p
		}
	case config.DriverSim:
		mem := [3]*device.MemoryPin{device.NewMemoryPin(), device.NewMemoryPin(), device.NewMemoryPin()}
		for i, p := range mem {
			pins[i] = p
		}
		r.grill = sim.NewGrill(mem[0], mem[1], mem[2], log)
	default:
		return pins, fmt.Errorf("%w: hardware driver %q", config.ErrInvalidConfig, cfg.Hardware.Driver)
	}
	return pins, nil
}

func (r *rig) openADC(cfg config.Config) error {
	switch cfg.ADC.Driver {
	case config.DriverSPI:
		adc, err := device.OpenMCP3008(cfg.ADC.SPIPort, cfg.ADC.SPISpeedHz)
		if err != nil {
			return err
		}
		r.adc = adc
	case config.DriverSerial:
		adc, err := device.OpenSerialADC(cfg.ADC.SerialPort, cfg.ADC.SerialBaud, cfg.ADC.SerialTimeout)
		if err != nil {
			return err
		}
		r.adc = adc
	case config.DriverSim:
		if r.grill == nil {
			return fmt.Errorf("%w: adc driver sim needs hardware driver sim", config.ErrInvalidConfig)
		}
		r.adc = sim.NewADC(r.grill, cfg.Sensor)
	default:
		return fmt.Errorf("%w: adc driver %q", config.ErrInvalidConfig, cfg.ADC.Driver)
	}
	r.closers = append(r.closers, r.adc.Close)
	return nil
}

// Close turns every relay off and releases the devices.
func (r *rig) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
