package led

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Lamp is the single status indicator used for the brightness-bound
// confirmation blink.
type Lamp interface {
	// Set drives the three channels; true = lit.
	Set(r, g, b bool) error
}

type gpioLamp struct {
	r, g, b gpio.PinOut
}

// NewGPIOLamp binds a Lamp to three named GPIO lines.
func NewGPIOLamp(rName, gName, bName string) (Lamp, error) {
	pins := make([]gpio.PinOut, 3)
	for i, name := range []string{rName, gName, bName} {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, errors.Errorf("gpio pin %q not found", name)
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, errors.Wrapf(err, "init pin %q", name)
		}
		pins[i] = p
	}
	return &gpioLamp{r: pins[0], g: pins[1], b: pins[2]}, nil
}

func (l *gpioLamp) Set(r, g, b bool) error {
	for _, ch := range []struct {
		pin gpio.PinOut
		on  bool
	}{{l.r, r}, {l.g, g}, {l.b, b}} {
		lvl := gpio.Low
		if ch.on {
			lvl = gpio.High
		}
		if err := ch.pin.Out(lvl); err != nil {
			return err
		}
	}
	return nil
}

// NopLamp is the no-hardware stand-in; every Set succeeds silently.
type NopLamp struct{}

func (NopLamp) Set(r, g, b bool) error { return nil }
