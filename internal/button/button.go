// Package button reads the fixture's two momentary switches. Both are
// wired active-low with pull-ups, so a pressed button reads Low.
// Absent hardware degrades to "never pressed" instead of failing.
package button

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Button wraps a single digital input. A nil *Button is valid and
// reads as never pressed.
type Button struct {
	pin  gpio.PinIn
	name string
}

// New binds a Button to the named GPIO line, configured with a pull-up
// and falling-edge detection.
func New(name string) (*Button, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errors.Errorf("gpio pin %q not found", name)
	}
	if err := p.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, errors.Wrapf(err, "init pin %q", name)
	}
	return &Button{pin: p, name: name}, nil
}

// Name returns the bound pin name, or "none" for an absent button.
func (b *Button) Name() string {
	if b == nil {
		return "none"
	}
	return b.name
}

// Pressed reports whether the button currently reads pressed
// (active-low). Absent buttons are never pressed.
func (b *Button) Pressed() bool {
	if b == nil {
		return false
	}
	return b.pin.Read() == gpio.Low
}

// WaitEdge blocks until a falling edge fires or ctx is done. It
// returns true on an edge, false on cancellation. An absent button
// never fires; the call just waits out the context.
func (b *Button) WaitEdge(ctx context.Context) bool {
	if b == nil {
		<-ctx.Done()
		return false
	}
	for {
		if ctx.Err() != nil {
			return false
		}
		// Bounded wait so cancellation is noticed between edges.
		if b.pin.WaitForEdge(time.Second) {
			return true
		}
	}
}
