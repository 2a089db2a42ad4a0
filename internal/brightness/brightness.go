// Package brightness adjusts the global brightness from the second
// button's falling-edge events while the render loop keeps running.
package brightness

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-starstrip/internal/clock"
	"github.com/coreman2200/funtimes-starstrip/internal/led"
	"github.com/coreman2200/funtimes-starstrip/internal/strip"
)

// EdgeSource delivers the button's falling edges. WaitEdge returns
// false once the context is done.
type EdgeSource interface {
	WaitEdge(ctx context.Context) bool
}

// Controller applies one brightness step per trigger, reversing
// direction at the bounds. Hitting a bound schedules a confirmation
// blink that the render loop performs via ServicePending, keeping the
// blocking feedback out of the trigger path.
type Controller struct {
	strip *strip.Handle
	clk   clock.Clock
	lamp  led.Lamp
	log   zerolog.Logger

	step       float64
	blinkCount int
	blinkStep  time.Duration
	debounce   time.Duration

	mu  sync.Mutex
	dir float64 // +1 increasing, -1 decreasing

	blinkPending atomic.Bool
}

// New builds a Controller stepping by step per trigger.
func New(s *strip.Handle, step float64, lamp led.Lamp, clk clock.Clock, log zerolog.Logger) *Controller {
	return &Controller{
		strip:      s,
		clk:        clk,
		lamp:       lamp,
		log:        log,
		step:       step,
		blinkCount: 3,
		blinkStep:  100 * time.Millisecond,
		debounce:   150 * time.Millisecond,
		dir:        1,
	}
}

// HandleTrigger is the per-edge body: read the shared brightness,
// reverse direction at a bound, apply one step and store the clamped
// result. The bound check reads the pre-step value, so the trigger that
// clamps onto a bound keeps its direction and the following trigger is
// the one that reverses (0.95 steps to 1.0, then 1.0 steps down to
// 0.9). The read-modify-write runs inside a critical section so
// concurrent triggers cannot lose an update; render-loop reads stay
// lock-free.
func (c *Controller) HandleTrigger() {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := c.strip.Brightness()
	switch {
	case b >= 1.0:
		c.dir = -1
	case b <= c.step:
		c.dir = 1
	}

	nb := b + c.step*c.dir
	if nb > 1 {
		nb = 1
	}
	if nb < 0 {
		nb = 0
	}
	c.strip.SetBrightness(nb)

	atBound := nb >= 1.0 || nb <= c.step
	if atBound {
		c.blinkPending.Store(true)
	}

	c.log.Info().
		Float64("brightness", nb).
		Float64("direction", c.dir).
		Bool("at_bound", atBound).
		Msg("brightness changed")
}

// Direction returns the current step direction (+1 or -1).
func (c *Controller) Direction() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dir
}

// BlinkPending reports whether a confirmation blink is queued.
func (c *Controller) BlinkPending() bool { return c.blinkPending.Load() }

// ServicePending performs the queued confirmation blink, if any: a
// fixed number of red/green alternations on the status lamp. Called
// from the render loops between frames.
func (c *Controller) ServicePending() {
	if !c.blinkPending.Swap(false) {
		return
	}
	for i := 0; i < c.blinkCount; i++ {
		_ = c.lamp.Set(true, false, false)
		c.clk.Sleep(c.blinkStep)
		_ = c.lamp.Set(false, true, false)
		c.clk.Sleep(c.blinkStep)
	}
	_ = c.lamp.Set(false, false, false)
}

// Watch consumes falling edges from src until ctx is done, applying
// one trigger per edge with a short refractory window to swallow
// contact bounce.
func (c *Controller) Watch(ctx context.Context, src EdgeSource) error {
	for src.WaitEdge(ctx) {
		c.HandleTrigger()
		c.clk.Sleep(c.debounce)
	}
	return ctx.Err()
}
