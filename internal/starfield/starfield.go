// Package starfield implements the low-power ambient mode: a field of
// slowly twinkling stars with occasional comet traversals that burn a
// little afterglow into the background.
package starfield

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-starstrip/internal/clock"
	"github.com/coreman2200/funtimes-starstrip/internal/strip"
)

// Config holds the generator tuning. Defaults mirror the fixture's
// shipped values.
type Config struct {
	MinBright       float64 // dimmest star
	MaxBright       float64 // brightest "hero" star; hard clamp for afterglow
	FadeSpeed       float64 // easing step per frame toward target
	NewTargetChance float64 // per-star per-frame retarget probability
	SaturationMax   float64 // jitter band; 0 = pure white
	HueSpreadDeg    float64 // degrees around the 220° cool-white band
	FrameDelay      time.Duration

	CometChance   float64 // base per-frame launch probability
	CometMinTrail int
	CometMaxTrail int
	CometMinDelay time.Duration // per-step delay, fast end
	CometMaxDelay time.Duration // per-step delay, slow end
	CometHeadMin  float64
	CometHeadMax  float64
	CometHue      float64
	CometSat      float64
	Afterglow     float64 // fraction of comet brightness burned into stars
}

// DefaultConfig returns the shipped starfield tuning.
func DefaultConfig() Config {
	return Config{
		MinBright:       0.02,
		MaxBright:       0.8,
		FadeSpeed:       0.01,
		NewTargetChance: 0.01,
		SaturationMax:   0.05,
		HueSpreadDeg:    20,
		FrameDelay:      50 * time.Millisecond,

		CometChance:   0.00015,
		CometMinTrail: 3,
		CometMaxTrail: 8,
		CometMinDelay: 15 * time.Millisecond,
		CometMaxDelay: 35 * time.Millisecond,
		CometHeadMin:  0.6,
		CometHeadMax:  1.0,
		CometHue:      220.0 / 360.0,
		CometSat:      0.1,
		Afterglow:     0.4,
	}
}

// Input is the mode button surface the exit gesture watches.
type Input interface {
	Pressed() bool
}

// Blinker is serviced once per ambient frame so the brightness
// confirmation blink runs promptly even during a long ambient session,
// and on the frame loop rather than in the edge path.
type Blinker interface {
	ServicePending()
}

// Engine owns one ambient session's star state. Create a fresh Engine
// each time ambient mode is entered; the arm state and star field reset
// with it.
type Engine struct {
	cfg   Config
	strip *strip.Handle
	btn   Input
	clk   clock.Clock
	rng   *rand.Rand
	log   zerolog.Logger

	blink Blinker // optional

	current []float64
	target  []float64
	hue     []float64
	sat     []float64

	// armed flips true the first time the button is seen released; only
	// then does a press count as the exit signal.
	armed bool
}

// New builds an Engine for one ambient session.
func New(cfg Config, s *strip.Handle, btn Input, clk clock.Clock, rng *rand.Rand, log zerolog.Logger) *Engine {
	n := s.Len()
	e := &Engine{
		cfg:     cfg,
		strip:   s,
		btn:     btn,
		clk:     clk,
		rng:     rng,
		log:     log,
		current: make([]float64, n),
		target:  make([]float64, n),
		hue:     make([]float64, n),
		sat:     make([]float64, n),
	}
	e.initStars()
	return e
}

// SetBlinker attaches the pending-blink service hook.
func (e *Engine) SetBlinker(b Blinker) { e.blink = b }

// randomBrightness draws a star brightness biased toward dim values:
// squaring a uniform draw piles most stars near the minimum while still
// allowing the occasional bright one.
func (e *Engine) randomBrightness() float64 {
	x := e.rng.Float64()
	x *= x
	return e.cfg.MinBright + x*(e.cfg.MaxBright-e.cfg.MinBright)
}

func (e *Engine) initStars() {
	for i := range e.current {
		e.current[i] = e.randomBrightness()
		e.target[i] = e.randomBrightness()

		offset := (e.rng.Float64() - 0.5) * e.cfg.HueSpreadDeg
		e.hue[i] = (220 + offset) / 360.0
		e.sat[i] = e.rng.Float64() * e.cfg.SaturationMax
	}
}

// updateStars advances every star one frame: occasionally retarget,
// ease current toward target clamping overshoot, and draw.
func (e *Engine) updateStars() {
	for i := range e.current {
		if e.rng.Float64() < e.cfg.NewTargetChance {
			e.target[i] = e.randomBrightness()
		}

		cur, tgt := e.current[i], e.target[i]
		switch {
		case cur < tgt:
			cur += e.cfg.FadeSpeed
			if cur > tgt {
				cur = tgt
			}
		case cur > tgt:
			cur -= e.cfg.FadeSpeed
			if cur < tgt {
				cur = tgt
			}
		}
		e.current[i] = cur

		e.strip.SetHSVEnv(i, e.hue[i], e.sat[i], cur)
	}
}

func (e *Engine) drawBackground() {
	for i := range e.current {
		e.strip.SetHSVEnv(i, e.hue[i], e.sat[i], e.current[i])
	}
}

// checkExit advances the arm/exit state machine one observation.
// Returns true when an armed press requests exit; it then blocks until
// the button is released so the next mode does not see a stuck press.
func (e *Engine) checkExit(ctx context.Context) bool {
	if !e.armed {
		if !e.btn.Pressed() {
			e.armed = true
		}
		return false
	}
	if !e.btn.Pressed() {
		return false
	}
	e.log.Info().Msg("starfield: exit requested")
	e.waitRelease(ctx)
	return true
}

func (e *Engine) waitRelease(ctx context.Context) {
	for e.btn.Pressed() && ctx.Err() == nil {
		e.clk.Sleep(10 * time.Millisecond)
	}
}

// comet holds one live traversal. At most one exists at a time.
type comet struct {
	head       int
	end        int
	step       int
	trail      int
	delay      time.Duration
	headBright float64
}

func (e *Engine) launchComet() comet {
	n := e.strip.Len()

	trail := e.cfg.CometMinTrail + e.rng.Intn(e.cfg.CometMaxTrail-e.cfg.CometMinTrail+1)
	if trail > n {
		trail = n
	}

	delaySpan := e.cfg.CometMaxDelay - e.cfg.CometMinDelay
	c := comet{
		trail:      trail,
		delay:      e.cfg.CometMinDelay + time.Duration(e.rng.Int63n(int64(delaySpan)+1)),
		headBright: e.cfg.CometHeadMin + e.rng.Float64()*(e.cfg.CometHeadMax-e.cfg.CometHeadMin),
	}
	if e.rng.Intn(2) == 0 {
		c.head, c.end, c.step = -trail, n+trail, 1
	} else {
		c.head, c.end, c.step = n+trail, -trail, -1
	}
	return c
}

// runComet animates one traversal. The exit gesture is re-evaluated at
// every comet frame so a long traversal cannot delay an exit. Returns
// true if an exit was requested mid-flight.
func (e *Engine) runComet(ctx context.Context, c comet) bool {
	for c.head != c.end {
		if ctx.Err() != nil {
			return false
		}
		if e.checkExit(ctx) {
			e.log.Info().Msg("starfield: exit during comet")
			return true
		}

		e.drawBackground()
		e.overlayComet(c)

		e.clk.Sleep(c.delay)
		c.head += c.step
	}
	return false
}

// overlayComet draws the head-to-tail profile on top of the star
// background and burns afterglow into the underlying stars. The boost
// respects the same MaxBright clamp as star easing.
func (e *Engine) overlayComet(c comet) {
	n := e.strip.Len()
	for k := 0; k < c.trail; k++ {
		pos := c.head - k*c.step
		if pos < 0 || pos >= n {
			continue
		}
		// frac runs 1 at the head down to just above 0 at the tail end;
		// squared falloff keeps the head bright and the tail smooth.
		frac := float64(c.trail-k) / float64(c.trail)
		b := c.headBright * frac * frac

		e.strip.SetHSVEnv(pos, e.cfg.CometHue, e.cfg.CometSat*frac, b)

		boosted := e.current[pos] + b*e.cfg.Afterglow
		if boosted > e.cfg.MaxBright {
			boosted = e.cfg.MaxBright
		}
		e.current[pos] = boosted
	}
}

// Run animates the starfield until the exit gesture fires or ctx is
// canceled. On a gesture exit it returns nil and control falls through
// to the effect show.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info().Msg("starfield: running (exits on mode button after first release)")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.blink != nil {
			e.blink.ServicePending()
		}

		e.updateStars()

		if e.checkExit(ctx) {
			e.log.Info().Msg("starfield: exiting to effect show")
			return nil
		}

		// Occasionally launch a comet; the launch rate is jittered so
		// comets do not fall into a rhythm.
		chance := e.cfg.CometChance * (0.5 + e.rng.Float64())
		if e.rng.Float64() < chance {
			if e.runComet(ctx, e.launchComet()) {
				return nil
			}
		}

		e.clk.Sleep(e.cfg.FrameDelay)
	}
}
