package show

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-starstrip/internal/clock"
)

// Mode is the startup mode decided during the boot window.
type Mode int

const (
	// ModeShow runs the rotating effect show (the default).
	ModeShow Mode = iota
	// ModeAmbient runs the starfield generator until its exit gesture.
	ModeAmbient
)

func (m Mode) String() string {
	if m == ModeAmbient {
		return "ambient"
	}
	return "show"
}

// Input is the read-only button surface the arbitrator samples.
type Input interface {
	Pressed() bool
}

// Arbitrator samples the mode button for a bounded window at startup.
type Arbitrator struct {
	Clock  clock.Clock
	Window time.Duration
	Poll   time.Duration
	Log    zerolog.Logger
}

// ChooseMode polls btn at the configured interval. It returns
// ModeAmbient the instant the button reads pressed inside the window,
// or ModeShow once the window elapses. Deterministic for a given
// button trace and clock.
func (a Arbitrator) ChooseMode(btn Input) Mode {
	poll := a.Poll
	if poll <= 0 {
		poll = 10 * time.Millisecond
	}

	a.Log.Info().Dur("window", a.Window).Msg("boot: hold mode button for ambient, release for show")

	start := a.Clock.Now()
	for a.Clock.Now().Sub(start) < a.Window {
		if btn.Pressed() {
			a.Log.Info().Str("mode", ModeAmbient.String()).Msg("boot: mode button detected")
			return ModeAmbient
		}
		a.Clock.Sleep(poll)
	}

	a.Log.Info().Str("mode", ModeShow.String()).Msg("boot: window elapsed")
	return ModeShow
}
