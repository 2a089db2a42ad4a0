package clock

import "time"

// Clock abstracts wall time and frame pacing so animation loops can be
// driven deterministically in tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type wall struct{}

func (wall) Now() time.Time        { return time.Now() }
func (wall) Sleep(d time.Duration) { time.Sleep(d) }

// Wall returns the real-time clock.
func Wall() Clock { return wall{} }
