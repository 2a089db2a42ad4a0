package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock. Sleep advances the fake time
// immediately, so loops paced through it run without wall-clock waits.
type Fake struct {
	mu  sync.Mutex
	now time.Time

	// OnSleep, when set, is invoked after each Sleep with the slept
	// duration. Tests use it to script button traces against time.
	OnSleep func(d time.Duration)
}

// NewFake returns a Fake positioned at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) Sleep(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
	if f.OnSleep != nil {
		f.OnSleep(d)
	}
}

// Advance moves the fake time forward without a Sleep event.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
