// Package effect defines the contract between the show scheduler and
// the visual effect catalog. Effect bodies are opaque render functions;
// the scheduler only sees their descriptors.
package effect

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/coreman2200/funtimes-starstrip/internal/clock"
	"github.com/coreman2200/funtimes-starstrip/internal/strip"
)

// RunFunc renders one effect. It receives the shared run context and
// the persistent HSV working buffer, and returns the (possibly
// reallocated) buffer. Timed effects must poll ctx.Expired() and return
// promptly once the deadline passes; FullRun effects run to natural
// completion and never poll.
type RunFunc func(ctx *Context, buf []strip.HSV) []strip.HSV

// Descriptor is one catalog entry.
type Descriptor struct {
	ID      int
	Name    string
	FullRun bool
	Run     RunFunc
}

// Catalog is the ordered list of registered effects.
type Catalog []Descriptor

// Validate checks the catalog is non-empty with IDs numbered 1..K in
// order, so ByID stays a simple slice lookup.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return errors.New("effect catalog is empty")
	}
	for i, d := range c {
		if d.ID != i+1 {
			return errors.Errorf("effect %q has id %d, want %d", d.Name, d.ID, i+1)
		}
		if d.Run == nil {
			return errors.Errorf("effect %q has no run function", d.Name)
		}
	}
	return nil
}

// ByID returns the descriptor with the given 1-based id.
func (c Catalog) ByID(id int) (Descriptor, bool) {
	if id < 1 || id > len(c) {
		return Descriptor{}, false
	}
	return c[id-1], true
}

// Context is the state shared between the scheduler and a running
// effect. One instance is created at process start and reused for every
// invocation; the scheduler republishes the deadline each cycle.
type Context struct {
	Strip *strip.Handle
	Clock clock.Clock
	Rand  *rand.Rand

	deadlineNS atomic.Int64 // unix nanos; 0 = no deadline
}

// NewContext builds a run context around the given collaborators.
func NewContext(s *strip.Handle, c clock.Clock, r *rand.Rand) *Context {
	return &Context{Strip: s, Clock: c, Rand: r}
}

// SetDeadline publishes the advisory stop time polled by timed effects.
func (c *Context) SetDeadline(t time.Time) {
	c.deadlineNS.Store(t.UnixNano())
}

// ClearDeadline removes any published deadline; Expired then always
// reports false. Used for FullRun effects.
func (c *Context) ClearDeadline() {
	c.deadlineNS.Store(0)
}

// Deadline returns the published deadline, if any.
func (c *Context) Deadline() (time.Time, bool) {
	ns := c.deadlineNS.Load()
	if ns == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, ns), true
}

// Expired reports whether the published deadline has passed. This is
// advisory, not preemptive: an effect that stops polling will overrun.
func (c *Context) Expired() bool {
	ns := c.deadlineNS.Load()
	return ns != 0 && c.Clock.Now().UnixNano() >= ns
}
