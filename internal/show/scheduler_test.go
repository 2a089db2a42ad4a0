package show

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-starstrip/internal/clock"
	"github.com/coreman2200/funtimes-starstrip/internal/effect"
	"github.com/coreman2200/funtimes-starstrip/internal/strip"
)

type nopDriver struct{}

func (nopDriver) Write([]byte) error { return nil }
func (nopDriver) Close() error       { return nil }

func testScheduler(t *testing.T, cat effect.Catalog) (*Scheduler, *effect.Context, *clock.Fake) {
	t.Helper()
	require.NoError(t, cat.Validate())

	clk := clock.NewFake(time.Unix(0, 0))
	h := strip.New(8, strip.Bottom, nopDriver{}, 1.0)
	rc := effect.NewContext(h, clk, rand.New(rand.NewSource(42)))
	s := New(cat, rc, rand.New(rand.NewSource(42)), 6*time.Second, 40*time.Second, zerolog.Nop())
	return s, rc, clk
}

func dummy(id int) effect.Descriptor {
	return effect.Descriptor{
		ID:   id,
		Name: "dummy",
		Run:  func(rc *effect.Context, buf []strip.HSV) []strip.HSV { return buf },
	}
}

func TestSelectNextNeverRepeats(t *testing.T) {
	s, _, _ := testScheduler(t, effect.Catalog{dummy(1), dummy(2), dummy(3), dummy(4)})

	prev := 0
	for i := 0; i < 1000; i++ {
		id := s.SelectNext()
		assert.GreaterOrEqual(t, id, 1)
		assert.LessOrEqual(t, id, 4)
		if prev != 0 {
			assert.NotEqual(t, prev, id, "adjacent cycles must differ")
		}
		prev = id
	}
}

func TestSelectNextSingleEntry(t *testing.T) {
	s, _, _ := testScheduler(t, effect.Catalog{dummy(1)})
	for i := 0; i < 5; i++ {
		assert.Equal(t, 1, s.SelectNext())
	}
}

func TestRunSelectedSetsDeadlineInRange(t *testing.T) {
	var got time.Time
	var ok bool
	cat := effect.Catalog{{
		ID:   1,
		Name: "probe",
		Run: func(rc *effect.Context, buf []strip.HSV) []strip.HSV {
			got, ok = rc.Deadline()
			return buf
		},
	}}
	s, _, clk := testScheduler(t, cat)

	for i := 0; i < 50; i++ {
		s.RunSelected(1)
		require.True(t, ok, "timed effect must see a deadline")
		budget := got.Sub(clk.Now())
		assert.GreaterOrEqual(t, budget, 6*time.Second)
		assert.Less(t, budget, 40*time.Second)
	}
}

func TestRunSelectedFullRunClearsDeadline(t *testing.T) {
	sawDeadline := true
	cat := effect.Catalog{
		{
			ID:   1,
			Name: "timed",
			Run:  func(rc *effect.Context, buf []strip.HSV) []strip.HSV { return buf },
		},
		{
			ID:      2,
			Name:    "full",
			FullRun: true,
			Run: func(rc *effect.Context, buf []strip.HSV) []strip.HSV {
				_, sawDeadline = rc.Deadline()
				return buf
			},
		},
	}
	s, _, _ := testScheduler(t, cat)

	s.RunSelected(1) // leaves a published deadline behind
	s.RunSelected(2)
	assert.False(t, sawDeadline, "full-run effect must not inherit a stale deadline")
}

func TestRunSelectedRecoversFromPanic(t *testing.T) {
	ran := false
	cat := effect.Catalog{
		{
			ID:   1,
			Name: "boom",
			Run: func(rc *effect.Context, buf []strip.HSV) []strip.HSV {
				panic("effect bug")
			},
		},
		{
			ID:   2,
			Name: "after",
			Run: func(rc *effect.Context, buf []strip.HSV) []strip.HSV {
				ran = true
				return buf
			},
		},
	}
	s, _, _ := testScheduler(t, cat)

	assert.NotPanics(t, func() { s.RunSelected(1) })
	s.RunSelected(2)
	assert.True(t, ran, "show advances past a panicking effect")
}

func TestRunSelectedUnknownID(t *testing.T) {
	s, _, _ := testScheduler(t, effect.Catalog{dummy(1)})
	assert.NotPanics(t, func() { s.RunSelected(99) })
}
