package fx

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-starstrip/internal/clock"
	"github.com/coreman2200/funtimes-starstrip/internal/effect"
	"github.com/coreman2200/funtimes-starstrip/internal/strip"
)

type nopDriver struct{}

func (nopDriver) Write([]byte) error { return nil }
func (nopDriver) Close() error       { return nil }

func testContext(t *testing.T, n int) (*effect.Context, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Unix(0, 0))
	h := strip.New(n, strip.Bottom, nopDriver{}, 1.0)
	return effect.NewContext(h, clk, rand.New(rand.NewSource(99))), clk
}

func TestCatalogIsValid(t *testing.T) {
	cat := Catalog()
	require.NoError(t, cat.Validate())
	assert.Len(t, cat, 5)

	full := 0
	for _, d := range cat {
		if d.FullRun {
			full++
		}
	}
	assert.Equal(t, 2, full, "dispersing wipe and bouncing ball run to completion")
}

func TestTimedEffectsStopAtDeadline(t *testing.T) {
	cat := Catalog()
	for _, d := range cat {
		if d.FullRun {
			continue
		}
		t.Run(d.Name, func(t *testing.T) {
			rc, clk := testContext(t, 16)
			rc.SetDeadline(clk.Now().Add(2 * time.Second))

			done := make(chan struct{})
			go func() {
				buf := make([]strip.HSV, 16)
				d.Run(rc, buf)
				close(done)
			}()

			// Sleeps on the fake clock advance time instantly, so the
			// effect burns through its budget and must return.
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("effect did not honor its deadline")
			}
		})
	}
}

func TestFullRunEffectsTerminate(t *testing.T) {
	for _, d := range Catalog() {
		if !d.FullRun {
			continue
		}
		t.Run(d.Name, func(t *testing.T) {
			rc, _ := testContext(t, 16)
			rc.ClearDeadline()

			done := make(chan struct{})
			go func() {
				buf := make([]strip.HSV, 16)
				d.Run(rc, buf)
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("full-run effect did not complete naturally")
			}
		})
	}
}

func TestFullRunEffectsEndDark(t *testing.T) {
	for _, d := range Catalog() {
		if !d.FullRun {
			continue
		}
		t.Run(d.Name, func(t *testing.T) {
			rc, _ := testContext(t, 16)
			rc.ClearDeadline()

			buf := d.Run(rc, make([]strip.HSV, 16))
			for i, px := range buf {
				assert.Zero(t, px.V, "pixel %d still lit at completion", i)
			}
		})
	}
}
