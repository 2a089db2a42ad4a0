package brightness

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-starstrip/internal/clock"
	"github.com/coreman2200/funtimes-starstrip/internal/led"
	"github.com/coreman2200/funtimes-starstrip/internal/strip"
)

type nopDriver struct{}

func (nopDriver) Write([]byte) error { return nil }
func (nopDriver) Close() error       { return nil }

// recordLamp records every Set call.
type recordLamp struct {
	calls [][3]bool
}

func (l *recordLamp) Set(r, g, b bool) error {
	l.calls = append(l.calls, [3]bool{r, g, b})
	return nil
}

func testController(t *testing.T, start float64) (*Controller, *strip.Handle, *recordLamp) {
	t.Helper()
	h := strip.New(4, strip.Bottom, nopDriver{}, start)
	lamp := &recordLamp{}
	c := New(h, 0.1, lamp, clock.NewFake(time.Unix(0, 0)), zerolog.Nop())
	return c, h, lamp
}

func approx(t *testing.T, want, got float64) {
	t.Helper()
	assert.InDelta(t, want, got, 1e-9)
}

func TestTriggerStepsUp(t *testing.T) {
	c, h, _ := testController(t, 0.5)
	c.HandleTrigger()
	approx(t, 0.6, h.Brightness())
	assert.Equal(t, 1.0, c.Direction())
}

func TestTriggerReversesAtTop(t *testing.T) {
	c, h, _ := testController(t, 0.95)

	c.HandleTrigger() // 0.95 + 0.1 clamps to 1.0
	approx(t, 1.0, h.Brightness())
	assert.True(t, c.BlinkPending(), "hitting the ceiling queues a blink")

	c.HandleTrigger() // at the ceiling the direction flips first
	approx(t, 0.9, h.Brightness())
	assert.Equal(t, -1.0, c.Direction())
}

func TestTriggerReversesAtBottom(t *testing.T) {
	c, h, _ := testController(t, 0.5)
	c.mu.Lock()
	c.dir = -1
	c.mu.Unlock()

	// Walk down to the floor, then back up.
	for i := 0; i < 4; i++ {
		c.HandleTrigger()
	}
	approx(t, 0.1, h.Brightness())
	assert.True(t, c.BlinkPending())

	c.HandleTrigger()
	approx(t, 0.2, h.Brightness())
	assert.Equal(t, 1.0, c.Direction())
}

func TestTriggerNeverLeavesBounds(t *testing.T) {
	c, h, _ := testController(t, 0.8)
	for i := 0; i < 100; i++ {
		c.HandleTrigger()
		b := h.Brightness()
		assert.GreaterOrEqual(t, b, 0.0)
		assert.LessOrEqual(t, b, 1.0)
	}
}

func TestMidRangeTriggerDoesNotQueueBlink(t *testing.T) {
	c, _, _ := testController(t, 0.5)
	c.HandleTrigger()
	assert.False(t, c.BlinkPending())
}

func TestServicePendingBlinksOnce(t *testing.T) {
	c, _, lamp := testController(t, 0.95)
	c.HandleTrigger()
	require.True(t, c.BlinkPending())

	c.ServicePending()
	assert.False(t, c.BlinkPending(), "blink flag is consumed")

	// Three red/green alternations plus the trailing off.
	require.Len(t, lamp.calls, 7)
	assert.Equal(t, [3]bool{true, false, false}, lamp.calls[0])
	assert.Equal(t, [3]bool{false, true, false}, lamp.calls[1])
	assert.Equal(t, [3]bool{false, false, false}, lamp.calls[6])

	c.ServicePending()
	assert.Len(t, lamp.calls, 7, "no pending blink means no lamp traffic")
}

func TestServicePendingWorksWithNopLamp(t *testing.T) {
	h := strip.New(4, strip.Bottom, nopDriver{}, 0.95)
	c := New(h, 0.1, led.NopLamp{}, clock.NewFake(time.Unix(0, 0)), zerolog.Nop())
	c.HandleTrigger()
	assert.NotPanics(t, c.ServicePending)
}

// chanEdges delivers a fixed number of edges, then reports done.
type chanEdges struct {
	n int
}

func (s *chanEdges) WaitEdge(ctx context.Context) bool {
	if s.n == 0 {
		return false
	}
	s.n--
	return true
}

func TestWatchAppliesOneStepPerEdge(t *testing.T) {
	c, h, _ := testController(t, 0.5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Watch returns ctx.Err() once edges run dry

	_ = c.Watch(ctx, &chanEdges{n: 3})
	approx(t, 0.8, h.Brightness())
}

func TestBrightnessFloatBitsRoundTrip(t *testing.T) {
	h := strip.New(1, strip.Bottom, nopDriver{}, 0.0)
	for _, v := range []float64{0, 0.1, 0.5, 1.0 / 3.0, 1} {
		h.SetBrightness(v)
		assert.Equal(t, math.Float64bits(v), math.Float64bits(h.Brightness()))
	}
}
