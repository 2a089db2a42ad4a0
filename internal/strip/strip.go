package strip

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coreman2200/funtimes-starstrip/internal/led"
)

// Handle owns the strip framebuffer and the global brightness scalar.
// Pixel writes scale by the brightness in effect at write time; changing
// the brightness never touches already-written pixels.
//
// The brightness scalar is the only state shared with the interrupt
// path. It is stored atomically and the interrupt handler performs its
// read-modify-write inside its own critical section, so a render-loop
// read never observes a torn value.
type Handle struct {
	n      int
	mapper Mapper
	drv    led.Driver

	mu sync.Mutex
	fb []byte // 3*n, RGB wire order handled by the driver

	bright atomic.Uint64 // math.Float64bits
}

// New allocates a Handle for n pixels writing to drv.
func New(n int, orient Orientation, drv led.Driver, brightness float64) *Handle {
	h := &Handle{
		n:      n,
		mapper: Mapper{N: n, Orientation: orient},
		drv:    drv,
		fb:     make([]byte, 3*n),
	}
	h.SetBrightness(brightness)
	return h
}

// Len returns the pixel count.
func (h *Handle) Len() int { return h.n }

// Brightness returns the current global brightness in [0,1].
func (h *Handle) Brightness() float64 {
	return math.Float64frombits(h.bright.Load())
}

// SetBrightness clamps b to [0,1] and stores it. Subsequent pixel
// writes reflect the new value immediately.
func (h *Handle) SetBrightness(b float64) {
	h.bright.Store(math.Float64bits(clamp01(b)))
}

// EnvToPhys exposes the orientation mapping of this strip.
func (h *Handle) EnvToPhys(env int) int { return h.mapper.EnvToPhys(env) }

// SetPixelHSV writes one pixel by physical index. The value channel is
// scaled by the global brightness before conversion. Out-of-range
// indices are ignored.
func (h *Handle) SetPixelHSV(idx int, hue, sat, val float64) {
	if idx < 0 || idx >= h.n {
		return
	}
	r, g, b := HSVToRGB(hue, sat, clamp01(val)*h.Brightness())
	h.mu.Lock()
	h.fb[idx*3+0] = r
	h.fb[idx*3+1] = g
	h.fb[idx*3+2] = b
	h.mu.Unlock()
}

// SetPixelRGB writes one pixel by physical index, scaling each channel
// by the global brightness.
func (h *Handle) SetPixelRGB(idx int, r, g, b uint8) {
	if idx < 0 || idx >= h.n {
		return
	}
	br := h.Brightness()
	h.mu.Lock()
	h.fb[idx*3+0] = uint8(float64(r) * br)
	h.fb[idx*3+1] = uint8(float64(g) * br)
	h.fb[idx*3+2] = uint8(float64(b) * br)
	h.mu.Unlock()
}

// SetHSVEnv writes a pixel addressed in environment coordinates
// (0 = logical bottom).
func (h *Handle) SetHSVEnv(env int, hue, sat, val float64) {
	h.SetPixelHSV(h.mapper.EnvToPhys(env), hue, sat, val)
}

// SetRGBEnv is the RGB variant of SetHSVEnv.
func (h *Handle) SetRGBEnv(env int, r, g, b uint8) {
	h.SetPixelRGB(h.mapper.EnvToPhys(env), r, g, b)
}

// Snapshot copies the current RGB framebuffer. Mostly for tests and
// the sim driver path.
func (h *Handle) Snapshot() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]byte, len(h.fb))
	copy(out, h.fb)
	return out
}

// Flush pushes the current frame to the driver.
func (h *Handle) Flush() error {
	h.mu.Lock()
	frame := make([]byte, len(h.fb))
	copy(frame, h.fb)
	h.mu.Unlock()
	return h.drv.Write(frame)
}

// Run flushes frames to the driver at the given rate until ctx is
// canceled. Write errors end the loop; the strip is cleared on the way
// out so the fixture does not freeze on the last frame.
func (h *Handle) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.Clear()
			_ = h.Flush()
			return ctx.Err()
		case <-ticker.C:
			if err := h.Flush(); err != nil {
				return err
			}
		}
	}
}

// Clear blanks the framebuffer.
func (h *Handle) Clear() {
	h.mu.Lock()
	for i := range h.fb {
		h.fb[i] = 0
	}
	h.mu.Unlock()
}
