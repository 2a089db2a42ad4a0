package led

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"
)

// simDriver renders frames as a row of ANSI blocks on the console. It
// is the degrade path when no SPI port is available.
type simDriver struct {
	drawer display.Drawer
	count  int
}

// NewSim returns a console-backed Driver for count pixels.
func NewSim(count int) Driver {
	return &simDriver{drawer: screen.New(count), count: count}
}

func (s *simDriver) Write(rgb []byte) error {
	if len(rgb) != s.count*3 {
		return errors.Errorf("frame length %d does not match count %d", len(rgb), s.count)
	}
	im := image.NewNRGBA(image.Rect(0, 0, s.count, 1))
	for x := 0; x < s.count; x++ {
		im.SetNRGBA(x, 0, color.NRGBA{
			R: rgb[x*3+0],
			G: rgb[x*3+1],
			B: rgb[x*3+2],
			A: 255,
		})
	}
	return s.drawer.Draw(s.drawer.Bounds(), im, image.Point{})
}

func (s *simDriver) Close() error { return nil }
