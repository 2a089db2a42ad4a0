package strip

import (
	"strings"

	"github.com/pkg/errors"
)

// Orientation states which physical end of the strip corresponds to
// environment index 0 (the logical bottom of the fixture).
type Orientation int

const (
	// Bottom means the electrical start of the strip sits at the bottom
	// of the fixture: environment index equals physical index.
	Bottom Orientation = iota
	// Top means the electrical start sits at the top: environment
	// indices are flipped.
	Top
)

func (o Orientation) String() string {
	if o == Top {
		return "top"
	}
	return "bottom"
}

// ParseOrientation maps a configuration string to an Orientation.
// Anything other than "bottom" or "top" is a configuration error.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "bottom":
		return Bottom, nil
	case "top":
		return Top, nil
	default:
		return Bottom, errors.Errorf("unrecognized orientation %q (want \"bottom\" or \"top\")", s)
	}
}

// Mapper translates environment pixel indices to physical strip indices.
type Mapper struct {
	N           int
	Orientation Orientation
}

// EnvToPhys maps an environment index (0 = logical bottom) to the
// wire-order index. Identity for Bottom, flipped for Top.
func (m Mapper) EnvToPhys(env int) int {
	if m.Orientation == Top {
		return m.N - 1 - env
	}
	return env
}
