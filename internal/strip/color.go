package strip

// HSV is the canonical pixel color: hue in [0,1), saturation and value
// in [0,1].
type HSV struct {
	H, S, V float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// HSVToRGB converts an HSV triple (all components 0..1) to 8-bit RGB.
func HSVToRGB(h, s, v float64) (uint8, uint8, uint8) {
	s = clamp01(s)
	v = clamp01(v)
	if s == 0 {
		c := uint8(v * 255)
		return c, c, c
	}

	h -= float64(int(h)) // wrap hue into [0,1)
	if h < 0 {
		h += 1
	}

	i := int(h * 6.0)
	f := h*6.0 - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - s*f)
	t := v * (1.0 - s*(1.0-f))

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return uint8(r * 255), uint8(g * 255), uint8(b * 255)
}
