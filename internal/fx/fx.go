// Package fx holds the built-in effect catalog. Each effect is a plain
// render function satisfying the effect contract; the scheduler treats
// them as opaque. Timed effects poll the shared deadline at their outer
// frame boundary; the full-run entries (the dispersing wipe and the
// bouncing ball) run to natural completion and never poll.
package fx

import (
	"math"
	"time"

	"github.com/coreman2200/funtimes-starstrip/internal/effect"
	"github.com/coreman2200/funtimes-starstrip/internal/strip"
)

// Catalog returns the default effect lineup.
func Catalog() effect.Catalog {
	return effect.Catalog{
		{ID: 1, Name: "color-cycling-pulse", Run: colorCyclingPulse},
		{ID: 2, Name: "dispersing-wipe", FullRun: true, Run: dispersingWipe},
		{ID: 3, Name: "meteor-shower", Run: meteorShower},
		{ID: 4, Name: "starry-twinkle", Run: starryTwinkle},
		{ID: 5, Name: "bouncing-ball", FullRun: true, Run: bouncingBall},
	}
}

// colorCyclingPulse sweeps hue along the strip while the whole strip
// breathes on a sine envelope.
func colorCyclingPulse(rc *effect.Context, buf []strip.HSV) []strip.HSV {
	n := rc.Strip.Len()
	for t := 0; !rc.Expired(); t++ {
		bright := (1 + math.Sin(float64(t)*2*math.Pi/100)) / 2
		for i := 0; i < n; i++ {
			hue := float64((i+t)%360) / 360.0
			buf[i] = strip.HSV{H: hue, S: 1, V: bright}
			rc.Strip.SetHSVEnv(i, hue, 1, bright)
		}
		rc.Clock.Sleep(10 * time.Millisecond)
	}
	return buf
}

// dispersingWipe fills the strip from the logical bottom in a single
// color, holds, then clears the pixels back out in random order.
// Full-run: the wipe always completes both phases.
func dispersingWipe(rc *effect.Context, buf []strip.HSV) []strip.HSV {
	const (
		wipeDelay     = 30 * time.Millisecond
		disperseDelay = 20 * time.Millisecond
		holdDelay     = 500 * time.Millisecond
	)
	n := rc.Strip.Len()
	hue := rc.Rand.Float64()

	for i := 0; i < n; i++ {
		buf[i] = strip.HSV{H: hue, S: 1, V: 1}
		rc.Strip.SetHSVEnv(i, hue, 1, 1)
		rc.Clock.Sleep(wipeDelay)
	}
	rc.Clock.Sleep(holdDelay)

	for _, i := range rc.Rand.Perm(n) {
		buf[i] = strip.HSV{}
		rc.Strip.SetHSVEnv(i, 0, 0, 0)
		rc.Clock.Sleep(disperseDelay)
	}
	return buf
}

type meteor struct {
	position float64
	velocity float64
	hue      float64
}

// meteorShower runs a few wrapped meteors over a decaying background.
func meteorShower(rc *effect.Context, buf []strip.HSV) []strip.HSV {
	const (
		meteorLength = 8
		meteorCount  = 3
		fadeRate     = 0.75
	)
	n := rc.Strip.Len()

	meteors := make([]meteor, meteorCount)
	for i := range meteors {
		meteors[i] = meteor{
			position: float64(rc.Rand.Intn(n)),
			velocity: 0.1 + rc.Rand.Float64()*0.4,
			hue:      rc.Rand.Float64(),
		}
	}

	for !rc.Expired() {
		for i := 0; i < n; i++ {
			buf[i].V *= fadeRate
			rc.Strip.SetHSVEnv(i, buf[i].H, buf[i].S, buf[i].V)
		}

		for m := range meteors {
			meteors[m].position += meteors[m].velocity
			if meteors[m].position >= float64(n+meteorLength) {
				meteors[m].position = -meteorLength
				meteors[m].hue = rc.Rand.Float64()
			}

			for j := 0; j < meteorLength; j++ {
				pos := int(meteors[m].position) - j
				if pos < 0 || pos >= n {
					continue
				}
				b := 1.0 - float64(j)/meteorLength
				buf[pos] = strip.HSV{H: meteors[m].hue, S: 1, V: b}
				rc.Strip.SetHSVEnv(pos, meteors[m].hue, 1, b)
			}
		}

		rc.Clock.Sleep(50 * time.Millisecond)
	}
	return buf
}

// starryTwinkle fades everything down while randomly igniting pixels.
func starryTwinkle(rc *effect.Context, buf []strip.HSV) []strip.HSV {
	const (
		fadeRate       = 0.9
		twinkleChance  = 0.05
		minTwinkleVal  = 0.5
		twinkleValSpan = 0.5
	)
	n := rc.Strip.Len()

	for !rc.Expired() {
		for i := 0; i < n; i++ {
			buf[i].V *= fadeRate
			rc.Strip.SetHSVEnv(i, buf[i].H, buf[i].S, buf[i].V)

			if rc.Rand.Float64() < twinkleChance {
				buf[i] = strip.HSV{
					H: rc.Rand.Float64(),
					S: 1,
					V: minTwinkleVal + rc.Rand.Float64()*twinkleValSpan,
				}
				rc.Strip.SetHSVEnv(i, buf[i].H, buf[i].S, buf[i].V)
			}
		}
		rc.Clock.Sleep(50 * time.Millisecond)
	}
	return buf
}

// bouncingBall drops a ball from the logical top, bouncing with damping
// at the bottom until its energy is spent, then parks and fades out.
// Full-run: it ignores the scheduler deadline by contract.
func bouncingBall(rc *effect.Context, buf []strip.HSV) []strip.HSV {
	const (
		gravityMag    = 0.03
		bounceDamping = 0.70
		restThreshold = 0.01
		frameDelay    = 20 * time.Millisecond
	)
	n := rc.Strip.Len()

	startEnv := n - 1
	floorEnv := 0

	// Motion runs from startEnv toward floorEnv in env space; the env
	// mapping handles either physical orientation.
	gravity := -gravityMag
	position := float64(startEnv)
	velocity := 0.0
	hue := float64(rc.Rand.Intn(360)) / 360.0

	for {
		for i := 0; i < n; i++ {
			buf[i] = strip.HSV{}
			rc.Strip.SetHSVEnv(i, 0, 0, 0)
		}

		velocity += gravity
		position += velocity

		if position <= float64(floorEnv) {
			position = float64(floorEnv)
			velocity = -velocity * bounceDamping

			if math.Abs(velocity) < restThreshold {
				// Energy spent: park at the floor, then fade out.
				buf[floorEnv] = strip.HSV{H: hue, S: 1, V: 1}
				rc.Strip.SetHSVEnv(floorEnv, hue, 1, 1)
				rc.Clock.Sleep(time.Second)

				for step := 100; step >= 0; step-- {
					v := float64(step) / 100.0
					buf[floorEnv] = strip.HSV{H: hue, S: 1, V: v}
					rc.Strip.SetHSVEnv(floorEnv, hue, 1, v)
					rc.Clock.Sleep(10 * time.Millisecond)
				}
				break
			}
		}

		// Draw between the two nearest pixels for smooth motion.
		posFloor := int(position)
		posCeil := posFloor + 1
		if posCeil > n-1 {
			posCeil = n - 1
		}
		frac := position - float64(posFloor)

		if posFloor >= 0 && posFloor < n {
			buf[posFloor] = strip.HSV{H: hue, S: 1, V: 1 - frac}
			rc.Strip.SetHSVEnv(posFloor, hue, 1, 1-frac)
		}
		if posCeil >= 0 && posCeil < n {
			buf[posCeil] = strip.HSV{H: hue, S: 1, V: frac}
			rc.Strip.SetHSVEnv(posCeil, hue, 1, frac)
		}

		rc.Clock.Sleep(frameDelay)
	}

	buf[floorEnv] = strip.HSV{}
	rc.Strip.SetHSVEnv(floorEnv, 0, 0, 0)
	return buf
}
