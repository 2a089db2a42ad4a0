package show

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-starstrip/internal/effect"
	"github.com/coreman2200/funtimes-starstrip/internal/strip"
)

// Blinker is serviced at the top of every scheduling cycle so the
// brightness confirmation blink runs on the render thread, not in the
// interrupt path.
type Blinker interface {
	ServicePending()
}

// Scheduler drives the endless effect show: pick a different effect
// each cycle, give it a run budget, invoke it, log the timing.
type Scheduler struct {
	catalog effect.Catalog
	rc      *effect.Context
	rng     *rand.Rand
	log     zerolog.Logger

	minDur, maxDur time.Duration

	blink Blinker // optional

	last int // last selected id; 0 before the first cycle
	buf  []strip.HSV
}

// New builds a Scheduler. The catalog must already be validated.
func New(cat effect.Catalog, rc *effect.Context, rng *rand.Rand, minDur, maxDur time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		catalog: cat,
		rc:      rc,
		rng:     rng,
		log:     log,
		minDur:  minDur,
		maxDur:  maxDur,
		buf:     make([]strip.HSV, rc.Strip.Len()),
	}
}

// SetBlinker attaches the pending-blink service hook.
func (s *Scheduler) SetBlinker(b Blinker) { s.blink = b }

// SelectNext picks the next effect id. With a single registered effect
// it always returns that id; otherwise it rejection-samples uniformly
// until the draw differs from the previous selection.
func (s *Scheduler) SelectNext() int {
	if len(s.catalog) == 1 {
		s.last = s.catalog[0].ID
		return s.last
	}
	next := s.last
	for next == s.last {
		next = 1 + s.rng.Intn(len(s.catalog))
	}
	s.last = next
	return next
}

// RunSelected invokes the effect with the given id. FullRun effects get
// no deadline; all others get a freshly randomized one. A panic inside
// the effect body is logged and swallowed so the show loop advances to
// the next cycle instead of dying.
func (s *Scheduler) RunSelected(id int) {
	d, ok := s.catalog.ByID(id)
	if !ok {
		s.log.Error().Int("id", id).Msg("effect id not in catalog")
		return
	}

	if d.FullRun {
		s.rc.ClearDeadline()
	} else {
		budget := s.minDur
		if s.maxDur > s.minDur {
			budget += time.Duration(s.rng.Int63n(int64(s.maxDur - s.minDur)))
		}
		s.rc.SetDeadline(s.rc.Clock.Now().Add(budget))
	}

	start := s.rc.Clock.Now()
	s.log.Info().Int("id", d.ID).Str("name", d.Name).Bool("full_run", d.FullRun).Msg("effect starting")

	s.invoke(d)

	elapsed := s.rc.Clock.Now().Sub(start)
	s.log.Info().Int("id", d.ID).Str("name", d.Name).Int64("elapsed_ms", elapsed.Milliseconds()).Msg("effect finished")
}

func (s *Scheduler) invoke(d effect.Descriptor) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Int("id", d.ID).Str("name", d.Name).Interface("panic", r).Msg("effect panicked; advancing to next cycle")
		}
	}()
	s.buf = d.Run(s.rc, s.buf)
}

// Run is the infinite show loop. It only returns when ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.blink != nil {
			s.blink.ServicePending()
		}
		s.RunSelected(s.SelectNext())
	}
}
