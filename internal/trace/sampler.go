package trace

import (
	"github.com/jv-marek/radsim/internal/geom"
	"github.com/jv-marek/radsim/internal/relativity"
	"github.com/jv-marek/radsim/internal/series"
)

// Step is the kinematic state of the particle at one emitted timestep:
// the synchronized (value, derivative) pair taken at the window's "now"
// slot, which is what the radiation integral consumes.
type Step struct {
	Index   int     // sample index the step refers to
	Time    float64 // absolute time [s]
	Dt      float64 // local timestep t.now - t.old [s]
	Pos     geom.Vec3
	Gamma   float64
	Beta    geom.Vec3
	BetaDot geom.Vec3 // d(beta)/dt [1/s], centered stencil
}

// Sampler owns the run's time axis and advances the position and
// momentum windows in lockstep with it, deriving gamma and beta each
// step. It is the single writer of the axis; windows derived from it
// only read.
type Sampler struct {
	axis *series.Axis
	conv *relativity.Converter
	pos  series.Window[geom.Vec3]
	mom  series.Window[geom.Vec3]
	fed  int
}

// NewSampler returns a sampler with an empty axis. The first three
// samples only fill the windows; steps are emitted from the fourth
// sample on.
func NewSampler() *Sampler {
	axis := series.NewEmptyAxis()
	return &Sampler{
		axis: axis,
		conv: relativity.NewConverter(axis),
		pos:  series.NewEmpty[geom.Vec3](axis),
		mom:  series.NewEmpty[geom.Vec3](axis),
	}
}

// Axis exposes the shared time axis for windows that must be bound to
// this sampler's run.
func (s *Sampler) Axis() *series.Axis { return s.axis }

// Feed advances the axis and both quantity windows with one sample.
// Once four samples have been fed, it returns the kinematic step at
// the window's "now" slot and ok=true.
func (s *Sampler) Feed(smp Sample) (Step, bool) {
	s.axis.Advance(smp.T)
	s.pos.Advance(smp.R)
	s.mom.Advance(smp.P)
	s.fed++

	if s.fed < 4 {
		return Step{}, false
	}

	gamma := s.conv.MomentumToGamma(&s.mom)
	beta := s.conv.MomentumToBeta(&s.mom, &gamma)

	return Step{
		Index:   s.fed - 2,
		Time:    s.axis.Now(),
		Dt:      s.axis.Now() - s.axis.Old(),
		Pos:     s.pos.Now(),
		Gamma:   float64(gamma.Now()),
		Beta:    beta.Now(),
		BetaDot: beta.DerivAtNow(),
	}, true
}

// Run feeds every sample in order, invoking fn for each emitted step.
func (s *Sampler) Run(samples []Sample, fn func(Step)) {
	for _, smp := range samples {
		if step, ok := s.Feed(smp); ok {
			fn(step)
		}
	}
}
