// Package metrics computes per-run observables from the sampled
// trajectory steps.
package metrics

import (
	"math"

	"github.com/jv-marek/radsim/internal/relativity"
	"github.com/jv-marek/radsim/internal/trace"
)

// Metric observes trajectory steps and reduces them to one number.
type Metric interface {
	Name() string
	Observe(step trace.Step)
	Value() float64
	Reset()
}

// RadiatedEnergy integrates the relativistic Larmor power
//
//	P = e^2 gamma^6 / (6 pi eps0 c) * (betadot^2 - (beta x betadot)^2)
//
// over the trace, giving the total energy [J] the particle radiates.
type RadiatedEnergy struct {
	total float64
}

func NewRadiatedEnergy() *RadiatedEnergy { return &RadiatedEnergy{} }

func (r *RadiatedEnergy) Name() string { return "radiated_energy" }

func (r *RadiatedEnergy) Observe(step trace.Step) {
	g2 := step.Gamma * step.Gamma
	g6 := g2 * g2 * g2
	bd2 := step.BetaDot.Norm2()
	cross2 := step.Beta.Cross(step.BetaDot).Norm2()

	p := relativity.Charge * relativity.Charge * g6 /
		(6 * math.Pi * relativity.Epsilon0 * relativity.C) * (bd2 - cross2)
	r.total += p * step.Dt
}

func (r *RadiatedEnergy) Value() float64 { return r.total }
func (r *RadiatedEnergy) Reset()         { r.total = 0 }

// MaxGamma tracks the largest Lorentz factor seen on the trace.
type MaxGamma struct {
	max float64
}

func NewMaxGamma() *MaxGamma { return &MaxGamma{} }

func (m *MaxGamma) Name() string { return "max_gamma" }

func (m *MaxGamma) Observe(step trace.Step) {
	if step.Gamma > m.max {
		m.max = step.Gamma
	}
}

func (m *MaxGamma) Value() float64 { return m.max }
func (m *MaxGamma) Reset()         { m.max = 0 }

// PathLength accumulates the distance [m] traveled along the trace.
type PathLength struct {
	total float64
}

func NewPathLength() *PathLength { return &PathLength{} }

func (p *PathLength) Name() string { return "path_length" }

func (p *PathLength) Observe(step trace.Step) {
	p.total += step.Beta.Norm() * relativity.C * step.Dt
}

func (p *PathLength) Value() float64 { return p.total }
func (p *PathLength) Reset()         { p.total = 0 }

// Collect runs every metric over a full sample set and returns the
// named results.
func Collect(samples []trace.Sample, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	sampler := trace.NewSampler()
	sampler.Run(samples, func(step trace.Step) {
		for _, m := range ms {
			m.Observe(step)
		}
	})

	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
