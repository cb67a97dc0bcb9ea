// Package relativity converts sampled particle momentum into the
// kinematic quantities (Lorentz factor, velocity ratio) the radiation
// integral consumes.
package relativity

import (
	"math"

	"github.com/jv-marek/radsim/internal/geom"
	"github.com/jv-marek/radsim/internal/series"
)

// Gamma returns the Lorentz factor for a momentum sample [kg m/s]:
//
//	gamma = sqrt((|p| c)^2 + (m_e c^2)^2) / (m_e c^2)
//
// the energy-momentum relation E = sqrt((pc)^2 + (m0 c^2)^2) divided by
// the rest energy. Always >= 1 for finite momentum; exactly 1 for the
// zero vector.
func Gamma(p geom.Vec3) float64 {
	pc := p.Norm() * C
	return math.Sqrt(pc*pc+RestEnergy*RestEnergy) / RestEnergy
}

// Beta returns the velocity as a fraction of c for a momentum sample
// and its matching Lorentz factor:
//
//	beta = p / (c m_e gamma)
//
// |beta| < 1 holds for any (p, gamma) pair produced by Gamma.
func Beta(p geom.Vec3, gamma float64) geom.Vec3 {
	return p.Scale(1 / (C * ElectronMass * gamma))
}

// Converter derives gamma and beta windows from momentum windows, all
// bound to one shared time axis. It carries no state beyond the
// borrowed axis; every call is a pure function of its inputs.
type Converter struct {
	axis *series.Axis
}

// NewConverter returns a converter whose derived windows are bound to
// axis.
func NewConverter(axis *series.Axis) *Converter {
	return &Converter{axis: axis}
}

// MomentumToGamma computes the Lorentz factor independently at each of
// the four slots of p.
func (c *Converter) MomentumToGamma(p *series.Window[geom.Vec3]) series.Window[geom.Scalar] {
	return series.New(
		geom.Scalar(Gamma(p.Old2())),
		geom.Scalar(Gamma(p.Old())),
		geom.Scalar(Gamma(p.Now())),
		geom.Scalar(Gamma(p.Future())),
		c.axis,
	)
}

// MomentumToBeta combines each momentum slot with the same-index gamma
// slot. The two inputs must have been sampled in lockstep on the same
// axis; slot correspondence is a precondition, not checked.
func (c *Converter) MomentumToBeta(p *series.Window[geom.Vec3], gamma *series.Window[geom.Scalar]) series.Window[geom.Vec3] {
	return series.New(
		Beta(p.Old2(), float64(gamma.Old2())),
		Beta(p.Old(), float64(gamma.Old())),
		Beta(p.Now(), float64(gamma.Now())),
		Beta(p.Future(), float64(gamma.Future())),
		c.axis,
	)
}
