package motion

import (
	"math"

	"github.com/jv-marek/radsim/internal/geom"
	"github.com/jv-marek/radsim/internal/relativity"
	"github.com/jv-marek/radsim/internal/trace"
)

// state is the phase-space point of one particle.
type state struct {
	r geom.Vec3 // position [m]
	p geom.Vec3 // momentum [kg m/s]
}

func (s state) add(o state) state {
	return state{r: s.r.Add(o.r), p: s.p.Add(o.p)}
}

func (s state) scale(f float64) state {
	return state{r: s.r.Scale(f), p: s.p.Scale(f)}
}

// Pusher integrates the relativistic equations of motion
//
//	dr/dt = p / (gamma m)
//	dp/dt = q (E + v x B)
//
// with classic fourth-order Runge-Kutta.
type Pusher struct {
	Charge float64 // [C], signed
	Mass   float64 // [kg]
}

// NewElectronPusher returns a pusher for a single electron.
func NewElectronPusher() *Pusher {
	return &Pusher{Charge: -relativity.Charge, Mass: relativity.ElectronMass}
}

// gamma is the Lorentz factor for this particle species, computed
// from the pusher's own mass rather than the electron default.
func (pu *Pusher) gamma(p geom.Vec3) float64 {
	mc := pu.Mass * relativity.C
	return math.Sqrt(1 + p.Norm2()/(mc*mc))
}

func (pu *Pusher) deriv(f Field, s state, t float64) state {
	v := s.p.Scale(1 / (pu.gamma(s.p) * pu.Mass))
	force := f.E(s.r, t).Add(v.Cross(f.B(s.r, t))).Scale(pu.Charge)
	return state{r: v, p: force}
}

func (pu *Pusher) step(f Field, s state, t, dt float64) state {
	k1 := pu.deriv(f, s, t)
	k2 := pu.deriv(f, s.add(k1.scale(dt/2)), t+dt/2)
	k3 := pu.deriv(f, s.add(k2.scale(dt/2)), t+dt/2)
	k4 := pu.deriv(f, s.add(k3.scale(dt)), t+dt)

	incr := k1.add(k2.scale(2)).add(k3.scale(2)).add(k4).scale(dt / 6)
	return s.add(incr)
}

// Generate integrates n timesteps of width dt starting from (r0, p0)
// at t=0 and returns the sampled trajectory, one sample per step
// including the initial condition.
func (pu *Pusher) Generate(f Field, r0, p0 geom.Vec3, dt float64, n int) []trace.Sample {
	samples := make([]trace.Sample, 0, n+1)
	s := state{r: r0, p: p0}
	t := 0.0

	samples = append(samples, trace.Sample{T: t, R: s.r, P: s.p})
	for i := 0; i < n; i++ {
		s = pu.step(f, s, t, dt)
		t += dt
		samples = append(samples, trace.Sample{T: t, R: s.r, P: s.p})
	}
	return samples
}
