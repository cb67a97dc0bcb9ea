package spectrum

import (
	"math"

	"github.com/jv-marek/radsim/internal/geom"
	"github.com/jv-marek/radsim/internal/relativity"
	"github.com/jv-marek/radsim/internal/trace"
)

// prefactor of the frequency-domain far-field energy density,
// e^2 / (16 pi^3 eps0 c) [J s]
var prefactor = relativity.Charge * relativity.Charge /
	(16 * math.Pi * math.Pi * math.Pi * relativity.Epsilon0 * relativity.C)

// Detector accumulates the far-field spectral amplitude observed from
// one direction over a frequency grid:
//
//	d2I/(dw dOmega) = e^2/(16 pi^3 eps0 c) *
//	    | integral n x ((n - beta) x betadot) / (1 - n.beta)^2
//	      * exp(i w (t - n.r/c)) dt |^2
//
// fed one trajectory step at a time. The integrand consumes exactly
// the synchronized (Beta, BetaDot) pair the sampler emits.
type Detector struct {
	Theta, Phi float64   // direction in beam coordinates [rad]
	N          geom.Vec3 // unit observation direction
	Omega      []float64 // angular frequency grid [1/s]

	ax, ay, az []complex128 // per-frequency vector amplitude
}

// NewDetector returns a detector looking along (theta, phi) with the
// beam axis at theta = 0.
func NewDetector(theta, phi float64, omega []float64) *Detector {
	sinT, cosT := math.Sincos(theta)
	sinP, cosP := math.Sincos(phi)
	return &Detector{
		Theta: theta,
		Phi:   phi,
		N:     geom.Vec3{X: sinT * cosP, Y: sinT * sinP, Z: cosT},
		Omega: omega,
		ax:    make([]complex128, len(omega)),
		ay:    make([]complex128, len(omega)),
		az:    make([]complex128, len(omega)),
	}
}

// Observe adds one trajectory step's contribution to every frequency
// accumulator.
func (d *Detector) Observe(step trace.Step) {
	n := d.N
	doppler := 1 - n.Dot(step.Beta)
	g := n.Cross(n.Sub(step.Beta).Cross(step.BetaDot)).
		Scale(step.Dt / (doppler * doppler))

	// retarded phase argument t - n.r/c
	ph := step.Time - n.Dot(step.Pos)/relativity.C

	for k, w := range d.Omega {
		s, c := math.Sincos(w * ph)
		e := complex(c, s)
		d.ax[k] += complex(g.X, 0) * e
		d.ay[k] += complex(g.Y, 0) * e
		d.az[k] += complex(g.Z, 0) * e
	}
}

// Intensity returns the spectral energy density per frequency bin,
// d2I/(dw dOmega) [J s].
func (d *Detector) Intensity() []float64 {
	out := make([]float64, len(d.Omega))
	for k := range out {
		norm2 := re2(d.ax[k]) + re2(d.ay[k]) + re2(d.az[k])
		out[k] = prefactor * norm2
	}
	return out
}

// Reset clears the accumulators so the detector can observe another
// trace.
func (d *Detector) Reset() {
	for k := range d.ax {
		d.ax[k] = 0
		d.ay[k] = 0
		d.az[k] = 0
	}
}

func re2(c complex128) float64 {
	return real(c)*real(c) + imag(c)*imag(c)
}
