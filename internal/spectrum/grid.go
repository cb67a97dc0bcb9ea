package spectrum

import "math"

// Grid is the set of detectors covering the observation solid angle,
// all sharing one frequency axis.
type Grid struct {
	Omega     []float64
	Detectors []*Detector
}

// NewGrid builds nTheta x nPhi detectors with polar angles spanning
// [0, thetaMax] (radians off the beam axis) and azimuths spanning
// [0, 2 pi), over nOmega frequencies linearly spaced in (0, omegaMax].
func NewGrid(omegaMax float64, nOmega int, thetaMax float64, nTheta, nPhi int) *Grid {
	omega := make([]float64, nOmega)
	for j := range omega {
		omega[j] = omegaMax * float64(j+1) / float64(nOmega)
	}

	g := &Grid{
		Omega:     omega,
		Detectors: make([]*Detector, 0, nTheta*nPhi),
	}
	for i := 0; i < nTheta; i++ {
		theta := 0.0
		if nTheta > 1 {
			theta = thetaMax * float64(i) / float64(nTheta-1)
		}
		for j := 0; j < nPhi; j++ {
			phi := 2 * math.Pi * float64(j) / float64(nPhi)
			g.Detectors = append(g.Detectors, NewDetector(theta, phi, omega))
		}
	}
	return g
}

// Result collects the accumulated spectral intensity of every detector
// of a grid: Intensity[d][k] is detector d at frequency Omega[k].
type Result struct {
	Omega     []float64
	Theta     []float64 // per detector
	Phi       []float64 // per detector
	Intensity [][]float64
}

// Collect snapshots the grid's accumulators into a Result.
func (g *Grid) Collect() *Result {
	r := &Result{
		Omega:     g.Omega,
		Theta:     make([]float64, len(g.Detectors)),
		Phi:       make([]float64, len(g.Detectors)),
		Intensity: make([][]float64, len(g.Detectors)),
	}
	for i, d := range g.Detectors {
		r.Theta[i] = d.Theta
		r.Phi[i] = d.Phi
		r.Intensity[i] = d.Intensity()
	}
	return r
}

// Accumulate adds another trace's spectrum in place. Per-trace spectra
// from independent particles add incoherently.
func (r *Result) Accumulate(other *Result) {
	for i := range r.Intensity {
		for k := range r.Intensity[i] {
			r.Intensity[i][k] += other.Intensity[i][k]
		}
	}
}

// Clone deep-copies the result, so a snapshot can outlive further
// accumulation.
func (r *Result) Clone() *Result {
	c := &Result{
		Omega:     append([]float64(nil), r.Omega...),
		Theta:     append([]float64(nil), r.Theta...),
		Phi:       append([]float64(nil), r.Phi...),
		Intensity: make([][]float64, len(r.Intensity)),
	}
	for i, row := range r.Intensity {
		c.Intensity[i] = append([]float64(nil), row...)
	}
	return c
}

// OnAxis returns the spectrum of the detector closest to the beam
// axis.
func (r *Result) OnAxis() []float64 {
	best := 0
	for i := range r.Theta {
		if math.Abs(r.Theta[i]) < math.Abs(r.Theta[best]) {
			best = i
		}
	}
	return r.Intensity[best]
}

// Peak returns the frequency and intensity of the overall spectral
// maximum.
func (r *Result) Peak() (omega, intensity float64) {
	for i := range r.Intensity {
		for k, v := range r.Intensity[i] {
			if v > intensity {
				intensity = v
				omega = r.Omega[k]
			}
		}
	}
	return omega, intensity
}
