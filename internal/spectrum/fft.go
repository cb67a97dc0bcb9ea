package spectrum

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of a real signal by
// radix-2 decimation in time. The length must be a power of two.
func FFT(signal []float64) []complex128 {
	n := len(signal)
	if n <= 1 {
		out := make([]complex128, n)
		if n == 1 {
			out[0] = complex(signal[0], 0)
		}
		return out
	}
	if n&1 != 0 {
		panic("fft requires power of 2 length")
	}

	half := n / 2
	even := make([]float64, half)
	odd := make([]float64, half)
	for i := 0; i < half; i++ {
		even[i] = signal[2*i]
		odd[i] = signal[2*i+1]
	}

	fe := FFT(even)
	fo := FFT(odd)

	out := make([]complex128, n)
	for k := 0; k < half; k++ {
		s, c := math.Sincos(-2 * math.Pi * float64(k) / float64(n))
		t := complex(c, s) * fo[k]
		out[k] = fe[k] + t
		out[k+half] = fe[k] - t
	}
	return out
}

// PowerSpectrum returns the magnitude of the positive-frequency half
// of the transform.
func PowerSpectrum(signal []float64) []float64 {
	coeffs := FFT(signal)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantFrequency locates the strongest angular frequency [rad/s] in
// a uniformly sampled signal, a quick diagnostic for the oscillation a
// trajectory actually performs (e.g. the undulator passage frequency).
// The DC bin is ignored.
func DominantFrequency(signal []float64, dt float64) float64 {
	ps := PowerSpectrum(signal)
	if len(ps) < 2 {
		return 0
	}

	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return 2 * math.Pi * float64(best) / (float64(len(signal)) * dt)
}
