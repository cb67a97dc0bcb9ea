package viz

import (
	"math"

	"github.com/jv-marek/radsim/internal/spectrum"
)

// SpectralMap draws the theta-omega intensity distribution (phi
// averaged) onto a fresh canvas: omega along x, polar angle along y,
// with a sub-pixel lit where the local intensity exceeds threshold
// times the global maximum.
func SpectralMap(res *spectrum.Result, width, height int, threshold float64) *Canvas {
	c := NewCanvas(width, height)
	px, py := width*2, height*4

	// fold phi: average detectors sharing a theta
	byTheta := make(map[float64][]float64)
	var thetas []float64
	for i, th := range res.Theta {
		if _, seen := byTheta[th]; !seen {
			thetas = append(thetas, th)
			byTheta[th] = make([]float64, len(res.Omega))
		}
		row := byTheta[th]
		for k, v := range res.Intensity[i] {
			row[k] += v
		}
	}
	if len(thetas) == 0 {
		return c
	}

	maxV := 0.0
	for _, row := range byTheta {
		for _, v := range row {
			if v > maxV {
				maxV = v
			}
		}
	}
	if maxV == 0 {
		return c
	}

	thetaMax := thetas[len(thetas)-1]
	for _, th := range thetas {
		y := 0
		if thetaMax > 0 {
			y = int(math.Round(th / thetaMax * float64(py-1)))
		}
		row := byTheta[th]
		for k, v := range row {
			if v < threshold*maxV {
				continue
			}
			x := 0
			if len(row) > 1 {
				x = int(math.Round(float64(k) / float64(len(row)-1) * float64(px-1)))
			}
			c.Set(x, py-1-y)
		}
	}
	return c
}
