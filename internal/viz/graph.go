package viz

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/jv-marek/radsim/internal/spectrum"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Graph renders one detector's spectrum as an ascii line plot with a
// frequency-range caption. Intensities are plotted on a log scale when
// they span more than three decades.
func Graph(omega, intensity []float64, width, height int) string {
	if len(intensity) == 0 {
		return labelStyle.Render("(empty spectrum)")
	}

	data, logScale := maybeLog(intensity)
	plot := asciigraph.Plot(data,
		asciigraph.Width(width),
		asciigraph.Height(height),
	)

	caption := fmt.Sprintf("omega: %.3e .. %.3e rad/s", omega[0], omega[len(omega)-1])
	if logScale {
		caption += "  (log10 intensity)"
	}

	return graphStyle.Render(plot) + "\n" + labelStyle.Render(caption)
}

// GraphOnAxis is Graph applied to the detector nearest the beam axis.
func GraphOnAxis(res *spectrum.Result, width, height int) string {
	return headerStyle.Render("on-axis spectrum") + "\n" +
		Graph(res.Omega, res.OnAxis(), width, height)
}

// maybeLog switches to log10 when the dynamic range is too wide for a
// linear ascii plot. Zero bins clamp to the smallest positive value.
func maybeLog(intensity []float64) ([]float64, bool) {
	maxV, minPos := 0.0, math.Inf(1)
	for _, v := range intensity {
		if v > maxV {
			maxV = v
		}
		if v > 0 && v < minPos {
			minPos = v
		}
	}
	if maxV == 0 || minPos == math.Inf(1) || maxV/minPos < 1e3 {
		out := make([]float64, len(intensity))
		copy(out, intensity)
		return out, false
	}

	out := make([]float64, len(intensity))
	floor := math.Log10(minPos)
	for i, v := range intensity {
		if v <= 0 {
			out[i] = floor
		} else {
			out[i] = math.Log10(v)
		}
	}
	return out, true
}
