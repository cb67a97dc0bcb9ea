// Package trace handles particle trajectory files and drives the
// per-timestep sampling windows.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jv-marek/radsim/internal/geom"
)

// Sample is one timestep of a particle trajectory: absolute time [s],
// position [m] and momentum [kg m/s].
type Sample struct {
	T float64
	R geom.Vec3
	P geom.Vec3
}

// Read parses a whitespace-separated trace stream with one sample per
// row:
//
//	t x y z px py pz
//
// Blank lines and lines starting with '#' are skipped.
func Read(r io.Reader) ([]Sample, error) {
	var samples []Sample

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 7 {
			return nil, fmt.Errorf("trace: line %d: expected 7 columns, got %d", line, len(fields))
		}

		var v [7]float64
		for i, f := range fields {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("trace: line %d column %d: %w", line, i+1, err)
			}
			v[i] = x
		}

		samples = append(samples, Sample{
			T: v[0],
			R: geom.Vec3{X: v[1], Y: v[2], Z: v[3]},
			P: geom.Vec3{X: v[4], Y: v[5], Z: v[6]},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	if len(samples) < 4 {
		return nil, fmt.Errorf("trace: need at least 4 samples, got %d", len(samples))
	}

	return samples, nil
}

// ReadFile reads a trace file from disk.
func ReadFile(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// WriteFile writes samples in the format Read accepts.
func WriteFile(path string, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "# t x y z px py pz")
	for _, s := range samples {
		fmt.Fprintf(w, "%.12e %.12e %.12e %.12e %.12e %.12e %.12e\n",
			s.T, s.R.X, s.R.Y, s.R.Z, s.P.X, s.P.Y, s.P.Z)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
