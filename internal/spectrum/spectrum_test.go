package spectrum

import (
	"context"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jv-marek/radsim/internal/geom"
	"github.com/jv-marek/radsim/internal/motion"
	"github.com/jv-marek/radsim/internal/relativity"
	"github.com/jv-marek/radsim/internal/trace"
)

// circularTrace integrates a mildly relativistic electron in a uniform
// field for a given number of gyration periods.
func circularTrace(b0 float64, periods, stepsPerPeriod int) ([]trace.Sample, float64) {
	p0 := geom.Vec3{X: 1e-23}
	gamma := relativity.Gamma(p0)
	omegaC := relativity.Charge * b0 / (gamma * relativity.ElectronMass)

	dt := 2 * math.Pi / omegaC / float64(stepsPerPeriod)
	pusher := motion.NewElectronPusher()
	samples := pusher.Generate(motion.NewDipole(b0), geom.Vec3{}, p0, dt, periods*stepsPerPeriod)
	return samples, omegaC
}

var _ = Describe("Grid", func() {
	It("covers the requested angles and frequencies", func() {
		g := NewGrid(1e15, 16, 0.02, 5, 4)

		Expect(g.Omega).To(HaveLen(16))
		Expect(g.Omega[15]).To(Equal(1e15))
		Expect(g.Detectors).To(HaveLen(20))

		for _, d := range g.Detectors {
			Expect(d.N.Norm()).To(BeNumerically("~", 1.0, 1e-12))
			Expect(d.Theta).To(BeNumerically("<=", 0.02))
		}
		Expect(g.Detectors[0].Theta).To(BeZero())
	})
})

var _ = Describe("Compute", func() {
	It("records nothing for a free particle", func() {
		// Constant momentum: the centered stencil of a constant beta
		// is exactly zero, so no radiation is accumulated.
		samples := make([]trace.Sample, 16)
		for i := range samples {
			t := float64(i) * 1e-12
			samples[i] = trace.Sample{
				T: t,
				R: geom.Vec3{Z: 0.9 * relativity.C * t},
				P: geom.Vec3{Z: 5e-21},
			}
		}

		g := NewGrid(1e18, 8, 0.01, 3, 1)
		res, err := Compute(context.Background(), samples, g, 2)
		Expect(err).NotTo(HaveOccurred())

		for _, row := range res.Intensity {
			for _, v := range row {
				Expect(v).To(BeZero())
			}
		}
	})

	It("rejects traces too short to fill the windows", func() {
		samples := []trace.Sample{{T: 0}, {T: 1e-12}, {T: 2e-12}}
		g := NewGrid(1e18, 8, 0.01, 2, 1)
		_, err := Compute(context.Background(), samples, g, 1)
		Expect(err).To(HaveOccurred())
	})

	It("peaks at the gyration frequency for circular motion", func() {
		samples, omegaC := circularTrace(1.0, 30, 200)

		// frequency grid with omegaC exactly on bin 15
		g := NewGrid(4*omegaC, 64, 0.01, 1, 1)
		res, err := Compute(context.Background(), samples, g, 4)
		Expect(err).NotTo(HaveOccurred())

		onAxis := res.OnAxis()
		peak := 0
		for k := range onAxis {
			if onAxis[k] > onAxis[peak] {
				peak = k
			}
		}
		Expect(onAxis[peak]).To(BeNumerically(">", 0))
		Expect(peak).To(BeNumerically("~", 15, 1))
	})

	It("is independent of the worker count", func() {
		samples, omegaC := circularTrace(1.0, 5, 100)

		serial, err := Compute(context.Background(), samples, NewGrid(2*omegaC, 16, 0.05, 4, 2), 1)
		Expect(err).NotTo(HaveOccurred())
		parallel, err := Compute(context.Background(), samples, NewGrid(2*omegaC, 16, 0.05, 4, 2), 8)
		Expect(err).NotTo(HaveOccurred())

		for i := range serial.Intensity {
			for k := range serial.Intensity[i] {
				Expect(parallel.Intensity[i][k]).To(Equal(serial.Intensity[i][k]))
			}
		}
	})

	It("stops on context cancellation", func() {
		samples, omegaC := circularTrace(1.0, 2, 50)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Compute(ctx, samples, NewGrid(2*omegaC, 8, 0.05, 64, 2), 1)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Sweep", func() {
	It("sums per-trace spectra incoherently", func() {
		samples, omegaC := circularTrace(0.7, 5, 100)

		dir := GinkgoT().TempDir()
		var paths []string
		for _, name := range []string{"a.dat", "b.dat"} {
			p := filepath.Join(dir, name)
			Expect(trace.WriteFile(p, samples)).To(Succeed())
			paths = append(paths, p)
		}

		mk := func() *Grid { return NewGrid(2*omegaC, 16, 0.05, 3, 1) }

		single, err := Sweep(context.Background(), paths[:1], mk, 1, nil)
		Expect(err).NotTo(HaveOccurred())
		both, err := Sweep(context.Background(), paths, mk, 2, nil)
		Expect(err).NotTo(HaveOccurred())

		for i := range single.Intensity {
			for k := range single.Intensity[i] {
				Expect(both.Intensity[i][k]).To(BeNumerically("~", 2*single.Intensity[i][k], math.Abs(single.Intensity[i][k])*1e-9+1e-300))
			}
		}
	})

	It("returns the error when a trace file cannot be read", func() {
		mk := func() *Grid { return NewGrid(1e18, 8, 0.05, 2, 1) }
		paths := []string{"/nonexistent/a.dat", "/nonexistent/b.dat"}

		done := make(chan error, 1)
		go func() {
			_, err := Sweep(context.Background(), paths, mk, 1, nil)
			done <- err
		}()

		// a single worker must not leave the feeder blocked after
		// failing on the first path
		var err error
		Eventually(done, "3s").Should(Receive(&err))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("/nonexistent/a.dat"))
	})

	It("stops on the first bad trace among good ones", func() {
		samples, omegaC := circularTrace(0.7, 5, 100)
		dir := GinkgoT().TempDir()
		good := filepath.Join(dir, "good.dat")
		Expect(trace.WriteFile(good, samples)).To(Succeed())
		bad := filepath.Join(dir, "bad.dat")
		Expect(os.WriteFile(bad, []byte("not a trace\n"), 0644)).To(Succeed())

		mk := func() *Grid { return NewGrid(2*omegaC, 8, 0.05, 2, 1) }

		done := make(chan error, 1)
		go func() {
			_, err := Sweep(context.Background(), []string{good, bad, good, good}, mk, 2, nil)
			done <- err
		}()

		var err error
		Eventually(done, "5s").Should(Receive(&err))
		Expect(err).To(MatchError(ContainSubstring("bad.dat")))
	})

	It("reports progress", func() {
		samples, omegaC := circularTrace(0.7, 5, 100)
		p := filepath.Join(GinkgoT().TempDir(), "t.dat")
		Expect(trace.WriteFile(p, samples)).To(Succeed())

		calls := 0
		_, err := Sweep(context.Background(), []string{p},
			func() *Grid { return NewGrid(2*omegaC, 8, 0.05, 2, 1) }, 1,
			func(done, total int, partial *Result) {
				calls++
				Expect(total).To(Equal(1))
				Expect(partial.Intensity).To(HaveLen(2))
			})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(1))
	})
})

var _ = Describe("FFT diagnostics", func() {
	It("finds the frequency of a pure tone", func() {
		n := 1024
		dt := 1e-3
		f := 40.0 / (float64(n) * dt) // Hz, exactly on bin 40
		data := make([]float64, n)
		for i := range data {
			data[i] = math.Sin(2 * math.Pi * f * float64(i) * dt)
		}

		got := DominantFrequency(data, dt)
		Expect(got).To(BeNumerically("~", 2*math.Pi*f, 2*math.Pi*f*1e-9))
	})

	It("panics on non power of two lengths", func() {
		Expect(func() { FFT(make([]float64, 12)) }).To(Panic())
	})
})
