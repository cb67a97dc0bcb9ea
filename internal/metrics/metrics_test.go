package metrics

import (
	"math"
	"testing"

	"github.com/jv-marek/radsim/internal/geom"
	"github.com/jv-marek/radsim/internal/motion"
	"github.com/jv-marek/radsim/internal/relativity"
	"github.com/jv-marek/radsim/internal/trace"
)

func freeTrace(n int) []trace.Sample {
	samples := make([]trace.Sample, n)
	for i := range samples {
		t := float64(i) * 1e-12
		samples[i] = trace.Sample{
			T: t,
			R: geom.Vec3{Z: 0.5 * relativity.C * t},
			P: geom.Vec3{Z: 2e-21},
		}
	}
	return samples
}

func TestFreeParticleRadiatesNothing(t *testing.T) {
	got := Collect(freeTrace(20), NewRadiatedEnergy())
	if got["radiated_energy"] != 0 {
		t.Errorf("free particle radiated %v J, want 0", got["radiated_energy"])
	}
}

func TestGyratingParticleRadiates(t *testing.T) {
	p0 := geom.Vec3{X: 5e-21}
	gamma := relativity.Gamma(p0)
	b0 := 1.0
	omegaC := relativity.Charge * b0 / (gamma * relativity.ElectronMass)
	dt := 2 * math.Pi / omegaC / 500

	pusher := motion.NewElectronPusher()
	samples := pusher.Generate(motion.NewDipole(b0), geom.Vec3{}, p0, dt, 500)

	got := Collect(samples, NewRadiatedEnergy(), NewMaxGamma(), NewPathLength())

	if got["radiated_energy"] <= 0 {
		t.Errorf("radiated energy = %v, want > 0", got["radiated_energy"])
	}
	if rel := math.Abs(got["max_gamma"]-gamma) / gamma; rel > 1e-9 {
		t.Errorf("max gamma = %v, want %v", got["max_gamma"], gamma)
	}

	// one full gyration covers 2 pi r, minus the three warmup samples
	// the windows swallow
	r := p0.Norm() / (relativity.Charge * b0)
	wantPath := 2 * math.Pi * r
	if rel := math.Abs(got["path_length"]-wantPath) / wantPath; rel > 0.01 {
		t.Errorf("path length = %v, want ~%v", got["path_length"], wantPath)
	}
}

func TestMetricsReset(t *testing.T) {
	m := NewRadiatedEnergy()
	m.Observe(trace.Step{Gamma: 2, BetaDot: geom.Vec3{X: 1e10}, Dt: 1e-12})
	if m.Value() == 0 {
		t.Fatal("expected nonzero energy after observe")
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}
