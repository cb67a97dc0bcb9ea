package relativity

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jv-marek/radsim/internal/geom"
	"github.com/jv-marek/radsim/internal/series"
)

// typical momentum scale for a ~10 MeV electron [kg m/s]
const pScale = 5.0e-21

func TestGammaAtRest(t *testing.T) {
	if got := Gamma(geom.Vec3{}); got != 1.0 {
		t.Errorf("Gamma(0) = %v, want exactly 1", got)
	}
}

func TestGammaNeverBelowOne(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		scale := pScale * math.Pow(10, -6+12*rng.Float64())
		p := geom.Vec3{
			X: (rng.Float64() - 0.5) * scale,
			Y: (rng.Float64() - 0.5) * scale,
			Z: (rng.Float64() - 0.5) * scale,
		}
		if g := Gamma(p); g < 1.0 {
			t.Fatalf("Gamma(%+v) = %v < 1", p, g)
		}
	}
}

func TestGammaMatchesDimensionlessForm(t *testing.T) {
	// The literal energy-momentum expansion must agree with
	// sqrt(1 + (p/(m_e c))^2) across many decades of momentum.
	for _, exp := range []float64{-6, -3, -1, 0, 1, 3, 6} {
		p := geom.Vec3{X: pScale * math.Pow(10, exp)}
		want := math.Sqrt(1 + p.Norm2()/(ElectronMass*C*ElectronMass*C))
		got := Gamma(p)
		if math.Abs(got-want)/want > 1e-12 {
			t.Errorf("p=10^%v scale: Gamma = %v, reference form = %v", exp, got, want)
		}
	}
}

func TestBetaMagnitudeBelowOne(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		scale := pScale * math.Pow(10, -3+8*rng.Float64())
		p := geom.Vec3{
			X: (rng.Float64() - 0.5) * scale,
			Y: (rng.Float64() - 0.5) * scale,
			Z: (rng.Float64() - 0.5) * scale,
		}
		b := Beta(p, Gamma(p))
		if n := b.Norm(); n >= 1.0 {
			t.Fatalf("|Beta| = %v >= 1 for p=%+v", n, p)
		}
	}
}

func TestMomentumRoundTrip(t *testing.T) {
	// p = beta * c * m_e * gamma must reproduce the input momentum.
	p := geom.Vec3{X: 2.1 * pScale, Y: -0.4 * pScale, Z: 0.9 * pScale}
	g := Gamma(p)
	b := Beta(p, g)

	back := b.Scale(C * ElectronMass * g)
	if rel := back.Sub(p).Norm() / p.Norm(); rel > 1e-9 {
		t.Errorf("round trip relative error %v > 1e-9", rel)
	}
}

func TestZeroMomentumWindow(t *testing.T) {
	axis := series.NewAxis(0, 1, 2, 3)
	conv := NewConverter(axis)
	p := series.New(geom.Vec3{}, geom.Vec3{}, geom.Vec3{}, geom.Vec3{}, axis)

	g := conv.MomentumToGamma(&p)
	for i, v := range []geom.Scalar{g.Old2(), g.Old(), g.Now(), g.Future()} {
		if v != 1.0 {
			t.Errorf("gamma slot %d = %v, want 1", i, v)
		}
	}

	b := conv.MomentumToBeta(&p, &g)
	for i, v := range []geom.Vec3{b.Old2(), b.Old(), b.Now(), b.Future()} {
		if v != (geom.Vec3{}) {
			t.Errorf("beta slot %d = %+v, want zero vector", i, v)
		}
	}
}

func TestWindowConversionSlotCorrespondence(t *testing.T) {
	axis := series.NewAxis(0, 1, 2, 3)
	conv := NewConverter(axis)

	samples := [4]geom.Vec3{
		{X: 0.5 * pScale},
		{Y: 1.0 * pScale},
		{Z: 2.0 * pScale},
		{X: 4.0 * pScale, Y: 1.0 * pScale},
	}
	p := series.New(samples[0], samples[1], samples[2], samples[3], axis)

	g := conv.MomentumToGamma(&p)
	b := conv.MomentumToBeta(&p, &g)

	gs := [4]geom.Scalar{g.Old2(), g.Old(), g.Now(), g.Future()}
	bs := [4]geom.Vec3{b.Old2(), b.Old(), b.Now(), b.Future()}
	for i := range samples {
		if want := Gamma(samples[i]); math.Abs(float64(gs[i])-want) > want*1e-15 {
			t.Errorf("gamma slot %d: got %v, want %v", i, gs[i], want)
		}
		if want := Beta(samples[i], float64(gs[i])); bs[i] != want {
			t.Errorf("beta slot %d: got %+v, want %+v", i, bs[i], want)
		}
	}

	if g.Axis() != axis || b.Axis() != axis {
		t.Error("derived windows must share the converter's axis")
	}
}
