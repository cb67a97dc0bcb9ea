// Package motion generates charged-particle trajectories in prescribed
// electromagnetic fields, for demos and for exercising the sampling
// pipeline without external trace files.
package motion

import (
	"math"

	"github.com/jv-marek/radsim/internal/geom"
)

// Field is a prescribed electromagnetic field configuration.
type Field interface {
	E(r geom.Vec3, t float64) geom.Vec3
	B(r geom.Vec3, t float64) geom.Vec3
	Name() string
}

// Dipole is a uniform magnetic field along z. Electrons gyrate in the
// x-y plane (helical if they carry z momentum), the textbook
// synchrotron source.
type Dipole struct {
	B0 float64 // field strength [T]
}

func NewDipole(b0 float64) *Dipole {
	return &Dipole{B0: b0}
}

func (d *Dipole) Name() string { return "dipole" }

func (d *Dipole) E(_ geom.Vec3, _ float64) geom.Vec3 { return geom.Vec3{} }

func (d *Dipole) B(_ geom.Vec3, _ float64) geom.Vec3 {
	return geom.Vec3{Z: d.B0}
}

// Undulator is a planar undulator: a vertical field alternating
// sinusoidally along the beam axis z, driving transverse oscillation
// in x.
type Undulator struct {
	B0     float64 // peak field [T]
	Period float64 // spatial period lambda_u [m]
}

func NewUndulator(b0, period float64) *Undulator {
	return &Undulator{B0: b0, Period: period}
}

func (u *Undulator) Name() string { return "undulator" }

func (u *Undulator) E(_ geom.Vec3, _ float64) geom.Vec3 { return geom.Vec3{} }

func (u *Undulator) B(r geom.Vec3, _ float64) geom.Vec3 {
	return geom.Vec3{Y: u.B0 * math.Sin(2*math.Pi*r.Z/u.Period)}
}
