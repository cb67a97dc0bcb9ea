package geom

import "math"

// Vec3 is a three-component Cartesian vector.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Norm2 returns the squared Euclidean length.
func (v Vec3) Norm2() float64 {
	return v.Dot(v)
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Norm2())
}

// Unit returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Scalar wraps float64 so plain numbers satisfy the same capability set
// as Vec3 (subtract, scale) and can ride in the same generic containers.
type Scalar float64

func (s Scalar) Sub(o Scalar) Scalar {
	return s - o
}

func (s Scalar) Scale(f float64) Scalar {
	return Scalar(f) * s
}
