package geom

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/synthset/internal/faults"
)

// minRotationNorm is the smallest quaternion norm accepted as a usable
// rotation. Anything below is degenerate input, not float noise.
const minRotationNorm = 1e-9

// Rotation is a unit quaternion representing a 3D rotation. The zero value is
// not a valid rotation; use Identity or one of the constructors.
//
// Rotations serialize to JSON as a 4-element [w, x, y, z] array, which is the
// on-disk contract for frame label sidecars.
type Rotation struct {
	q quat.Number
}

// Identity returns the zero rotation.
func Identity() Rotation {
	return Rotation{quat.Number{Real: 1}}
}

// NewRotation builds a Rotation from quaternion components, normalizing them.
// It reports faults.ErrGeometry for a zero, NaN, or infinite quaternion.
func NewRotation(w, x, y, z float64) (Rotation, error) {
	q := quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
	n := quat.Abs(q)
	if math.IsNaN(n) || math.IsInf(n, 0) || n < minRotationNorm {
		return Rotation{}, fmt.Errorf("%w: quaternion [%g %g %g %g] is degenerate", faults.ErrGeometry, w, x, y, z)
	}
	return Rotation{quat.Scale(1/n, q)}, nil
}

// AxisAngle builds the rotation of angle radians (right-handed) about axis.
// It reports faults.ErrGeometry if axis has (near-)zero length.
func AxisAngle(axis Vec3, angle float64) (Rotation, error) {
	n := r3.Norm(axis)
	if math.IsNaN(n) || n < minRotationNorm {
		return Rotation{}, fmt.Errorf("%w: rotation axis has zero length", faults.ErrGeometry)
	}
	return axisAngleUnit(r3.Scale(1/n, axis), angle), nil
}

// axisAngleUnit assumes axis is already unit length.
func axisAngleUnit(axis Vec3, angle float64) Rotation {
	s, c := math.Sincos(angle / 2)
	return Rotation{quat.Number{Real: c, Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}}
}

// WXYZ returns the quaternion components.
func (r Rotation) WXYZ() (w, x, y, z float64) {
	return r.q.Real, r.q.Imag, r.q.Jmag, r.q.Kmag
}

// IsValid reports whether r is a well-formed unit rotation. The zero value
// and any NaN-contaminated rotation are invalid.
func (r Rotation) IsValid() bool {
	n := quat.Abs(r.q)
	return !math.IsNaN(n) && math.Abs(n-1) < 1e-6
}

// Mul composes two rotations: the result applies o first, then r. This
// matches quaternion multiplication order, so camera.Mul(lighting) orients
// the light within the camera's frame.
func (r Rotation) Mul(o Rotation) Rotation {
	p := quat.Mul(r.q, o.q)
	// Renormalize to stop drift from accumulating over long compositions.
	return Rotation{quat.Scale(1/quat.Abs(p), p)}
}

// Inverse returns the reverse rotation.
func (r Rotation) Inverse() Rotation {
	return Rotation{quat.Conj(r.q)}
}

// Rotate applies the rotation to a vector.
func (r Rotation) Rotate(v Vec3) Vec3 {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	rp := quat.Mul(quat.Mul(r.q, p), quat.Conj(r.q))
	return Vec3{X: rp.Imag, Y: rp.Jmag, Z: rp.Kmag}
}

// Dot returns the 4D dot product of two rotations. Negative means the
// quaternions are on opposite hemispheres even if the rotations are close.
func (r Rotation) Dot(o Rotation) float64 {
	return r.q.Real*o.q.Real + r.q.Imag*o.q.Imag + r.q.Jmag*o.q.Jmag + r.q.Kmag*o.q.Kmag
}

// ApproxEqual reports whether two rotations represent the same orientation
// within tol, treating q and -q as equal.
func (r Rotation) ApproxEqual(o Rotation, tol float64) bool {
	return math.Abs(math.Abs(r.Dot(o))-1) < tol
}

func (r Rotation) String() string {
	return fmt.Sprintf("[%g %g %g %g]", r.q.Real, r.q.Imag, r.q.Jmag, r.q.Kmag)
}

// MarshalJSON encodes the rotation as a [w, x, y, z] array.
func (r Rotation) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{r.q.Real, r.q.Imag, r.q.Jmag, r.q.Kmag})
}

// UnmarshalJSON decodes a [w, x, y, z] array, normalizing and validating it.
func (r *Rotation) UnmarshalJSON(data []byte) error {
	var c [4]float64
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	rot, err := NewRotation(c[0], c[1], c[2], c[3])
	if err != nil {
		return err
	}
	*r = rot
	return nil
}

// Slerp spherically interpolates between two rotations along the shortest
// arc. t=0 reproduces a exactly and t=1 reproduces b (up to quaternion sign).
func Slerp(a, b Rotation, t float64) Rotation {
	d := a.Dot(b)
	bq := b.q
	if d < 0 {
		// Negate one endpoint so interpolation takes the short way around.
		bq = quat.Scale(-1, bq)
		d = -d
	}
	if t == 0 {
		return a
	}
	if t == 1 {
		return Rotation{bq}
	}
	if d > 1-1e-10 {
		// Nearly identical rotations: fall back to a normalized lerp, which
		// is numerically stable where sin(theta) vanishes.
		m := quat.Add(quat.Scale(1-t, a.q), quat.Scale(t, bq))
		return Rotation{quat.Scale(1/quat.Abs(m), m)}
	}
	theta := math.Acos(clamp(d, -1, 1))
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	m := quat.Add(quat.Scale(wa, a.q), quat.Scale(wb, bq))
	return Rotation{quat.Scale(1/quat.Abs(m), m)}
}
