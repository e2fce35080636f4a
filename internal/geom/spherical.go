package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Spherical is a 3-value rotation representation based on spherical
// coordinates: an azimuthal angle theta, a polar angle phi (0 at the north
// pole), and a roll about the resulting direction. (theta, phi, roll) =
// (0, 0, 0) corresponds to the identity rotation.
//
// It exists because camera placement is naturally expressed as "a point on a
// sphere around the object, plus a twist": two values pick the point behind
// which the background appears, the third picks which way is up. Like every
// 3-value formalism it is singular at the poles, where theta and roll are
// redundant (only their sum matters).
type Spherical struct {
	Theta float64 // azimuthal angle, radians
	Phi   float64 // polar angle, radians, 0 at the north pole
	Roll  float64 // roll about the (theta, phi) direction, radians
}

// NewSpherical builds a Spherical rotation, wrapping each angle into [0, 2pi).
func NewSpherical(theta, phi, roll float64) Spherical {
	return Spherical{
		Theta: wrapAngle(theta),
		Phi:   wrapAngle(phi),
		Roll:  wrapAngle(roll),
	}
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Direction returns the unit vector from the sphere's center to the point
// selected by theta and phi.
func (s Spherical) Direction() Vec3 {
	sinPhi, cosPhi := math.Sincos(s.Phi)
	sinTheta, cosTheta := math.Sincos(s.Theta)
	return Vec3{X: sinPhi * cosTheta, Y: sinPhi * sinTheta, Z: cosPhi}
}

// ToRotation converts to the quaternion representation.
//
// The rotation is built in two steps: a roll about +Z by roll+theta (the
// theta term keeps the identity at (0,0,0)), then a tilt of the +Z axis down
// to the (theta, phi) direction about the tangent vector pointing in +theta.
func (s Spherical) ToRotation() Rotation {
	rollQ := axisAngleUnit(Vec3{Z: 1}, s.Roll+s.Theta)
	sinTheta, cosTheta := math.Sincos(s.Theta)
	tangent := Vec3{X: -sinTheta, Y: cosTheta}
	tiltQ := axisAngleUnit(tangent, s.Phi)
	return tiltQ.Mul(rollQ)
}

// SphericalFrom decomposes an arbitrary rotation into the spherical
// formalism. Round-tripping through ToRotation reproduces the same
// orientation (angles are wrapped into [0, 2pi)).
func SphericalFrom(r Rotation) Spherical {
	up := Vec3{Z: 1}
	z := r.Rotate(up)

	theta := math.Atan2(z.Y, z.X)
	phi := math.Acos(clamp(z.Z, -1, 1))

	// Undo the tilt so only the roll about +Z remains.
	axis := r3.Cross(z, up)
	var tiltInv Rotation
	if n := r3.Norm(axis); n < minRotationNorm {
		if z.Z > 0 {
			tiltInv = Identity()
		} else {
			// z points straight down: any horizontal axis undoes the tilt.
			tiltInv = axisAngleUnit(Vec3{X: 1}, math.Pi)
		}
	} else {
		angle := math.Atan2(n, r3.Dot(z, up))
		tiltInv = axisAngleUnit(r3.Scale(1/n, axis), angle)
	}

	rollQ := tiltInv.Mul(r)
	// rollQ is a pure rotation about +Z, so its angle falls straight out of
	// the w and z components.
	w, _, _, zc := rollQ.WXYZ()
	roll := 2*math.Atan2(zc, w) - theta

	return NewSpherical(theta, phi, roll)
}

func (s Spherical) String() string {
	return fmt.Sprintf("(theta=%g, phi=%g, roll=%g)", s.Theta, s.Phi, s.Roll)
}
