// Package geom provides the rotation and sampling primitives used by the
// sequence generator and the annotation engines: quaternion rotations with
// shortest-arc slerp, the spherical rotation formalism used for camera
// placement, golden-spiral sphere coverage, and uniform SO(3) sampling.
//
// All randomized functions take an explicit rand.Source so callers can make
// them reproducible. A nil source is replaced by a freshly seeded generator,
// which makes the output intentionally non-deterministic across runs.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a point or direction in 3D world space.
type Vec3 = r3.Vec

// Lerp linearly interpolates between a and b. t=0 yields a, t=1 yields b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec3 linearly interpolates between two vectors component-wise.
func LerpVec3(a, b Vec3, t float64) Vec3 {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// clamp bounds v to [lo, hi]. Used to keep acos arguments in domain when
// float error pushes a dot product slightly past ±1.
func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
