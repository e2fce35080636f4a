package sequence

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/synthset/internal/frame"
	"github.com/banshee-data/synthset/internal/geom"
)

// Domain variants for random generation. Each frame field is produced by
// exactly one domain per call: either a finite choice set or a sampling
// distribution. Domains validate loudly; an empty choice set or an inverted
// range is a configuration error, never a silent zero-frame result.

// ScalarDomain produces scalar field samples (distance).
type ScalarDomain interface {
	validate(field string) error
	sample(src rand.Source) float64
}

// Vec3Domain produces 3D point samples (position).
type Vec3Domain interface {
	validate(field string) error
	sample(src rand.Source) geom.Vec3
}

// OffsetDomain produces image-plane offset samples.
type OffsetDomain interface {
	validate(field string) error
	sample(src rand.Source) frame.Offset
}

// RotationDomain produces rotation samples (pose, lighting, background).
type RotationDomain interface {
	validate(field string) error
	sample(src rand.Source) geom.Rotation
}

// ScalarChoice picks uniformly from a fixed value set.
type ScalarChoice []float64

func (c ScalarChoice) validate(field string) error {
	if len(c) == 0 {
		return confErrorf("%s domain has an empty choice set", field)
	}
	return nil
}

func (c ScalarChoice) sample(src rand.Source) float64 {
	return c[rand.New(src).IntN(len(c))]
}

// ScalarRange samples uniformly from [Min, Max].
type ScalarRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r ScalarRange) validate(field string) error {
	if r.Min > r.Max {
		return confErrorf("%s domain range is inverted: [%g, %g]", field, r.Min, r.Max)
	}
	return nil
}

func (r ScalarRange) sample(src rand.Source) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return distuv.Uniform{Min: r.Min, Max: r.Max, Src: src}.Rand()
}

// Vec3Choice picks uniformly from a fixed point set.
type Vec3Choice []geom.Vec3

func (c Vec3Choice) validate(field string) error {
	if len(c) == 0 {
		return confErrorf("%s domain has an empty choice set", field)
	}
	return nil
}

func (c Vec3Choice) sample(src rand.Source) geom.Vec3 {
	return c[rand.New(src).IntN(len(c))]
}

// Vec3Box samples uniformly from an axis-aligned box.
type Vec3Box struct {
	Min geom.Vec3
	Max geom.Vec3
}

func (b Vec3Box) validate(field string) error {
	if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z {
		return confErrorf("%s domain box is inverted", field)
	}
	return nil
}

func (b Vec3Box) sample(src rand.Source) geom.Vec3 {
	return geom.Vec3{
		X: ScalarRange{Min: b.Min.X, Max: b.Max.X}.sample(src),
		Y: ScalarRange{Min: b.Min.Y, Max: b.Max.Y}.sample(src),
		Z: ScalarRange{Min: b.Min.Z, Max: b.Max.Z}.sample(src),
	}
}

// Vec3Sphere samples uniformly from the surface of a sphere.
type Vec3Sphere struct {
	Center geom.Vec3
	Radius float64
}

func (s Vec3Sphere) validate(field string) error {
	if s.Radius < 0 {
		return confErrorf("%s domain sphere radius is negative: %g", field, s.Radius)
	}
	return nil
}

func (s Vec3Sphere) sample(src rand.Source) geom.Vec3 {
	dir := geom.RandomSpherical(1, false, src)[0].Direction()
	return geom.Vec3{
		X: s.Center.X + s.Radius*dir.X,
		Y: s.Center.Y + s.Radius*dir.Y,
		Z: s.Center.Z + s.Radius*dir.Z,
	}
}

// OffsetChoice picks uniformly from a fixed offset set.
type OffsetChoice []frame.Offset

func (c OffsetChoice) validate(field string) error {
	if len(c) == 0 {
		return confErrorf("%s domain has an empty choice set", field)
	}
	return nil
}

func (c OffsetChoice) sample(src rand.Source) frame.Offset {
	return c[rand.New(src).IntN(len(c))]
}

// OffsetRange samples each offset component uniformly from [Min, Max].
type OffsetRange struct {
	Min frame.Offset `json:"min"`
	Max frame.Offset `json:"max"`
}

func (r OffsetRange) validate(field string) error {
	if r.Min.V > r.Max.V || r.Min.H > r.Max.H {
		return confErrorf("%s domain range is inverted", field)
	}
	return nil
}

func (r OffsetRange) sample(src rand.Source) frame.Offset {
	return frame.Offset{
		V: ScalarRange{Min: r.Min.V, Max: r.Max.V}.sample(src),
		H: ScalarRange{Min: r.Min.H, Max: r.Max.H}.sample(src),
	}
}

// RotationChoice picks uniformly from a fixed rotation set.
type RotationChoice []geom.Rotation

func (c RotationChoice) validate(field string) error {
	if len(c) == 0 {
		return confErrorf("%s domain has an empty choice set", field)
	}
	for i, r := range c {
		if !r.IsValid() {
			return confErrorf("%s domain choice %d is not a valid rotation", field, i)
		}
	}
	return nil
}

func (c RotationChoice) sample(src rand.Source) geom.Rotation {
	return c[rand.New(src).IntN(len(c))]
}

// RotationUniform samples uniformly from SO(3).
type RotationUniform struct{}

func (RotationUniform) validate(string) error { return nil }

func (RotationUniform) sample(src rand.Source) geom.Rotation {
	return geom.RandomRotations(1, src)[0]
}

// RotationSphere samples a uniformly distributed direction on the sphere,
// with the roll either uniformly random or zero. Typical for backgrounds and
// lighting, where the camera ray direction matters but full SO(3) uniformity
// is not wanted.
type RotationSphere struct {
	RandomRoll bool `json:"random_roll"`
}

func (RotationSphere) validate(string) error { return nil }

func (s RotationSphere) sample(src rand.Source) geom.Rotation {
	return geom.RandomSpherical(1, s.RandomRoll, src)[0].ToRotation()
}
