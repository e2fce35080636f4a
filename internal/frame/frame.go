// Package frame defines the frame configuration: the six parameters that
// fully describe one synthetic image's spatial and lighting setup, plus the
// resolution of those parameters into a concrete camera/object/light
// placement for the external scene-setup layer and keypoint projection.
package frame

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/banshee-data/synthset/internal/faults"
	"github.com/banshee-data/synthset/internal/geom"
)

// DefaultDistance is the camera distance used when a frame does not specify
// one, in scene units.
const DefaultDistance = 100

// Offset is the 2D translational offset of the object from the center of the
// picture, expressed as fractions of the image extent: for H, 0 is the left
// edge, 0.5 the center, 1 the right edge; for V, 0 is the top edge and 1 the
// bottom.
type Offset struct {
	V float64
	H float64
}

// Centered is the offset that puts the object in the middle of the image.
var Centered = Offset{V: 0.5, H: 0.5}

// MarshalJSON encodes the offset as a [v, h] pair.
func (o Offset) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{o.V, o.H})
}

// UnmarshalJSON decodes a [v, h] pair.
func (o *Offset) UnmarshalJSON(data []byte) error {
	var p [2]float64
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	o.V, o.H = p[0], p[1]
	return nil
}

// Frame holds the six parameters that independently define one image:
//
//   - Position: absolute 3D position of the object in the world.
//   - Distance: camera distance from the object.
//   - Pose: object orientation relative to the camera (how it appears in the
//     picture).
//   - Lighting: sun direction relative to the camera; identity means light
//     from directly behind the camera.
//   - Offset: where in the picture the object sits.
//   - Background: orientation of the camera->object ray in world coordinates,
//     which selects what part of the scene shows up behind the object and
//     which way is up.
//
// A Frame is constructed once by a sequence generator (or directly by a
// caller) and never mutated afterwards; it is the sole serializable contract
// passed to the renderer and stored next to each image as its label.
type Frame struct {
	Position   geom.Vec3     `json:"position"`
	Distance   float64       `json:"distance"`
	Pose       geom.Rotation `json:"pose"`
	Lighting   geom.Rotation `json:"lighting"`
	Offset     Offset        `json:"offset"`
	Background geom.Rotation `json:"background"`
}

// Default returns a frame with the canonical defaults: object at the origin,
// camera at DefaultDistance, identity rotations, object centered.
func Default() Frame {
	return Frame{
		Distance:   DefaultDistance,
		Pose:       geom.Identity(),
		Lighting:   geom.Identity(),
		Offset:     Centered,
		Background: geom.Identity(),
	}
}

// Validate checks the frame invariants: all rotations well-formed, distance
// strictly positive, position and offset finite. Violations are reported as
// faults.ErrGeometry or faults.ErrConfiguration, never repaired silently.
func (f Frame) Validate() error {
	if !f.Pose.IsValid() {
		return fmt.Errorf("%w: frame pose is not a valid rotation", faults.ErrGeometry)
	}
	if !f.Lighting.IsValid() {
		return fmt.Errorf("%w: frame lighting is not a valid rotation", faults.ErrGeometry)
	}
	if !f.Background.IsValid() {
		return fmt.Errorf("%w: frame background is not a valid rotation", faults.ErrGeometry)
	}
	if math.IsNaN(f.Distance) || f.Distance <= 0 {
		return fmt.Errorf("%w: frame distance must be strictly positive, got %g", faults.ErrConfiguration, f.Distance)
	}
	if !finite(f.Position.X) || !finite(f.Position.Y) || !finite(f.Position.Z) {
		return fmt.Errorf("%w: frame position has non-finite components", faults.ErrGeometry)
	}
	if !finite(f.Offset.V) || !finite(f.Offset.H) {
		return fmt.Errorf("%w: frame offset has non-finite components", faults.ErrGeometry)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type frameJSON struct {
	Position [3]float64    `json:"position"`
	Distance float64       `json:"distance"`
	Pose     geom.Rotation `json:"pose"`
	Lighting geom.Rotation `json:"lighting"`
	Offset   Offset        `json:"offset"`
	// Background serialized in wxyz quaternion form like the other rotations.
	Background  geom.Rotation `json:"background"`
	Translation *[3]float64   `json:"translation,omitempty"`
}

// MarshalJSON encodes the frame with vectors as 3-element arrays and
// rotations as wxyz quadruples, one object per frame.
func (f Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(frameJSON{
		Position:   [3]float64{f.Position.X, f.Position.Y, f.Position.Z},
		Distance:   f.Distance,
		Pose:       f.Pose,
		Lighting:   f.Lighting,
		Offset:     f.Offset,
		Background: f.Background,
	})
}

// UnmarshalJSON decodes and validates a frame, so a corrupted label sidecar
// fails at load time rather than at render time.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var j frameJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	out := Frame{
		Position:   geom.Vec3{X: j.Position[0], Y: j.Position[1], Z: j.Position[2]},
		Distance:   j.Distance,
		Pose:       j.Pose,
		Lighting:   j.Lighting,
		Offset:     j.Offset,
		Background: j.Background,
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*f = out
	return nil
}

// ApproxEqual reports whether two frames describe the same setup within tol
// on every field, treating q and -q rotations as equal.
func (f Frame) ApproxEqual(o Frame, tol float64) bool {
	return math.Abs(f.Position.X-o.Position.X) < tol &&
		math.Abs(f.Position.Y-o.Position.Y) < tol &&
		math.Abs(f.Position.Z-o.Position.Z) < tol &&
		math.Abs(f.Distance-o.Distance) < tol &&
		math.Abs(f.Offset.V-o.Offset.V) < tol &&
		math.Abs(f.Offset.H-o.Offset.H) < tol &&
		f.Pose.ApproxEqual(o.Pose, tol) &&
		f.Lighting.ApproxEqual(o.Lighting, tol) &&
		f.Background.ApproxEqual(o.Background, tol)
}
