package frame

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/synthset/internal/faults"
	"github.com/banshee-data/synthset/internal/geom"
)

// Intrinsics describes the pinhole camera used for offset correction and
// keypoint projection.
type Intrinsics struct {
	FOVYDeg float64 // vertical field of view, degrees
	Width   int     // image width, pixels
	Height  int     // image height, pixels
}

// DefaultIntrinsics matches the renderer's stock camera.
func DefaultIntrinsics() Intrinsics {
	return Intrinsics{FOVYDeg: 39.6, Width: 1024, Height: 1024}
}

// Validate reports faults.ErrConfiguration for an unusable camera.
func (in Intrinsics) Validate() error {
	if in.FOVYDeg <= 0 || in.FOVYDeg >= 180 {
		return fmt.Errorf("%w: vertical FOV must be in (0, 180) degrees, got %g", faults.ErrConfiguration, in.FOVYDeg)
	}
	if in.Width <= 0 || in.Height <= 0 {
		return fmt.Errorf("%w: image resolution must be positive, got %dx%d", faults.ErrConfiguration, in.Width, in.Height)
	}
	return nil
}

// Aspect returns width/height.
func (in Intrinsics) Aspect() float64 {
	return float64(in.Width) / float64(in.Height)
}

// halfExtents returns the tangents of the half field of view horizontally and
// vertically: the x and y extents of the view frustum at unit depth.
func (in Intrinsics) halfExtents() (x, y float64) {
	y = math.Tan(in.FOVYDeg * math.Pi / 180 / 2)
	return y * in.Aspect(), y
}

// Placement is a frame resolved into concrete world-space transforms: the
// values the scene-setup collaborator applies to the camera, light, and
// object handles, and the extrinsics used for keypoint projection.
type Placement struct {
	CameraPosition geom.Vec3
	CameraRotation geom.Rotation
	LightRotation  geom.Rotation
	ObjectRotation geom.Rotation

	// Translation is the object's position in the camera's reference frame,
	// in OpenCV axis convention, usable as the tvec for solvePnP-style
	// consumers.
	Translation geom.Vec3
}

// Resolve turns a frame's six parameters into a concrete placement.
//
// The camera sits at distance along the background direction from the object
// and is oriented by the background rotation composed with a small angular
// correction that moves the object away from the image center by the
// requested offset. The light and object orientations are both expressed
// relative to the resolved camera.
func Resolve(f Frame, in Intrinsics) (Placement, error) {
	if err := f.Validate(); err != nil {
		return Placement{}, err
	}
	if err := in.Validate(); err != nil {
		return Placement{}, err
	}

	bg := geom.SphericalFrom(f.Background)
	camPos := r3.Add(f.Position, r3.Scale(f.Distance, bg.Direction()))

	// Convert offset fractions to angular corrections using the view frustum
	// extents at unit depth.
	extX, extY := in.halfExtents()
	xAngle := math.Atan2((f.Offset.H-0.5)*2*extX, 1)
	yAngle := math.Atan2((f.Offset.V-0.5)*2*extY, 1)
	// Pitch then yaw, composed yaw-first to match an XYZ Euler with zero roll.
	yaw := mustAxisAngle(geom.Vec3{Y: 1}, xAngle)
	pitch := mustAxisAngle(geom.Vec3{X: 1}, yAngle)
	camRot := f.Background.Mul(yaw.Mul(pitch))

	lightRot := camRot.Mul(f.Lighting)

	// The camera looks down its -Z axis while pose is defined with the camera
	// looking down the object's +Z, so flip about X before applying the pose.
	flip := mustAxisAngle(geom.Vec3{X: 1}, math.Pi)
	objRot := camRot.Mul(flip).Mul(f.Pose)

	// Object position in the camera frame, x negated to land in the OpenCV
	// axis convention.
	tr := camRot.Inverse().Rotate(r3.Sub(camPos, f.Position))
	tr.X = -tr.X

	return Placement{
		CameraPosition: camPos,
		CameraRotation: camRot,
		LightRotation:  lightRot,
		ObjectRotation: objRot,
		Translation:    tr,
	}, nil
}

// mustAxisAngle wraps geom.AxisAngle for the fixed unit axes used here, where
// a zero-axis error cannot occur.
func mustAxisAngle(axis geom.Vec3, angle float64) geom.Rotation {
	r, err := geom.AxisAngle(axis, angle)
	if err != nil {
		panic(err)
	}
	return r
}
