package keypoint

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/synthset/internal/frame"
	"github.com/banshee-data/synthset/internal/geom"
)

// Keypoint2D is a projected keypoint in pixel coordinates. Row grows
// downward and Col rightward, with (0, 0) the top-left image corner.
type Keypoint2D struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`

	// Depth is the distance along the camera's viewing direction, positive
	// in front of the camera.
	Depth float64 `json:"depth"`

	// InFrame is true only when the point is in front of the camera and its
	// projection lands inside [0, width) x [0, height). Points behind the
	// camera are never reported as visible, whatever their projected
	// coordinates.
	InFrame bool `json:"in_frame"`
}

// Project transforms object-local keypoints to pixel coordinates for the
// given frame using a pinhole model: object space -> world via the frame's
// pose and position, world -> camera via the resolved camera placement, then
// perspective division against the camera's field of view.
func Project(points []geom.Vec3, f frame.Frame, in frame.Intrinsics) ([]Keypoint2D, error) {
	placement, err := frame.Resolve(f, in)
	if err != nil {
		return nil, err
	}

	camInv := placement.CameraRotation.Inverse()
	extX, extY := math.Tan(in.FOVYDeg*math.Pi/180/2)*in.Aspect(), math.Tan(in.FOVYDeg*math.Pi/180/2)
	w, h := float64(in.Width), float64(in.Height)

	out := make([]Keypoint2D, len(points))
	for i, p := range points {
		world := r3.Add(f.Position, placement.ObjectRotation.Rotate(p))
		cam := camInv.Rotate(r3.Sub(world, placement.CameraPosition))

		// The camera looks down its -Z axis; +X right, +Y up.
		depth := -cam.Z
		kp := Keypoint2D{Depth: depth}
		if depth > 0 {
			ndcX := cam.X / depth / extX
			ndcY := cam.Y / depth / extY
			kp.Col = (ndcX + 1) / 2 * w
			kp.Row = (1 - (ndcY+1)/2) * h
			kp.InFrame = kp.Col >= 0 && kp.Col < w && kp.Row >= 0 && kp.Row < h
		} else {
			// Projection is undefined behind the camera; NaN coordinates
			// make any accidental use obvious downstream.
			kp.Col = math.NaN()
			kp.Row = math.NaN()
		}
		out[i] = kp
	}
	return out, nil
}
