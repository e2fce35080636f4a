// Package keypoint samples evenly distributed 3D points from a mesh surface
// and projects them into image coordinates for a given frame configuration.
package keypoint

import (
	"fmt"

	"github.com/banshee-data/synthset/internal/faults"
	"github.com/banshee-data/synthset/internal/geom"
)

// Mesh is a triangle mesh in object-local coordinates with flat arrays:
// Vertices holds 3 floats per vertex (x, y, z), Faces 3 vertex indices per
// triangle. No specific file format is assumed; loaders live outside the
// core.
type Mesh struct {
	Vertices []float64
	Faces    []int32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces) / 3
}

// Vertex returns vertex i as a vector.
func (m *Mesh) Vertex(i int) geom.Vec3 {
	return geom.Vec3{X: m.Vertices[3*i], Y: m.Vertices[3*i+1], Z: m.Vertices[3*i+2]}
}

// Validate reports faults.ErrData for an empty or structurally broken mesh.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("%w: mesh has no vertices", faults.ErrData)
	}
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("%w: mesh vertex array length %d is not a multiple of 3", faults.ErrData, len(m.Vertices))
	}
	if len(m.Faces)%3 != 0 {
		return fmt.Errorf("%w: mesh face array length %d is not a multiple of 3", faults.ErrData, len(m.Faces))
	}
	n := int32(m.VertexCount())
	for i, idx := range m.Faces {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: face index %d at position %d out of range [0, %d)", faults.ErrData, idx, i, n)
		}
	}
	return nil
}
