package keypoint

import (
	"errors"
	"testing"

	"github.com/banshee-data/synthset/internal/faults"
	"github.com/banshee-data/synthset/internal/geom"
)

// cubeMesh is the unit cube's eight corners with two faces, enough structure
// for sampling tests.
func cubeMesh() *Mesh {
	return &Mesh{
		Vertices: []float64{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			1, 1, 0,
			0, 0, 1,
			1, 0, 1,
			0, 1, 1,
			1, 1, 1,
		},
		Faces: []int32{0, 1, 2, 1, 3, 2},
	}
}

func TestGenerateDeterministic(t *testing.T) {
	m := cubeMesh()
	a, err := Generate(m, 4, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(m, 4, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at point %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGenerateStartsAtSeedVertex(t *testing.T) {
	m := cubeMesh()
	pts, err := Generate(m, 1, 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if pts[0] != m.Vertex(3) {
		t.Fatalf("first point %v, want vertex 3 %v", pts[0], m.Vertex(3))
	}
	// The seed wraps around the vertex count.
	pts, err = Generate(m, 1, 11)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if pts[0] != m.Vertex(3) {
		t.Fatalf("wrapped seed picked %v, want vertex 3", pts[0])
	}
}

func TestGenerateSecondPointFarthest(t *testing.T) {
	m := cubeMesh()
	pts, err := Generate(m, 2, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// From corner (0,0,0) the farthest cube corner is (1,1,1).
	if pts[1] != (geom.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Fatalf("second point %v, want opposite corner", pts[1])
	}
}

func TestGenerateNoDuplicates(t *testing.T) {
	m := cubeMesh()
	pts, err := Generate(m, 8, 2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	seen := make(map[geom.Vec3]bool)
	for _, p := range pts {
		if seen[p] {
			t.Fatalf("point %v selected twice", p)
		}
		seen[p] = true
	}
}

func TestGenerateErrors(t *testing.T) {
	m := cubeMesh()
	if _, err := Generate(m, 0, 0); !errors.Is(err, faults.ErrConfiguration) {
		t.Errorf("zero count: %v", err)
	}
	if _, err := Generate(m, 9, 0); !errors.Is(err, faults.ErrConfiguration) {
		t.Errorf("count above vertex count: %v", err)
	}
	if _, err := Generate(m, 1, -1); !errors.Is(err, faults.ErrConfiguration) {
		t.Errorf("negative seed: %v", err)
	}
	if _, err := Generate(&Mesh{}, 1, 0); !errors.Is(err, faults.ErrData) {
		t.Errorf("empty mesh: %v", err)
	}
}

func TestMeshValidate(t *testing.T) {
	if err := cubeMesh().Validate(); err != nil {
		t.Fatalf("cube mesh should validate: %v", err)
	}
	bad := &Mesh{Vertices: []float64{0, 0}}
	if err := bad.Validate(); !errors.Is(err, faults.ErrData) {
		t.Errorf("truncated vertex array: %v", err)
	}
	oob := &Mesh{Vertices: []float64{0, 0, 0}, Faces: []int32{0, 1, 2}}
	if err := oob.Validate(); !errors.Is(err, faults.ErrData) {
		t.Errorf("out-of-range face index: %v", err)
	}
}
