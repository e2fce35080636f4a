package keypoint

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/synthset/internal/faults"
	"github.com/banshee-data/synthset/internal/geom"
)

// Generate selects k evenly distributed keypoints from the mesh surface by
// farthest-point sampling over the vertex set: starting from the seed
// vertex, each step picks the vertex maximizing the minimum Euclidean
// distance to the points already chosen. The selection order is itself
// useful: for any n <= k the first n points are also well spread.
//
// The result is fully deterministic for a fixed mesh and seed (ties resolve
// to the lowest vertex index). Requesting more points than the mesh has
// vertices is a configuration error: a discrete point set cannot be
// oversampled without duplicates.
//
// The scan is O(k * V). For the mesh sizes rendered here that is cheap; a
// spatial index would change the constant, not the output.
func Generate(mesh *Mesh, k int, seed int) ([]geom.Vec3, error) {
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	n := mesh.VertexCount()
	if k <= 0 {
		return nil, fmt.Errorf("%w: keypoint count must be positive, got %d", faults.ErrConfiguration, k)
	}
	if k > n {
		return nil, fmt.Errorf("%w: requested %d keypoints but mesh has only %d vertices", faults.ErrConfiguration, k, n)
	}
	if seed < 0 {
		return nil, fmt.Errorf("%w: seed vertex must be non-negative, got %d", faults.ErrConfiguration, seed)
	}

	start := seed % n
	selected := make([]geom.Vec3, 0, k)
	selected = append(selected, mesh.Vertex(start))

	// minDist[i] tracks the distance from vertex i to the nearest selected
	// point; each new selection only needs one pass to refresh it.
	minDist := make([]float64, n)
	for i := range minDist {
		minDist[i] = dist(mesh.Vertex(i), selected[0])
	}
	minDist[start] = 0

	for len(selected) < k {
		best := -1
		bestDist := -1.0
		for i, d := range minDist {
			if d > bestDist {
				best = i
				bestDist = d
			}
		}
		p := mesh.Vertex(best)
		selected = append(selected, p)
		minDist[best] = 0
		for i := range minDist {
			if d := dist(mesh.Vertex(i), p); d < minDist[i] {
				minDist[i] = d
			}
		}
	}
	return selected, nil
}

func dist(a, b geom.Vec3) float64 {
	return r3.Norm(r3.Sub(a, b))
}
