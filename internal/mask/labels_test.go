package mask

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBoundingBoxes(t *testing.T) {
	m := grid(t, defaultLegend(),
		"....",
		".rr.",
		".rg.",
		"....",
	)
	labels := LabelMap{
		"rover":  {red},
		"lander": {green},
		"ghost":  {blue},
	}
	got := BoundingBoxes(m, labels)
	want := map[string]Box{
		"rover":  {YMin: 1, YMax: 2, XMin: 1, XMax: 2},
		"lander": {YMin: 2, YMax: 2, XMin: 2, XMax: 2},
		// ghost has no pixels and must be omitted, not boxed.
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bounding boxes mismatch (-want +got):\n%s", diff)
	}
}

func TestBoundingBoxesMultiColorClass(t *testing.T) {
	m := grid(t, defaultLegend(),
		"r..",
		"...",
		"..g",
	)
	got := BoundingBoxes(m, LabelMap{"craft": {red, green}})
	want := map[string]Box{"craft": {YMin: 0, YMax: 2, XMin: 0, XMax: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("multi-color box mismatch (-want +got):\n%s", diff)
	}
}

func TestCentroids(t *testing.T) {
	m := grid(t, defaultLegend(),
		"rr..",
		"rr..",
		"....",
	)
	got := Centroids(m, LabelMap{"rover": {red}, "ghost": {blue}})
	want := map[string]Centroid{"rover": {Row: 0.5, Col: 0.5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("centroids mismatch (-want +got):\n%s", diff)
	}
}

func TestCentroidsSeparatedBlobsAverage(t *testing.T) {
	// The per-class centroid averages over all pixels of the class, even when
	// they form disjoint blobs.
	m := grid(t, defaultLegend(),
		"r..r",
	)
	cents := Centroids(m, LabelMap{"rover": {red}})
	if got := cents["rover"]; got.Row != 0 || got.Col != 1.5 {
		t.Fatalf("centroid (%g, %g), want (0, 1.5)", got.Row, got.Col)
	}
}
