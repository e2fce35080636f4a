package preview

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/synthset/internal/frame"
	"github.com/banshee-data/synthset/internal/sequence"
)

// SavePlots writes static PNG previews of the baked sequence into outputDir:
// the camera path in the world XZ plane and the distance profile over frame
// index. Returns the written file paths.
func SavePlots(seq *sequence.Sequence, in frame.Intrinsics, num int, outputDir string) ([]string, error) {
	baked := seq.Bake(num)
	if baked.Len() == 0 {
		return nil, fmt.Errorf("cannot preview an empty sequence")
	}

	pathPts := make(plotter.XYs, baked.Len())
	distPts := make(plotter.XYs, baked.Len())
	for i := 0; i < baked.Len(); i++ {
		f := baked.At(i)
		placement, err := frame.Resolve(f, in)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		pathPts[i].X = placement.CameraPosition.X
		pathPts[i].Y = placement.CameraPosition.Z
		distPts[i].X = float64(i)
		distPts[i].Y = f.Distance
	}

	pPath := plot.New()
	pPath.Title.Text = "Camera Path (world XZ)"
	pPath.X.Label.Text = "X"
	pPath.Y.Label.Text = "Z"
	pathLine, err := plotter.NewLine(pathPts)
	if err != nil {
		return nil, fmt.Errorf("build path line: %w", err)
	}
	pPath.Add(pathLine, plotter.NewGrid())

	pDist := plot.New()
	pDist.Title.Text = "Camera Distance"
	pDist.X.Label.Text = "frame"
	pDist.Y.Label.Text = "distance"
	distLine, err := plotter.NewLine(distPts)
	if err != nil {
		return nil, fmt.Errorf("build distance line: %w", err)
	}
	pDist.Add(distLine, plotter.NewGrid())

	pathFile := filepath.Join(outputDir, "camera_path.png")
	distFile := filepath.Join(outputDir, "camera_distance.png")
	if err := pPath.Save(8*vg.Inch, 8*vg.Inch, pathFile); err != nil {
		return nil, fmt.Errorf("save camera path plot: %w", err)
	}
	if err := pDist.Save(10*vg.Inch, 4*vg.Inch, distFile); err != nil {
		return nil, fmt.Errorf("save distance plot: %w", err)
	}
	return []string{pathFile, distFile}, nil
}
