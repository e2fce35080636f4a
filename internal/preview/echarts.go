// Package preview renders bake previews of a sequence: cheap visual
// summaries of the camera path and parameter sweep, so a generation recipe
// can be sanity-checked before any render time is spent on it.
package preview

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/synthset/internal/frame"
	"github.com/banshee-data/synthset/internal/sequence"
)

// PathHTML writes an interactive chart of the baked sequence's camera path
// to w: camera positions projected to the world XY plane, colored by frame
// index. num caps the bake size (see Sequence.Bake).
func PathHTML(seq *sequence.Sequence, in frame.Intrinsics, num int, w io.Writer) error {
	baked := seq.Bake(num)
	if baked.Len() == 0 {
		return fmt.Errorf("cannot preview an empty sequence")
	}

	data := make([]opts.ScatterData, 0, baked.Len())
	maxAbs := 0.0
	for i := 0; i < baked.Len(); i++ {
		placement, err := frame.Resolve(baked.At(i), in)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		p := placement.CameraPosition
		for _, v := range []float64{p.X, p.Y} {
			if v > maxAbs {
				maxAbs = v
			}
			if -v > maxAbs {
				maxAbs = -v
			}
		}
		data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y, i}})
	}

	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Sequence Bake Preview", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Camera Path (world XY)", Subtitle: fmt.Sprintf("frames=%d baked=%d", seq.Len(), baked.Len())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(baked.Len() - 1),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#31688e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("camera", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))

	return scatter.Render(w)
}
