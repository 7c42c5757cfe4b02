package project

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Render_heatmap writes an HTML heat map of the probed mesh. Unprobed
// points are left out.
func (self *LevelingContext) Render_heatmap(w io.Writer) error {
	mesh := self.strategy.Mesh()
	geom := self.probeGeometry()
	px, py := mesh.Points()

	xLabels := make([]string, px)
	for x := range xLabels {
		xLabels[x] = strconv.FormatFloat(geom.Mesh_index_to_pos(x, X_AXIS), 'f', 1, 64)
	}
	yLabels := make([]string, py)
	for y := range yLabels {
		yLabels[y] = strconv.FormatFloat(geom.Mesh_index_to_pos(y, Y_AXIS), 'f', 1, 64)
	}

	data := make([]opts.HeatMapData, 0, px*py)
	for x := 0; x < px; x++ {
		for y := 0; y < py; y++ {
			z, ok := mesh.Lookup(x, y)
			if !ok {
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{x, y, z}})
		}
	}
	lo, hi, ok := mesh.Z_range()
	if !ok || lo == hi {
		lo, hi = lo-0.1, hi+0.1
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Bed Mesh", Width: "900px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Bed Mesh",
			Subtitle: fmt.Sprintf("%s %dx%d, %d probed", self.strategy.Kind(), px, py, mesh.Valid_count()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: xLabels, Name: "X (mm)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: yLabels, Name: "Y (mm)", NameLocation: "middle", NameGap: 35}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: []string{"#313695", "#4575b4", "#abd9e9", "#ffffbf", "#fdae61", "#f46d43", "#a50026"}},
		}),
	)
	hm.AddSeries("z", data)
	return hm.Render(w)
}
