package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/correlation"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/palette"
)

// HeatmapData is an annotated correlation matrix and its color-scale bounds.
type HeatmapData struct {
	Title  string
	Matrix correlation.Matrix
	Bounds correlation.Bounds
}

// rotateAbove is the matrix size past which tick labels are slanted.
const rotateAbove = 5

var nanColor = color.White

// matrixGrid adapts a correlation matrix to plotter.GridXYZ with row 0 on
// top. Values are clamped to the bounds so out-of-range cells take the end
// colors.
type matrixGrid struct {
	m correlation.Matrix
	b correlation.Bounds
}

func (g matrixGrid) Dims() (c, r int)   { return g.m.Size(), g.m.Size() }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }
func (g matrixGrid) Min() float64       { return g.b.Min }
func (g matrixGrid) Max() float64       { return g.b.Max }
func (g matrixGrid) row(r int) int      { return g.m.Size() - 1 - r }
func (g matrixGrid) label(r int) string { return g.m.Labels[g.row(r)] }

func (g matrixGrid) Z(c, r int) float64 {
	v := g.m.At(g.row(r), c)
	if math.IsNaN(v) {
		return v
	}
	return math.Max(g.b.Min, math.Min(g.b.Max, v))
}

// Heatmaps draws the matrix once per palette in a two-column grid, each cell
// annotated with its value to two decimals.
func Heatmaps(data HeatmapData, pals []palette.Palette, opt Options) (io.WriterTo, error) {
	if len(pals) == 0 {
		return nil, ErrNoPalettes
	}
	if data.Matrix.Empty() {
		return nil, ErrNoData
	}
	if !(data.Bounds.Min < data.Bounds.Max) {
		return nil, fmt.Errorf("heatmap bounds [%g, %g] are empty", data.Bounds.Min, data.Bounds.Max)
	}
	opt = opt.withDefaults()
	rows, cols := gridShape(len(pals))
	fig := opt.newFigure(8.5*vg.Inch*vg.Length(cols), 7.5*vg.Inch*vg.Length(rows), rows, cols)
	g := matrixGrid{m: data.Matrix, b: data.Bounds}

	for i, pal := range pals {
		cm := pal.ColorMap(data.Bounds.Min, data.Bounds.Max)
		p, err := opt.heatmapPlot(data.Title, g, pal, cm)
		if err != nil {
			return nil, fmt.Errorf("heatmap %s: %w", pal.ID, err)
		}
		main, bar := splitColorBar(fig.at(i%cols, i/cols))
		p.Draw(main)
		opt.colorBar(cm, "").Draw(bar)
	}
	return fig.png(), nil
}

func (o Options) heatmapPlot(title string, g matrixGrid, pal palette.Palette, cm *palette.ColorMap) (*plot.Plot, error) {
	p := o.newPlot(panelTitle(title, pal))
	p.Title.Padding = vg.Points(15)

	h := plotter.NewHeatMap(g, cm.Palette(256))
	h.Min, h.Max = g.b.Min, g.b.Max
	h.NaN = nanColor
	p.Add(h)

	labels, err := o.annotations(g, cm)
	if err != nil {
		return nil, err
	}
	p.Add(labels)

	n := g.m.Size()
	xt := make([]plot.Tick, n)
	yt := make([]plot.Tick, n)
	for i := 0; i < n; i++ {
		xt[i] = plot.Tick{Value: float64(i), Label: g.m.Labels[i]}
		yt[i] = plot.Tick{Value: float64(i), Label: g.label(i)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xt)
	p.Y.Tick.Marker = plot.ConstantTicks(yt)
	p.X.Min, p.X.Max = -0.5, float64(n)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(n)-0.5
	if n > rotateAbove {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return p, nil
}

// annotations writes "%.2f" in every finite cell, in white on dark cells.
func (o Options) annotations(g matrixGrid, cm *palette.ColorMap) (*plotter.Labels, error) {
	var xys plotter.XYs
	var texts []string
	var colors []color.Color
	c, r := g.Dims()
	for i := 0; i < c; i++ {
		for j := 0; j < r; j++ {
			raw := g.m.At(g.row(j), i)
			if math.IsNaN(raw) {
				continue
			}
			xys = append(xys, plotter.XY{X: g.X(i), Y: g.Y(j)})
			texts = append(texts, fmt.Sprintf("%.2f", raw))
			cell, err := cm.At(g.Z(i, j))
			if err != nil || palette.Luminance(cell) < 0.5 {
				colors = append(colors, color.White)
			} else {
				colors = append(colors, color.Black)
			}
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = o.AnnotSize
		labels.TextStyle[i].Color = colors[i]
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	return labels, nil
}
