package render

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/dataset"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/palette"
)

// ScatterData holds paired observations. Points are colored by their X value.
type ScatterData struct {
	Title      string
	XLabel     string
	YLabel     string
	ColorLabel string
	Points     []dataset.Pair
}

const pointRadius = 4

// Scatter draws one scatter plot per palette in a two-column grid, each with
// a color bar for the X value.
func Scatter(data ScatterData, pals []palette.Palette, opt Options) (io.WriterTo, error) {
	if len(pals) == 0 {
		return nil, ErrNoPalettes
	}
	if len(data.Points) == 0 {
		return nil, ErrNoData
	}
	opt = opt.withDefaults()
	rows, cols := gridShape(len(pals))
	fig := opt.newFigure(8*vg.Inch*vg.Length(cols), 6.5*vg.Inch*vg.Length(rows), rows, cols)

	xys := make(plotter.XYs, len(data.Points))
	lo, hi := data.Points[0].X, data.Points[0].X
	for i, pt := range data.Points {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		lo = min(lo, pt.X)
		hi = max(hi, pt.X)
	}
	if hi == lo {
		hi = lo + 1
	}

	for i, pal := range pals {
		cm := pal.ColorMap(lo, hi)
		cm.SetAlpha(0.8)
		p, err := opt.scatterPlot(data, xys, pal, cm)
		if err != nil {
			return nil, fmt.Errorf("scatter %s: %w", pal.ID, err)
		}
		main, bar := splitColorBar(fig.at(i%cols, i/cols))
		p.Draw(main)
		opt.colorBar(cm, data.ColorLabel).Draw(bar)
	}
	return fig.png(), nil
}

func (o Options) scatterPlot(data ScatterData, xys plotter.XYs, pal palette.Palette, cm *palette.ColorMap) (*plot.Plot, error) {
	p := o.newPlot(panelTitle(data.Title, pal))
	p.X.Label.Text = data.XLabel
	p.Y.Label.Text = data.YLabel

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
	p.Add(grid)

	fill, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	fill.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		c, err := cm.At(xys[i].X)
		if err != nil {
			c = color.Transparent
		}
		return draw.GlyphStyle{Color: c, Radius: vg.Points(pointRadius), Shape: draw.CircleGlyph{}}
	}
	edge, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	edge.GlyphStyle = draw.GlyphStyle{Color: color.Black, Radius: vg.Points(pointRadius), Shape: draw.RingGlyph{}}
	p.Add(fill, edge)
	return p, nil
}

// colorBar is a vertical legend for cm with its value axis on the left.
func (o Options) colorBar(cm *palette.ColorMap, label string) *plot.Plot {
	p := o.newPlot("")
	p.HideX()
	p.Y.Label.Text = label
	p.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true, Colors: 256})
	return p
}
