package render

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/dataset"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/palette"
)

// BarData is a ranked list of countries drawn as horizontal bars, first entry
// at the top.
type BarData struct {
	Title  string
	XLabel string
	Bars   []dataset.Entry
	// XMin and XMax fix the value axis. Equal values let the axis autoscale.
	XMin, XMax float64
}

var barEdge = color.Gray{Y: 128}

// Bars draws one horizontal bar chart per palette, stacked vertically. Bar i
// takes the palette color at i/(n-1).
func Bars(data BarData, pals []palette.Palette, opt Options) (io.WriterTo, error) {
	if len(pals) == 0 {
		return nil, ErrNoPalettes
	}
	if len(data.Bars) == 0 {
		return nil, ErrNoData
	}
	opt = opt.withDefaults()
	n := len(pals)
	panelH := 5 * vg.Inch
	fig := opt.newFigure(14*vg.Inch, panelH*vg.Length(n), n, 1)
	width := barWidth(panelH, len(data.Bars))

	plots := make([][]*plot.Plot, n)
	for i, pal := range pals {
		p, err := opt.barPlot(data, pal, width)
		if err != nil {
			return nil, fmt.Errorf("bars %s: %w", pal.ID, err)
		}
		plots[i] = []*plot.Plot{p}
	}
	fig.align(plots)
	return fig.png(), nil
}

// barWidth spreads bars over roughly 70% of the panel's data area.
func barWidth(panelH vg.Length, n int) vg.Length {
	usable := panelH - vg.Inch
	w := usable * 0.7 / vg.Length(n)
	if w < vg.Points(1) {
		w = vg.Points(1)
	}
	return w
}

func (o Options) barPlot(data BarData, pal palette.Palette, width vg.Length) (*plot.Plot, error) {
	p := o.newPlot(panelTitle(data.Title, pal))
	p.X.Label.Text = data.XLabel

	grid := plotter.NewGrid()
	grid.Horizontal.Color = nil
	grid.Vertical.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
	p.Add(grid)

	n := len(data.Bars)
	colors := pal.Discrete(n).Colors()
	names := make([]string, n)
	for i, e := range data.Bars {
		b, err := plotter.NewBarChart(plotter.Values{e.Value}, width)
		if err != nil {
			return nil, err
		}
		b.Horizontal = true
		// first entry on the top row
		pos := n - 1 - i
		b.XMin = float64(pos)
		b.Color = colors[i]
		b.LineStyle.Color = barEdge
		b.LineStyle.Width = vg.Points(0.5)
		p.Add(b)
		names[pos] = e.Key.Entity
	}
	p.NominalY(names...)
	p.Y.Tick.Label.Font.Size = o.LabelSize - 1
	p.Y.Min, p.Y.Max = -0.5, float64(n)-0.5
	if data.XMax > data.XMin {
		p.X.Min, p.X.Max = data.XMin, data.XMax
	}
	return p, nil
}
