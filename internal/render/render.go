// Package render draws the multi-panel comparison charts, one panel per
// palette, and encodes them as PNG.
package render

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/config"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/palette"
)

// ErrNoPalettes is returned when a chart is requested with an empty palette list.
var ErrNoPalettes = errors.New("no palettes to render")

// ErrNoData is returned when a chart has nothing to plot.
var ErrNoData = errors.New("no data to plot")

// Options are the rendering settings shared by every chart.
type Options struct {
	DPI       int
	TitleSize vg.Length
	LabelSize vg.Length
	AnnotSize vg.Length
}

// NewOptions derives rendering options from run settings.
func NewOptions(s config.Settings) Options {
	return Options{
		DPI:       s.DPI,
		TitleSize: vg.Points(s.TitleFontSize),
		LabelSize: vg.Points(s.LabelFontSize),
		AnnotSize: vg.Points(s.AnnotFontSize),
	}
}

func (o Options) withDefaults() Options {
	d := NewOptions(config.Defaults())
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	if o.TitleSize <= 0 {
		o.TitleSize = d.TitleSize
	}
	if o.LabelSize <= 0 {
		o.LabelSize = d.LabelSize
	}
	if o.AnnotSize <= 0 {
		o.AnnotSize = d.AnnotSize
	}
	return o
}

// panelTitle is "<prefix> - <palette name>".
func panelTitle(prefix string, p palette.Palette) string {
	if prefix == "" {
		return p.Name
	}
	return fmt.Sprintf("%s - %s", prefix, p.Name)
}

// newPlot returns a plot with the configured font sizes applied.
func (o Options) newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = o.TitleSize
	p.Title.Padding = vg.Points(6)
	p.X.Label.TextStyle.Font.Size = o.LabelSize
	p.Y.Label.TextStyle.Font.Size = o.LabelSize
	p.X.Tick.Label.Font.Size = o.LabelSize - 1
	p.Y.Tick.Label.Font.Size = o.LabelSize - 1
	return p
}

// figure is a PNG canvas split into equal tiles.
type figure struct {
	img   *vgimg.Canvas
	dc    draw.Canvas
	tiles draw.Tiles
}

func (o Options) newFigure(w, h vg.Length, rows, cols int) *figure {
	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(o.DPI))
	return &figure{
		img: img,
		dc:  draw.New(img),
		tiles: draw.Tiles{
			Rows:      rows,
			Cols:      cols,
			PadX:      vg.Millimeter * 6,
			PadY:      vg.Millimeter * 6,
			PadTop:    vg.Millimeter * 3,
			PadBottom: vg.Millimeter * 3,
			PadLeft:   vg.Millimeter * 3,
			PadRight:  vg.Millimeter * 3,
		},
	}
}

// at returns the canvas of tile (col, row), row 0 at the top.
func (f *figure) at(col, row int) draw.Canvas {
	return f.tiles.At(f.dc, col, row)
}

// align draws a grid of plots with shared axis alignment. Nil entries leave
// their tile empty.
func (f *figure) align(plots [][]*plot.Plot) {
	canvases := plot.Align(plots, f.tiles, f.dc)
	for r := range plots {
		for c, p := range plots[r] {
			if p != nil {
				p.Draw(canvases[r][c])
			}
		}
	}
}

// png returns the encoder for the finished figure.
func (f *figure) png() io.WriterTo {
	return vgimg.PngCanvas{Canvas: f.img}
}

// gridShape lays n panels out in two columns, or one column for a single panel.
func gridShape(n int) (rows, cols int) {
	if n <= 1 {
		return 1, 1
	}
	return (n + 1) / 2, 2
}

// splitColorBar carves a color bar strip off the right edge of c.
func splitColorBar(c draw.Canvas) (main, bar draw.Canvas) {
	width := c.Max.X - c.Min.X
	barW := width * 0.16
	main = draw.Crop(c, 0, -barW, 0, 0)
	// leave room for the panel title above and the x axis below
	bar = draw.Crop(c, width-barW+vg.Millimeter*2, 0, vg.Millimeter*12, -vg.Millimeter*14)
	return main, bar
}
