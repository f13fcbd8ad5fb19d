package render

import (
	"image"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/palette"
)

// gradientSteps is the horizontal resolution of a gradient strip.
const gradientSteps = 256

var gradientTicks = plot.ConstantTicks([]plot.Tick{
	{Value: 0, Label: "0.0"},
	{Value: 0.25, Label: "0.25"},
	{Value: 0.5, Label: "0.5"},
	{Value: 0.75, Label: "0.75"},
	{Value: 1, Label: "1.0"},
})

// strip renders colors as a two-pixel-high image, left to right.
func strip(colors []color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, len(colors), 2))
	for x, c := range colors {
		img.Set(x, 0, c)
		img.Set(x, 1, c)
	}
	return img
}

func (o Options) gradientPlot(title string, colors []color.Color) *plot.Plot {
	p := o.newPlot(title)
	p.Add(plotter.NewImage(strip(colors), 0, 0, 1, 1))
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.HideY()
	return p
}

// Gradients draws one gradient strip per palette, stacked vertically, with
// ticks at 0, 0.25, 0.5, 0.75 and 1.
func Gradients(pals []palette.Palette, opt Options) (io.WriterTo, error) {
	if len(pals) == 0 {
		return nil, ErrNoPalettes
	}
	opt = opt.withDefaults()
	n := len(pals)
	fig := opt.newFigure(12*vg.Inch, vg.Length(2.5*float64(n))*vg.Inch, n, 1)
	plots := make([][]*plot.Plot, n)
	for i, pal := range pals {
		p := opt.gradientPlot(panelTitle("Color gradient", pal), pal.Sample(gradientSteps))
		p.X.Tick.Marker = gradientTicks
		plots[i] = []*plot.Plot{p}
	}
	fig.align(plots)
	return fig.png(), nil
}

// GrayscaleComparison draws each palette beside its luminance conversion.
func GrayscaleComparison(pals []palette.Palette, opt Options) (io.WriterTo, error) {
	if len(pals) == 0 {
		return nil, ErrNoPalettes
	}
	opt = opt.withDefaults()
	n := len(pals)
	fig := opt.newFigure(10*vg.Inch, vg.Length(3.5*float64(n))*vg.Inch, n, 2)
	small := opt
	small.TitleSize = opt.TitleSize - 1
	plots := make([][]*plot.Plot, n)
	for i, pal := range pals {
		gray := palette.Grayscale(pal)
		orig := small.gradientPlot(pal.Name, pal.Sample(palette.GrayscaleSamples))
		conv := small.gradientPlot(gray.Name, gray.Sample(palette.GrayscaleSamples))
		orig.HideX()
		conv.HideX()
		plots[i] = []*plot.Plot{orig, conv}
	}
	fig.align(plots)
	return fig.png(), nil
}
