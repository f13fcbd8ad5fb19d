package palette

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// GrayscaleSamples is the resolution used when a palette is converted to gray.
const GrayscaleSamples = 256

// Luminance returns 0.299R + 0.587G + 0.114B with channels in [0, 1].
func Luminance(c color.Color) float64 {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		// fully transparent
		return 0
	}
	return 0.299*cf.R + 0.587*cf.G + 0.114*cf.B
}

// Grayscale returns the palette with every color replaced by its luminance.
func Grayscale(p Palette) Palette {
	return Palette{
		ID:   p.ID + "_gray",
		Name: p.Name + " (grayscale)",
		ramp: func(t float64) colorful.Color {
			l := Luminance(p.colorAt(t))
			return colorful.Color{R: l, G: l, B: l}
		},
	}
}

// Luminances samples the luminance profile of p at n evenly spaced points.
func Luminances(p Palette, n int) []float64 {
	out := make([]float64, 0, n)
	for _, t := range Linspace(n) {
		out = append(out, Luminance(p.At(t)))
	}
	return out
}
