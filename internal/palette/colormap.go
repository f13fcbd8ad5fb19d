package palette

import (
	"image/color"
	"math"

	gpalette "gonum.org/v1/plot/palette"
)

// ColorMap maps values in [Min, Max] onto a Palette. It satisfies the
// gonum palette.ColorMap interface so it can drive heatmaps and color bars.
type ColorMap struct {
	p        Palette
	min, max float64
	alpha    float64
}

var _ gpalette.ColorMap = (*ColorMap)(nil)

// ColorMap returns a value mapping over [min, max] with full opacity.
func (p Palette) ColorMap(min, max float64) *ColorMap {
	return &ColorMap{p: p, min: min, max: max, alpha: 1}
}

// At returns the color for v. Values a rounding error outside the range are
// snapped to the nearest end.
func (c *ColorMap) At(v float64) (color.Color, error) {
	if math.IsNaN(v) {
		return nil, gpalette.ErrNaN
	}
	eps := 1e-9 * math.Max(1, math.Abs(c.max-c.min))
	switch {
	case v < c.min-eps:
		return nil, gpalette.ErrUnderflow
	case v > c.max+eps:
		return nil, gpalette.ErrOverflow
	}
	return c.withAlpha(c.p.At(c.Position(v))), nil
}

// Position returns where v falls in the range, clamped to [0, 1].
func (c *ColorMap) Position(v float64) float64 {
	if c.max == c.min {
		return 0
	}
	return math.Max(0, math.Min(1, (v-c.min)/(c.max-c.min)))
}

func (c *ColorMap) withAlpha(col color.Color) color.Color {
	if c.alpha >= 1 {
		return col
	}
	r, g, b, _ := col.RGBA()
	a := c.alpha
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(math.Round(a * 255))}
}

func (c *ColorMap) Max() float64       { return c.max }
func (c *ColorMap) Min() float64       { return c.min }
func (c *ColorMap) SetMax(v float64)   { c.max = v }
func (c *ColorMap) SetMin(v float64)   { c.min = v }
func (c *ColorMap) Alpha() float64     { return c.alpha }
func (c *ColorMap) SetAlpha(a float64) { c.alpha = math.Max(0, math.Min(1, a)) }

// Palette returns n colors evenly spaced over the palette.
func (c *ColorMap) Palette(n int) gpalette.Palette {
	cols := c.p.Sample(n)
	for i := range cols {
		cols[i] = c.withAlpha(cols[i])
	}
	return discrete(cols)
}
