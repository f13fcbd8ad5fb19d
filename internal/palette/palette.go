// Package palette holds the ordered colormap set compared by the charts and
// the luminance-based grayscale conversion.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
	gpalette "gonum.org/v1/plot/palette"
)

// ErrUnknownPalette is returned by Resolve for an identifier with no ramp.
var ErrUnknownPalette = errors.New("unknown palette")

// DefaultIDs is the palette order used when none is configured.
var DefaultIDs = []string{"rainbow", "batlow", "lapaz", "bamako"}

var displayNames = map[string]string{
	"rainbow": "Rainbow",
	"batlow":  "Batlow",
	"lapaz":   "Lapaz",
	"bamako":  "Bamako",
}

// Palette is a continuous colormap over [0, 1].
type Palette struct {
	ID   string
	Name string
	ramp func(t float64) colorful.Color
}

// At returns the color at position t. t is clamped to [0, 1].
func (p Palette) At(t float64) color.Color {
	return p.colorAt(t)
}

func (p Palette) colorAt(t float64) colorful.Color {
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Max(0, math.Min(1, t))
	return p.ramp(t).Clamped()
}

// Sample returns n colors evenly spaced from 0 to 1 inclusive.
func (p Palette) Sample(n int) []color.Color {
	out := make([]color.Color, 0, n)
	for _, t := range Linspace(n) {
		out = append(out, p.At(t))
	}
	return out
}

// Discrete returns an n-step gonum palette for heatmaps.
func (p Palette) Discrete(n int) gpalette.Palette {
	return discrete(p.Sample(n))
}

type discrete []color.Color

func (d discrete) Colors() []color.Color { return d }

// Linspace returns n evenly spaced positions in [0, 1]. A single position is 0.
func Linspace(n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{0}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

// Lookup returns the palette registered under id.
func Lookup(id string) (Palette, bool) {
	key := strings.ToLower(strings.TrimSpace(id))
	r, ok := ramps[key]
	if !ok {
		return Palette{}, false
	}
	return Palette{ID: key, Name: DisplayName(key), ramp: r}, true
}

// Resolve maps identifiers to palettes, keeping their order.
func Resolve(ids []string) ([]Palette, error) {
	out := make([]Palette, 0, len(ids))
	for _, id := range ids {
		p, ok := Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPalette, id, strings.Join(Known(), ", "))
		}
		out = append(out, p)
	}
	return out, nil
}

// Known lists registered identifiers, default palettes first.
func Known() []string {
	return append([]string(nil), DefaultIDs...)
}

// DisplayName is the title-case name shown in chart titles.
func DisplayName(id string) string {
	if n, ok := displayNames[id]; ok {
		return n
	}
	if id == "" {
		return id
	}
	r := []rune(id)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
