package palette

import (
	_ "embed"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

//go:embed data/batlow.csv
var batlowCSV string

//go:embed data/lapaz.csv
var lapazCSV string

//go:embed data/bamako.csv
var bamakoCSV string

var ramps = map[string]func(float64) colorful.Color{
	"rainbow": rainbow,
	"batlow":  mustStops("batlow", batlowCSV).at,
	"lapaz":   mustStops("lapaz", lapazCSV).at,
	"bamako":  mustStops("bamako", bamakoCSV).at,
}

// rainbow is the analytic rainbow ramp: red |2t-0.5|, green sin(pi t),
// blue cos(pi t / 2).
func rainbow(t float64) colorful.Color {
	return colorful.Color{
		R: math.Abs(2*t - 0.5),
		G: math.Sin(math.Pi * t),
		B: math.Cos(math.Pi * t / 2),
	}
}

type stop struct {
	Col colorful.Color
	Pos float64
}

// stops is a keypoint ramp sorted by position.
type stops []stop

func (s stops) at(t float64) colorful.Color {
	for i := 0; i < len(s)-1; i++ {
		c1, c2 := s[i], s[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			if c2.Pos == c1.Pos {
				return c1.Col
			}
			return c1.Col.BlendLab(c2.Col, (t-c1.Pos)/(c2.Pos-c1.Pos))
		}
	}
	if t < s[0].Pos {
		return s[0].Col
	}
	return s[len(s)-1].Col
}

// parseStops reads "#rrggbb,position" lines.
func parseStops(csv string) (stops, error) {
	var out stops
	for n, line := range strings.Split(csv, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: want 2 fields, got %d", n+1, len(parts))
		}
		c, err := colorful.Hex(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		pos, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		out = append(out, stop{Col: c, Pos: pos})
	}
	if len(out) < 2 {
		return nil, fmt.Errorf("need at least 2 stops, got %d", len(out))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Pos < out[j].Pos })
	return out, nil
}

func mustStops(name, csv string) stops {
	s, err := parseStops(csv)
	if err != nil {
		panic(fmt.Sprintf("palette %s: %v", name, err))
	}
	return s
}
