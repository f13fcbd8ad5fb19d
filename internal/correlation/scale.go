package correlation

import (
	"errors"
	"math"
)

// Fallback bounds for matrices that have no spread to estimate from.
const (
	FallbackMin = 0.8
	FallbackMax = 1.0
)

// ErrEmptyMatrix is returned when bounds are requested for an empty matrix
// without explicit bounds.
var ErrEmptyMatrix = errors.New("empty correlation matrix")

// Bounds are the values mapped to the two ends of a color scale.
type Bounds struct {
	Min, Max float64
}

// ScaleOptions carries caller-supplied overrides for EstimateScale.
type ScaleOptions struct {
	// Explicit bounds are returned unchanged.
	Explicit *Bounds
	// Center, when set and no explicit bounds are given, makes the bounds
	// symmetric around the center value.
	Center *float64
}

// EstimateScale derives color-scale bounds for a correlation matrix.
//
// Without overrides, the range of every non-NaN entry, diagonal included, is
// padded outward from zero by 2% and clamped to [0, 1]; a degenerate result is widened to
// (max-0.1, max). A single-row matrix falls back to (0.8, 1.0).
func EstimateScale(m Matrix, opt ScaleOptions) (Bounds, error) {
	if opt.Explicit != nil {
		return *opt.Explicit, nil
	}
	if m.Empty() {
		return Bounds{}, ErrEmptyMatrix
	}
	lo, hi, ok := finiteRange(m)
	if opt.Center != nil {
		c := *opt.Center
		if !ok {
			return Bounds{Min: c - 1, Max: c + 1}, nil
		}
		span := math.Max(hi-c, c-lo)
		return Bounds{Min: c - span, Max: c + span}, nil
	}
	if m.Size() == 1 || !ok {
		return Bounds{Min: FallbackMin, Max: FallbackMax}, nil
	}
	var b Bounds
	if lo > 0 {
		b.Min = lo * 0.98
	} else {
		b.Min = lo * 1.02
	}
	b.Min = math.Max(0, b.Min)
	if hi > 0 {
		b.Max = hi * 1.02
	} else {
		b.Max = hi * 0.98
	}
	b.Max = math.Min(1, b.Max)
	if b.Min >= b.Max {
		b.Min = b.Max - 0.1
	}
	return b, nil
}

// OffDiagonalBounds returns explicit bounds for a year-to-year heatmap:
// from 0.05 below the smallest off-diagonal correlation (never below 0) up
// to 1. A single-row matrix, or one without finite off-diagonal entries,
// uses 0.8 as its smallest correlation.
func OffDiagonalBounds(m Matrix) Bounds {
	minCorr := math.Inf(1)
	n := m.Size()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if v := m.Values[i][j]; !math.IsNaN(v) && v < minCorr {
				minCorr = v
			}
		}
	}
	if math.IsInf(minCorr, 1) {
		minCorr = FallbackMin
	}
	return Bounds{Min: math.Max(0, minCorr-0.05), Max: 1}
}

// finiteRange returns the minimum and maximum over all non-NaN entries.
func finiteRange(m Matrix) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range m.Values {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	return lo, hi, ok
}
