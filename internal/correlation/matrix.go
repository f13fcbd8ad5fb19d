package correlation

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Matrix is a labelled square Pearson correlation matrix.
type Matrix struct {
	Labels []string
	Values [][]float64 // row-major, Values[i][j]
}

// Size returns the number of rows.
func (m Matrix) Size() int { return len(m.Labels) }

// Empty reports whether the matrix has no rows.
func (m Matrix) Empty() bool { return len(m.Labels) == 0 }

// At returns Values[i][j].
func (m Matrix) At(i, j int) float64 { return m.Values[i][j] }

// BuildMatrix correlates every column of f whose name contains prefix,
// treating each column as a sample vector over the common countries.
// Columns are sorted by name and the prefix is stripped from the labels.
// Fewer than two matching columns give an empty matrix. A constant column
// produces NaN in its row and column.
func BuildMatrix(f *Frame, prefix string) Matrix {
	if f == nil {
		return Matrix{}
	}
	var cols []string
	for _, c := range f.Columns {
		if strings.Contains(c, prefix) {
			cols = append(cols, c)
		}
	}
	if len(cols) < 2 {
		return Matrix{}
	}
	sort.Strings(cols)
	return correlate(f, cols, func(c string) string { return strings.Replace(c, prefix, "", 1) })
}

// BuildPairMatrix correlates the named columns in the given order, keeping
// the labels supplied by the caller.
func BuildPairMatrix(f *Frame, cols, labels []string) Matrix {
	if f == nil || len(cols) < 2 || len(cols) != len(labels) {
		return Matrix{}
	}
	byCol := make(map[string]string, len(cols))
	for i, c := range cols {
		byCol[c] = labels[i]
	}
	return correlate(f, cols, func(c string) string { return byCol[c] })
}

func correlate(f *Frame, cols []string, label func(string) string) Matrix {
	n := len(cols)
	m := Matrix{Labels: make([]string, n), Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}
	constant := make([]bool, n)
	for i, c := range cols {
		m.Labels[i] = label(c)
		constant[i] = f.Len() < 2 || floats.Max(f.Values[c]) == floats.Min(f.Values[c])
	}
	for i := 0; i < n; i++ {
		if constant[i] {
			m.Values[i][i] = math.NaN()
		} else {
			m.Values[i][i] = 1
		}
		for j := i + 1; j < n; j++ {
			r := math.NaN()
			if !constant[i] && !constant[j] {
				r = clamp(stat.Correlation(f.Values[cols[i]], f.Values[cols[j]], nil), -1, 1)
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return x
	}
	return math.Max(lo, math.Min(hi, x))
}
