package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/correlation"
)

// SummaryFile is the Markdown summary's name inside the output directory.
const SummaryFile = "correlation_summary.md"

// maxPairs caps the correlation pairs listed per matrix.
const maxPairs = 10

// maxSampleRows caps the common-country rows shown.
const maxSampleRows = 15

// MatrixSummary is a named correlation matrix with the bounds used to draw it.
type MatrixSummary struct {
	Name   string
	Matrix correlation.Matrix
	Bounds *correlation.Bounds
}

// Summary collects what the Markdown report needs.
type Summary struct {
	Years    correlation.YearRange
	Join     correlation.JoinResult
	Matrices []MatrixSummary
}

// Markdown renders the summary in bracketed sections.
func (s Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[CORRELATION SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Years: %s\n", s.Years))
	b.WriteString(fmt.Sprintf("Retained years: %s\n", joinInts(s.Join.Retained)))
	b.WriteString(fmt.Sprintf("Dropped years: %s\n", joinInts(s.Join.Dropped)))
	b.WriteString(fmt.Sprintf("Common countries: %d\n", s.Join.Table.Len()))

	if len(s.Join.PerYear) > 0 {
		b.WriteString("\n[PER-YEAR JOIN]\n")
		for _, y := range s.Join.PerYear {
			state := "retained"
			if !y.Retained {
				state = fmt.Sprintf("dropped, fewer than %d", s.Join.MinRows)
			}
			b.WriteString(fmt.Sprintf("- %d: %d countries (%s)\n", y.Year, y.Rows, state))
		}
	}

	for _, m := range s.Matrices {
		b.WriteString(fmt.Sprintf("\n[%s]\n", strings.ToUpper(m.Name)))
		if m.Matrix.Empty() {
			b.WriteString("- not enough years to correlate\n")
			continue
		}
		if m.Bounds != nil {
			b.WriteString(fmt.Sprintf("Scale: %.3f to %.3f\n", m.Bounds.Min, m.Bounds.Max))
		}
		for _, p := range topPairs(m.Matrix, maxPairs) {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.a, p.b, p.r))
		}
	}

	if t := s.Join.Table; t.Len() > 0 {
		b.WriteString("\n[COMMON COUNTRIES]\n")
		b.WriteString("| Entity | Code")
		for _, c := range t.Columns {
			b.WriteString(" | ")
			b.WriteString(c)
		}
		b.WriteString(" |\n|---|---")
		for range t.Columns {
			b.WriteString("|---")
		}
		b.WriteString("|\n")
		for i, k := range t.Keys {
			if i == maxSampleRows {
				break
			}
			b.WriteString(fmt.Sprintf("| %s | %s", safeVal(k.Entity), safeVal(k.Code)))
			for _, c := range t.Columns {
				b.WriteString(fmt.Sprintf(" | %.3f", t.Values[c][i]))
			}
			b.WriteString(" |\n")
		}
		if t.Len() > maxSampleRows {
			b.WriteString(fmt.Sprintf("\n(%d more)\n", t.Len()-maxSampleRows))
		}
	}

	var notes []string
	if s.Join.Empty() {
		notes = append(notes, "No common countries across the retained years; year-to-year heatmaps were skipped.")
	}
	if s.Join.Weak {
		notes = append(notes, fmt.Sprintf("Only %d common countries (threshold %d); correlations are weak evidence.", s.Join.Table.Len(), s.Join.MinRows))
	}
	if len(s.Join.Dropped) > 0 {
		notes = append(notes, "The year series is not contiguous: dropped years are excluded from every matrix.")
	}
	if len(notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

type pair struct {
	a, b string
	r    float64
}

// topPairs lists the upper-triangle pairs by descending |r|, NaN last.
func topPairs(m correlation.Matrix, limit int) []pair {
	var pairs []pair
	n := m.Size()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, pair{a: m.Labels[i], b: m.Labels[j], r: m.At(i, j)})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].r), math.Abs(pairs[j].r)
		if math.IsNaN(ai) != math.IsNaN(aj) {
			return !math.IsNaN(ai)
		}
		return ai > aj
	})
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

func joinInts(v []int) string {
	if len(v) == 0 {
		return "none"
	}
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
