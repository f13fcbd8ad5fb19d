// Package correlation builds the common-country table across years, the
// year-to-year correlation matrices and their heatmap color-scale bounds.
package correlation

import (
	"fmt"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/dataset"
)

// Metric family prefixes used for year-suffixed columns.
const (
	PrefixHDI       = "HDI_"
	PrefixHappiness = "Happiness_"
)

// DefaultMinRows is the minimum number of countries a year needs to be kept.
const DefaultMinRows = 5

// YearRange is an inclusive range of years.
type YearRange struct {
	From, To int
}

// Years lists the years of the range in ascending order.
func (r YearRange) Years() []int {
	if r.To < r.From {
		return nil
	}
	out := make([]int, 0, r.To-r.From+1)
	for y := r.From; y <= r.To; y++ {
		out = append(out, y)
	}
	return out
}

func (r YearRange) String() string { return fmt.Sprintf("%d-%d", r.From, r.To) }

// YearJoin is the per-year outcome of joining the two metric tables.
type YearJoin struct {
	Year     int
	Rows     int
	Retained bool
}

// JoinResult is the common-country table plus bookkeeping about which years
// made it in.
type JoinResult struct {
	Table    *Frame
	PerYear  []YearJoin
	Retained []int
	Dropped  []int
	// FoldSizes[i] is the row count after folding in Retained[i].
	FoldSizes []int
	// Weak is set when the table has fewer rows than the threshold but
	// enough to correlate.
	Weak    bool
	MinRows int
}

// Empty reports whether there is no usable common-country table.
func (r JoinResult) Empty() bool { return r.Table.Empty() }

// JoinYears builds the common-country table for the given range. Years whose
// HDI/happiness join has fewer than minRows countries are dropped and listed
// in Dropped; the remaining per-year frames are inner-joined on
// (Entity, Code). A result with fewer than two countries is returned empty.
func JoinYears(hdi, happiness *dataset.Table, years YearRange, minRows int) JoinResult {
	if minRows <= 0 {
		minRows = DefaultMinRows
	}
	res := JoinResult{MinRows: minRows}
	var frames []*Frame
	for _, y := range years.Years() {
		f := joinYear(hdi, happiness, y)
		yj := YearJoin{Year: y, Rows: f.Len()}
		if f.Len() >= minRows {
			yj.Retained = true
			res.Retained = append(res.Retained, y)
			frames = append(frames, f)
		} else {
			res.Dropped = append(res.Dropped, y)
		}
		res.PerYear = append(res.PerYear, yj)
	}
	if len(frames) == 0 {
		res.Table = NewFrame()
		return res
	}

	combined := frames[0]
	res.FoldSizes = append(res.FoldSizes, combined.Len())
	for _, f := range frames[1:] {
		combined = combined.InnerJoin(f)
		res.FoldSizes = append(res.FoldSizes, combined.Len())
	}
	if combined.Len() < 2 {
		res.Table = NewFrame()
		return res
	}
	res.Weak = combined.Len() < minRows
	res.Table = combined
	return res
}

// joinYear inner-joins one year of HDI (countries only) with the same year of
// happiness and names the columns HDI_<year> and Happiness_<year>.
func joinYear(hdi, happiness *dataset.Table, year int) *Frame {
	h := hdi.Year(year, dataset.FilterOptions{RequireCode: true})
	p := happiness.Year(year, dataset.FilterOptions{})
	j := h.DataFrame(fmt.Sprintf("%s%d", PrefixHDI, year)).
		InnerJoin(p.DataFrame(fmt.Sprintf("%s%d", PrefixHappiness, year)), dataset.ColEntity, dataset.ColCode)
	f, err := FrameFromDataFrame(j)
	if err != nil {
		return NewFrame()
	}
	return f
}
