package correlation_test

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/correlation"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/dataset"
)

func country(i int) (string, string) {
	return fmt.Sprintf("Country %02d", i), fmt.Sprintf("C%02d", i)
}

func hdiValue(i, y int) float64 {
	return 0.4 + 0.05*float64(i) + 0.002*float64(y-2016) + 0.003*float64((i*7+y)%5)
}

func happinessValue(i, y int) float64 {
	return 4 + 0.3*float64(i) + 0.1*float64((i*3+y)%4)
}

// tables builds HDI and happiness tables; countries[y] lists the country
// indexes present for year y in each table.
func tables(hdiYears, happyYears map[int][]int) (*dataset.Table, *dataset.Table) {
	hdi := &dataset.Table{Metric: "HDI", Column: "Human Development Index"}
	for y, idx := range hdiYears {
		for _, i := range idx {
			e, c := country(i)
			hdi.Rows = append(hdi.Rows, dataset.Observation{Entity: e, Code: c, Year: y, Value: hdiValue(i, y), Valid: true})
		}
		// aggregates never take part in the join
		hdi.Rows = append(hdi.Rows, dataset.Observation{Entity: "World", Year: y, Value: 0.7, Valid: true})
	}
	hap := &dataset.Table{Metric: "Happiness", Column: "Cantril ladder score"}
	for y, idx := range happyYears {
		for _, i := range idx {
			e, c := country(i)
			hap.Rows = append(hap.Rows, dataset.Observation{Entity: e, Code: c, Year: y, Value: happinessValue(i, y), Valid: true})
		}
		hap.Rows = append(hap.Rows, dataset.Observation{Entity: "World", Year: y, Value: 5.5, Valid: true})
	}
	return hdi, hap
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func everyYear(from, to int, idx []int) map[int][]int {
	m := map[int][]int{}
	for y := from; y <= to; y++ {
		m[y] = idx
	}
	return m
}

func TestJoinYearsKeepsOnlyYearsPresentInBothTables(t *testing.T) {
	hdi, hap := tables(
		everyYear(2016, 2022, seq(8)),
		map[int][]int{2016: seq(8), 2018: seq(8), 2020: seq(8)},
	)

	res := correlation.JoinYears(hdi, hap, correlation.YearRange{From: 2016, To: 2022}, 5)

	assert.Equal(t, []int{2016, 2018, 2020}, res.Retained)
	assert.Equal(t, []int{2017, 2019, 2021, 2022}, res.Dropped)
	want := []string{"HDI_2016", "Happiness_2016", "HDI_2018", "Happiness_2018", "HDI_2020", "Happiness_2020"}
	if diff := cmp.Diff(want, res.Table.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 8, res.Table.Len())
	assert.False(t, res.Weak)

	hdiM := correlation.BuildMatrix(res.Table, correlation.PrefixHDI)
	assert.Equal(t, []string{"2016", "2018", "2020"}, hdiM.Labels)
	hapM := correlation.BuildMatrix(res.Table, correlation.PrefixHappiness)
	assert.Equal(t, []string{"2016", "2018", "2020"}, hapM.Labels)
}

func TestJoinYearsDropsYearBelowThreshold(t *testing.T) {
	happy := everyYear(2016, 2018, seq(6))
	happy[2017] = []int{0, 1, 2}
	hdi, hap := tables(everyYear(2016, 2018, seq(6)), happy)

	res := correlation.JoinYears(hdi, hap, correlation.YearRange{From: 2016, To: 2018}, 5)

	assert.Equal(t, []int{2016, 2018}, res.Retained)
	assert.Equal(t, []int{2017}, res.Dropped)
	assert.Nil(t, res.Table.Column("HDI_2017"))
	assert.Equal(t, 6, res.Table.Len(), "the dropped year does not shrink the intersection")
	require.Len(t, res.PerYear, 3)
	assert.Equal(t, correlation.YearJoin{Year: 2017, Rows: 3}, res.PerYear[1])
}

func TestJoinYearsZeroOverlap(t *testing.T) {
	hdi, hap := tables(
		map[int][]int{2016: {0, 1, 2, 3, 4, 5}, 2017: {0, 1, 2, 3, 4, 5}},
		map[int][]int{2016: {0, 1, 2, 3, 4, 5}, 2017: {10, 11, 12, 13, 14, 15}},
	)
	hdi2, hap2 := tables(
		map[int][]int{2016: {0, 1, 2, 3, 4, 5}},
		map[int][]int{2016: {20, 21, 22, 23, 24, 25}},
	)

	res := correlation.JoinYears(hdi2, hap2, correlation.YearRange{From: 2016, To: 2017}, 5)
	assert.True(t, res.Empty())
	assert.Empty(t, res.Retained)
	assert.True(t, correlation.BuildMatrix(res.Table, correlation.PrefixHDI).Empty())
	assert.True(t, correlation.BuildMatrix(res.Table, correlation.PrefixHappiness).Empty())

	partial := correlation.JoinYears(hdi, hap, correlation.YearRange{From: 2016, To: 2017}, 5)
	assert.Equal(t, []int{2016}, partial.Retained)
	assert.True(t, correlation.BuildMatrix(partial.Table, correlation.PrefixHDI).Empty(), "one column is not enough")
}

func TestJoinYearsEmptyWhenIntersectionVanishes(t *testing.T) {
	hdi, hap := tables(
		map[int][]int{2016: seq(12), 2017: seq(12)},
		map[int][]int{2016: {0, 1, 2, 3, 4, 5}, 2017: {6, 7, 8, 9, 10, 11}},
	)
	res := correlation.JoinYears(hdi, hap, correlation.YearRange{From: 2016, To: 2017}, 5)
	assert.Equal(t, []int{2016, 2017}, res.Retained)
	assert.Equal(t, []int{6, 0}, res.FoldSizes)
	assert.True(t, res.Empty())
}

func TestJoinYearsWeakIntersection(t *testing.T) {
	hdi, hap := tables(
		map[int][]int{2016: seq(10), 2017: seq(10)},
		map[int][]int{2016: {0, 1, 2, 3, 4, 5}, 2017: {3, 4, 5, 6, 7, 8}},
	)
	res := correlation.JoinYears(hdi, hap, correlation.YearRange{From: 2016, To: 2017}, 5)
	assert.Equal(t, 3, res.Table.Len())
	assert.True(t, res.Weak)
	assert.False(t, res.Empty())
}

func TestJoinYearsRowCountNeverGrows(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		hdiYears, hapYears := map[int][]int{}, map[int][]int{}
		for y := 2010; y <= 2020; y++ {
			for i := 0; i < 30; i++ {
				if rng.Float64() < 0.9 {
					hdiYears[y] = append(hdiYears[y], i)
				}
				if rng.Float64() < 0.8 {
					hapYears[y] = append(hapYears[y], i)
				}
			}
		}
		hdi, hap := tables(hdiYears, hapYears)
		res := correlation.JoinYears(hdi, hap, correlation.YearRange{From: 2010, To: 2020}, 5)
		for i := 1; i < len(res.FoldSizes); i++ {
			require.LessOrEqual(t, res.FoldSizes[i], res.FoldSizes[i-1], "trial %d fold %d", trial, i)
		}
		require.Len(t, res.FoldSizes, len(res.Retained))
	}
}

func TestJoinYearsRequiresCodeAndValidMetrics(t *testing.T) {
	hdi, hap := tables(map[int][]int{2016: seq(6)}, map[int][]int{2016: seq(6)})
	hdi.Rows = append(hdi.Rows,
		dataset.Observation{Entity: "Nowhere", Year: 2016, Value: 0.5, Valid: true},
		dataset.Observation{Entity: "Missing", Code: "MIS", Year: 2016, Valid: false},
	)
	hap.Rows = append(hap.Rows,
		dataset.Observation{Entity: "Nowhere", Year: 2016, Value: 5, Valid: true},
		dataset.Observation{Entity: "Missing", Code: "MIS", Year: 2016, Value: 5, Valid: true},
	)
	res := correlation.JoinYears(hdi, hap, correlation.YearRange{From: 2016, To: 2016}, 5)
	require.Equal(t, 6, res.Table.Len())
	for _, k := range res.Table.Keys {
		assert.NotEmpty(t, k.Code)
	}
	for _, c := range res.Table.Columns {
		for _, v := range res.Table.Column(c) {
			assert.False(t, math.IsNaN(v))
		}
	}
}

func TestBuildMatrixSymmetricUnitDiagonal(t *testing.T) {
	hdi, hap := tables(everyYear(2016, 2022, seq(15)), everyYear(2016, 2022, seq(15)))
	res := correlation.JoinYears(hdi, hap, correlation.YearRange{From: 2016, To: 2022}, 5)

	for _, prefix := range []string{correlation.PrefixHDI, correlation.PrefixHappiness} {
		m := correlation.BuildMatrix(res.Table, prefix)
		require.Equal(t, 7, m.Size())
		assert.Equal(t, "2016", m.Labels[0])
		assert.Equal(t, "2022", m.Labels[6])
		for i := 0; i < m.Size(); i++ {
			assert.Equal(t, 1.0, m.At(i, i))
			for j := 0; j < m.Size(); j++ {
				assert.Equal(t, m.At(i, j), m.At(j, i))
				assert.GreaterOrEqual(t, m.At(i, j), -1.0)
				assert.LessOrEqual(t, m.At(i, j), 1.0)
			}
		}
	}
}

func TestBuildMatrixSortsColumnsAndStripsPrefix(t *testing.T) {
	f := correlation.NewFrame()
	f.Keys = []dataset.CountryKey{{Entity: "A"}, {Entity: "B"}, {Entity: "C"}}
	f.Columns = []string{"HDI_2020", "Happiness_2020", "HDI_2018"}
	f.Values = map[string][]float64{
		"HDI_2020":       {1, 2, 3},
		"Happiness_2020": {3, 1, 2},
		"HDI_2018":       {3, 2, 1},
	}
	m := correlation.BuildMatrix(f, correlation.PrefixHDI)
	assert.Equal(t, []string{"2018", "2020"}, m.Labels)
	assert.InDelta(t, -1, m.At(0, 1), 1e-12)
}

func TestBuildMatrixConstantColumnIsNaN(t *testing.T) {
	f := correlation.NewFrame()
	f.Keys = []dataset.CountryKey{{Entity: "A"}, {Entity: "B"}, {Entity: "C"}}
	f.Columns = []string{"HDI_2018", "HDI_2019", "HDI_2020"}
	f.Values = map[string][]float64{
		"HDI_2018": {0.5, 0.6, 0.7},
		"HDI_2019": {0.8, 0.8, 0.8},
		"HDI_2020": {0.55, 0.65, 0.72},
	}
	m := correlation.BuildMatrix(f, correlation.PrefixHDI)
	require.Equal(t, 3, m.Size())
	assert.True(t, math.IsNaN(m.At(1, 1)))
	assert.True(t, math.IsNaN(m.At(0, 1)))
	assert.True(t, math.IsNaN(m.At(2, 1)))
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Greater(t, m.At(0, 2), 0.9)

	b, err := correlation.EstimateScale(m, correlation.ScaleOptions{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, b.Min, 0.0)
	assert.Less(t, b.Min, b.Max)
}

func TestBuildPairMatrix(t *testing.T) {
	f := correlation.NewFrame()
	f.Keys = []dataset.CountryKey{{Entity: "A"}, {Entity: "B"}, {Entity: "C"}, {Entity: "D"}}
	f.Columns = []string{"x", "y"}
	f.Values = map[string][]float64{"x": {1, 2, 3, 4}, "y": {2, 4, 6, 8}}
	m := correlation.BuildPairMatrix(f, []string{"y", "x"}, []string{"Happiness", "HDI"})
	assert.Equal(t, []string{"Happiness", "HDI"}, m.Labels)
	assert.InDelta(t, 1, m.At(0, 1), 1e-12)
	assert.True(t, correlation.BuildPairMatrix(f, []string{"x"}, []string{"x"}).Empty())
}

func TestEstimateScale(t *testing.T) {
	twoByTwo := correlation.Matrix{Labels: []string{"2019", "2020"}, Values: [][]float64{{1, 0.9}, {0.9, 1}}}
	explicit := correlation.Bounds{Min: 0.3, Max: 0.7}
	center := 0.0
	negative := correlation.Matrix{Labels: []string{"a", "b"}, Values: [][]float64{{1, -0.2}, {-0.2, 1}}}

	cases := []struct {
		name string
		m    correlation.Matrix
		opt  correlation.ScaleOptions
		want correlation.Bounds
	}{
		{"padded", twoByTwo, correlation.ScaleOptions{}, correlation.Bounds{Min: 0.882, Max: 1}},
		{"negative min clamps to zero", negative, correlation.ScaleOptions{}, correlation.Bounds{Min: 0, Max: 1}},
		{"single row", correlation.Matrix{Labels: []string{"2020"}, Values: [][]float64{{0.1}}}, correlation.ScaleOptions{}, correlation.Bounds{Min: 0.8, Max: 1}},
		{"explicit passes through", twoByTwo, correlation.ScaleOptions{Explicit: &explicit}, explicit},
		{"explicit on empty", correlation.Matrix{}, correlation.ScaleOptions{Explicit: &explicit}, explicit},
		{"centered", negative, correlation.ScaleOptions{Center: &center}, correlation.Bounds{Min: -1, Max: 1}},
		{"degenerate widens", correlation.Matrix{Labels: []string{"a", "b"}, Values: [][]float64{{0, 0}, {0, 0}}}, correlation.ScaleOptions{}, correlation.Bounds{Min: -0.1, Max: 0}},
		{"all NaN falls back", correlation.Matrix{Labels: []string{"a", "b"}, Values: [][]float64{{math.NaN(), math.NaN()}, {math.NaN(), math.NaN()}}}, correlation.ScaleOptions{}, correlation.Bounds{Min: 0.8, Max: 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := correlation.EstimateScale(c.m, c.opt)
			require.NoError(t, err)
			assert.InDelta(t, c.want.Min, got.Min, 1e-9)
			assert.InDelta(t, c.want.Max, got.Max, 1e-9)
		})
	}

	_, err := correlation.EstimateScale(correlation.Matrix{}, correlation.ScaleOptions{})
	require.ErrorIs(t, err, correlation.ErrEmptyMatrix)
}

func TestEstimateScaleBoundsWithinUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 3 + rng.Intn(20)
		cols := 2 + rng.Intn(6)
		f := correlation.NewFrame()
		for i := 0; i < n; i++ {
			f.Keys = append(f.Keys, dataset.CountryKey{Entity: fmt.Sprint(i)})
		}
		for c := 0; c < cols; c++ {
			name := fmt.Sprintf("HDI_%d", 2000+c)
			vals := make([]float64, n)
			for i := range vals {
				vals[i] = rng.NormFloat64()
			}
			f.Columns = append(f.Columns, name)
			f.Values[name] = vals
		}
		m := correlation.BuildMatrix(f, correlation.PrefixHDI)
		b, err := correlation.EstimateScale(m, correlation.ScaleOptions{})
		require.NoError(t, err)
		require.GreaterOrEqual(t, b.Min, 0.0, "trial %d", trial)
		require.Less(t, b.Min, b.Max, "trial %d", trial)
		require.LessOrEqual(t, b.Max, 1.0, "trial %d", trial)
	}
}

func TestSingleYearMatrixFallsBack(t *testing.T) {
	m := correlation.Matrix{Labels: []string{"2022"}, Values: [][]float64{{1}}}
	b, err := correlation.EstimateScale(m, correlation.ScaleOptions{})
	require.NoError(t, err)
	assert.Equal(t, correlation.Bounds{Min: 0.8, Max: 1.0}, b)
}

func TestEstimateScaleCountsDiagonal(t *testing.T) {
	nan := math.NaN()
	m := correlation.Matrix{Labels: []string{"a", "b"}, Values: [][]float64{{1, 0.5}, {0.5, 1}}}
	b, err := correlation.EstimateScale(m, correlation.ScaleOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 0.49, b.Min, 1e-9)
	assert.Equal(t, 1.0, b.Max, "the unit diagonal sets the upper bound")

	// NaN off-diagonals leave only the diagonal, which is still a usable range.
	m = correlation.Matrix{Labels: []string{"a", "b"}, Values: [][]float64{{1, nan}, {nan, 1}}}
	b, err = correlation.EstimateScale(m, correlation.ScaleOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 0.98, b.Min, 1e-9)
	assert.Equal(t, 1.0, b.Max)

	m = correlation.Matrix{Labels: []string{"a", "b"}, Values: [][]float64{{nan, nan}, {nan, nan}}}
	b, err = correlation.EstimateScale(m, correlation.ScaleOptions{})
	require.NoError(t, err)
	assert.Equal(t, correlation.Bounds{Min: correlation.FallbackMin, Max: correlation.FallbackMax}, b)
}

func TestOffDiagonalBounds(t *testing.T) {
	m := correlation.Matrix{Labels: []string{"a", "b", "c"}, Values: [][]float64{
		{1, 0.7, 0.9},
		{0.7, 1, math.NaN()},
		{0.9, math.NaN(), 1},
	}}
	b := correlation.OffDiagonalBounds(m)
	assert.InDelta(t, 0.65, b.Min, 1e-9)
	assert.Equal(t, 1.0, b.Max)

	single := correlation.OffDiagonalBounds(correlation.Matrix{Labels: []string{"a"}, Values: [][]float64{{1}}})
	assert.InDelta(t, 0.75, single.Min, 1e-9)

	low := correlation.OffDiagonalBounds(correlation.Matrix{Labels: []string{"a", "b"}, Values: [][]float64{{1, 0.01}, {0.01, 1}}})
	assert.Equal(t, 0.0, low.Min)
}

func TestFrameInnerJoin(t *testing.T) {
	a := correlation.NewFrame()
	a.Keys = []dataset.CountryKey{{Entity: "A", Code: "AAA"}, {Entity: "B", Code: "BBB"}, {Entity: "C", Code: "CCC"}}
	a.Columns = []string{"x"}
	a.Values["x"] = []float64{1, 2, 3}

	b := correlation.NewFrame()
	b.Keys = []dataset.CountryKey{{Entity: "C", Code: "CCC"}, {Entity: "A", Code: "AAA"}, {Entity: "B", Code: "XXX"}}
	b.Columns = []string{"y", "x"}
	b.Values["y"] = []float64{30, 10, 20}
	b.Values["x"] = []float64{-3, -1, -2}

	j := a.InnerJoin(b)
	assert.Equal(t, []dataset.CountryKey{{Entity: "A", Code: "AAA"}, {Entity: "C", Code: "CCC"}}, j.Keys)
	assert.Equal(t, []string{"x", "y"}, j.Columns)
	assert.Equal(t, []float64{1, 3}, j.Column("x"))
	assert.Equal(t, []float64{10, 30}, j.Column("y"))
}

func TestFrameInnerJoinNoOverlap(t *testing.T) {
	a := correlation.NewFrame()
	a.Keys = []dataset.CountryKey{{Entity: "A", Code: "AAA"}}
	a.Columns = []string{"x"}
	a.Values["x"] = []float64{1}

	b := correlation.NewFrame()
	b.Keys = []dataset.CountryKey{{Entity: "A", Code: "ZZZ"}}
	b.Columns = []string{"y"}
	b.Values["y"] = []float64{2}

	j := a.InnerJoin(b)
	assert.True(t, j.Empty())
	assert.Equal(t, []string{"x", "y"}, j.Columns)
	assert.Empty(t, j.Column("y"))

	assert.True(t, correlation.NewFrame().InnerJoin(a).Empty())
}

func TestFrameFromDataFrame(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"Peru", "Chad"}, series.String, dataset.ColEntity),
		series.New([]string{"PER", "TCD"}, series.String, dataset.ColCode),
		series.New([]float64{0.76, 0.39}, series.Float, "HDI_2020"),
	)
	f, err := correlation.FrameFromDataFrame(df)
	require.NoError(t, err)
	assert.Equal(t, []dataset.CountryKey{{Entity: "Peru", Code: "PER"}, {Entity: "Chad", Code: "TCD"}}, f.Keys)
	assert.Equal(t, []float64{0.76, 0.39}, f.Column("HDI_2020"))

	_, err = correlation.FrameFromDataFrame(df.Select([]string{dataset.ColEntity, "HDI_2020"}))
	assert.Error(t, err, "frames need a Code column")
}
