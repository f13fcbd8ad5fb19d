package pipeline

import (
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/config"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/correlation"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/dataset"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/report"
)

// Correlations is the year-to-year analysis for both metric families.
type Correlations struct {
	Years     correlation.YearRange
	Join      correlation.JoinResult
	HDI       correlation.Matrix
	Happiness correlation.Matrix
	// Bounds are nil when the matching matrix is empty.
	HDIBounds       *correlation.Bounds
	HappinessBounds *correlation.Bounds
}

// Correlate joins HDI and happiness over the configured years and derives
// both year-to-year matrices with their heatmap bounds. The HDI scale is
// estimated from the data; the happiness scale runs from just below the
// weakest year pair up to 1.
func Correlate(hdi, happiness *dataset.Table, s config.Settings) (*Correlations, error) {
	years := correlation.YearRange{From: s.CorrelationFromYear, To: s.CorrelationToYear}
	join := correlation.JoinYears(hdi, happiness, years, s.MinCountries)
	c := &Correlations{
		Years:     years,
		Join:      join,
		HDI:       correlation.BuildMatrix(join.Table, correlation.PrefixHDI),
		Happiness: correlation.BuildMatrix(join.Table, correlation.PrefixHappiness),
	}
	if !c.HDI.Empty() {
		b, err := correlation.EstimateScale(c.HDI, correlation.ScaleOptions{})
		if err != nil {
			return nil, err
		}
		c.HDIBounds = &b
	}
	if !c.Happiness.Empty() {
		b := correlation.OffDiagonalBounds(c.Happiness)
		c.HappinessBounds = &b
	}
	return c, nil
}

// Summaries lists the matrices for the Markdown and XLSX reports.
func (c *Correlations) Summaries() []report.MatrixSummary {
	return []report.MatrixSummary{
		{Name: "HDI year-to-year", Matrix: c.HDI, Bounds: c.HDIBounds},
		{Name: "Happiness year-to-year", Matrix: c.Happiness, Bounds: c.HappinessBounds},
	}
}

// Summary is the Markdown report input.
func (c *Correlations) Summary() report.Summary {
	return report.Summary{Years: c.Years, Join: c.Join, Matrices: c.Summaries()}
}
