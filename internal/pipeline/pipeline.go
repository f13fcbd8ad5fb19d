// Package pipeline runs the full chart comparison: load the inputs, draw
// every chart once per palette, then write the reports.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/config"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/correlation"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/dataset"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/palette"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/render"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/report"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/utils"
)

// Output file names.
const (
	GradientFile         = "gradient_comparison.png"
	BarsFile             = "hdi_barplots_comparison.png"
	ScatterFile          = "hdi_life_expectancy_scatter_comparison.png"
	GrayscaleFile        = "grayscale_comparison.png"
	MetricHeatmapFile    = "hdi_happiness_correlation_heatmap.png"
	HDIHeatmapFile       = "hdi_year_to_year_correlation_heatmap.png"
	HappinessHeatmapFile = "happiness_year_to_year_correlation_heatmap.png"
)

// Chart names used in logs, notices and the manifest.
const (
	ChartGradients        = "gradients"
	ChartBars             = "hdi bars"
	ChartScatter          = "hdi vs life expectancy"
	ChartGrayscale        = "grayscale"
	ChartMetricHeatmap    = "hdi vs happiness heatmap"
	ChartHDIHeatmap       = "hdi year-to-year heatmap"
	ChartHappinessHeatmap = "happiness year-to-year heatmap"
)

// lifeExpectancyLabel replaces the long source column name on the scatter axis.
const lifeExpectancyLabel = "Life expectancy (years)"

// Reporter receives user-facing progress. Calls come from the goroutine
// running Run.
type Reporter interface {
	Generated(name, path string)
	Skipped(name, reason string)
	Warn(msg string)
}

type nopReporter struct{}

func (nopReporter) Generated(string, string) {}
func (nopReporter) Skipped(string, string)   {}
func (nopReporter) Warn(string)              {}

// Result is what a run produced.
type Result struct {
	Manifest     *report.Manifest
	Correlations *Correlations
	Files        []string
}

// Inputs are the three loaded datasets.
type Inputs struct {
	HDI, Happiness, LifeExpectancy *dataset.Table
}

// Specs returns the dataset specs for the configured inputs.
func Specs(s config.Settings) (hdi, happiness, life dataset.Spec) {
	return dataset.Spec{Path: s.HDIPath(), Metric: "HDI", Column: s.HDIColumn},
		dataset.Spec{Path: s.HappinessPath(), Metric: "Happiness", Column: s.HappinessColumn},
		dataset.Spec{Path: s.LifeExpectancyPath(), Metric: "Life expectancy", Column: s.LifeExpectancyColumn}
}

// Load reads the three inputs in parallel.
func Load(ctx context.Context, s config.Settings) (Inputs, error) {
	h, p, l := Specs(s)
	tables, err := dataset.LoadAll(ctx, h, p, l)
	if err != nil {
		return Inputs{}, err
	}
	return Inputs{HDI: tables[0], Happiness: tables[1], LifeExpectancy: tables[2]}, nil
}

type runner struct {
	s      config.Settings
	log    *zap.Logger
	rep    Reporter
	opt    render.Options
	pals   []palette.Palette
	res    *Result
	outDir string
}

// Run executes the whole comparison. Charts without enough data are skipped
// and recorded; load, render and write failures abort the run.
func Run(ctx context.Context, s config.Settings, logger *zap.Logger, rep Reporter) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rep == nil {
		rep = nopReporter{}
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	pals, err := palette.Resolve(s.Palettes)
	if err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(s.OutputDir); err != nil {
		return nil, err
	}

	r := &runner{
		s:      s,
		log:    logger,
		rep:    rep,
		opt:    render.NewOptions(s),
		pals:   pals,
		res:    &Result{Manifest: report.NewManifest(s)},
		outDir: s.OutputDir,
	}
	logger.Info("run started",
		zap.String("run_id", r.res.Manifest.RunID),
		zap.Strings("palettes", s.Palettes),
		zap.String("output_dir", s.OutputDir))

	in, err := Load(ctx, s)
	if err != nil {
		return nil, err
	}
	for _, t := range []*dataset.Table{in.HDI, in.Happiness, in.LifeExpectancy} {
		logger.Debug("input loaded",
			zap.String("file", t.Name),
			zap.String("column", t.Column),
			zap.Int("rows", len(t.Rows)),
			zap.Int("skipped", t.Skipped))
		r.res.Manifest.AddInput(report.Input{Metric: t.Metric, Path: t.Name, Column: t.Column, Rows: len(t.Rows), Skipped: t.Skipped})
	}

	steps := []func(context.Context, Inputs) error{
		r.gradients,
		r.bars,
		r.scatter,
		r.grayscale,
		r.metricHeatmap,
		r.yearHeatmaps,
		r.reports,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step(ctx, in); err != nil {
			return nil, err
		}
	}
	logger.Info("run finished",
		zap.Int("charts", len(r.res.Manifest.Charts)),
		zap.Int("skipped", len(r.res.Manifest.Skipped)))
	return r.res, nil
}

// write saves one chart and records it.
func (r *runner) write(name, file string, w io.WriterTo, err error) error {
	if errors.Is(err, render.ErrNoData) {
		r.skip(name, "nothing to plot")
		return nil
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	path := filepath.Join(r.outDir, file)
	if err := utils.SafeWriteTo(path, w); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	r.res.Manifest.AddChart(name, path)
	r.res.Files = append(r.res.Files, path)
	r.log.Info("chart written", zap.String("chart", name), zap.String("path", path))
	r.rep.Generated(name, path)
	return nil
}

func (r *runner) skip(name, reason string) {
	r.res.Manifest.Skip(name, reason)
	r.log.Warn("chart skipped", zap.String("chart", name), zap.String("reason", reason))
	r.rep.Skipped(name, reason)
}

func (r *runner) gradients(_ context.Context, _ Inputs) error {
	w, err := render.Gradients(r.pals, r.opt)
	return r.write(ChartGradients, GradientFile, w, err)
}

func (r *runner) grayscale(_ context.Context, _ Inputs) error {
	w, err := render.GrayscaleComparison(r.pals, r.opt)
	return r.write(ChartGrayscale, GrayscaleFile, w, err)
}

// hdiCountries is the HDI target year restricted to rows with a country code.
func (r *runner) hdiCountries(in Inputs) *dataset.Slice {
	return in.HDI.Year(r.s.TargetYearHDI, dataset.FilterOptions{RequireCode: true})
}

func (r *runner) bars(_ context.Context, in Inputs) error {
	hdi := r.hdiCountries(in)
	if hdi.Empty() {
		r.skip(ChartBars, fmt.Sprintf("no HDI data for %d", r.s.TargetYearHDI))
		return nil
	}
	lo, hi, _ := hdi.Range()
	data := render.BarData{
		Title:  fmt.Sprintf("Human Development Index (%d)", r.s.TargetYearHDI),
		XLabel: in.HDI.Column,
		Bars:   hdi.TopN(r.s.TopN),
		XMin:   lo * 0.98,
		XMax:   hi * 1.02,
	}
	w, err := render.Bars(data, r.pals, r.opt)
	return r.write(ChartBars, BarsFile, w, err)
}

func (r *runner) scatter(_ context.Context, in Inputs) error {
	hdi := r.hdiCountries(in)
	life := in.LifeExpectancy.Year(r.s.TargetYearLifeExpectancy, dataset.FilterOptions{})
	if hdi.Empty() || life.Empty() {
		r.skip(ChartScatter, fmt.Sprintf("no data for target years %d/%d", r.s.TargetYearHDI, r.s.TargetYearLifeExpectancy))
		return nil
	}
	pairs := hdi.InnerJoin(life)
	if len(pairs) == 0 {
		r.skip(ChartScatter, "no country has both HDI and life expectancy")
		return nil
	}
	yLabel := in.LifeExpectancy.Column
	if yLabel == config.Defaults().LifeExpectancyColumn {
		yLabel = lifeExpectancyLabel
	}
	data := render.ScatterData{
		Title:      fmt.Sprintf("HDI vs. Life Expectancy (%d/%d)", r.s.TargetYearHDI, r.s.TargetYearLifeExpectancy),
		XLabel:     in.HDI.Column,
		YLabel:     yLabel,
		ColorLabel: in.HDI.Column,
		Points:     pairs,
	}
	w, err := render.Scatter(data, r.pals, r.opt)
	return r.write(ChartScatter, ScatterFile, w, err)
}

// metricHeatmap correlates HDI with happiness across countries for the
// target year.
func (r *runner) metricHeatmap(_ context.Context, in Inputs) error {
	year := r.s.TargetYearHDI
	pairs := r.hdiCountries(in).InnerJoin(in.Happiness.Year(year, dataset.FilterOptions{}))
	if len(pairs) < 2 {
		r.skip(ChartMetricHeatmap, fmt.Sprintf("%d countries with HDI and happiness in %d", len(pairs), year))
		return nil
	}
	frame := correlation.FrameFromPairs(pairs, "hdi", "happiness")
	m := correlation.BuildPairMatrix(frame, []string{"hdi", "happiness"}, []string{"HDI", "Happiness"})
	b, err := correlation.EstimateScale(m, correlation.ScaleOptions{})
	if err != nil {
		return fmt.Errorf("scale %s: %w", ChartMetricHeatmap, err)
	}
	data := render.HeatmapData{
		Title:  fmt.Sprintf("HDI vs. Happiness correlation (%d)", year),
		Matrix: m,
		Bounds: b,
	}
	w, err := render.Heatmaps(data, r.pals, r.opt)
	return r.write(ChartMetricHeatmap, MetricHeatmapFile, w, err)
}

func (r *runner) yearHeatmaps(_ context.Context, in Inputs) error {
	c, err := Correlate(in.HDI, in.Happiness, r.s)
	if err != nil {
		return err
	}
	r.res.Correlations = c
	r.res.Manifest.SetJoin(c.Years, c.Join)
	r.log.Info("years joined",
		zap.Ints("retained", c.Join.Retained),
		zap.Ints("dropped", c.Join.Dropped),
		zap.Ints("fold_sizes", c.Join.FoldSizes),
		zap.Int("countries", c.Join.Table.Len()))
	if len(c.Join.Dropped) > 0 {
		r.rep.Warn(fmt.Sprintf("years with fewer than %d common countries were dropped: %v", c.Join.MinRows, c.Join.Dropped))
	}
	if c.Join.Weak {
		msg := fmt.Sprintf("only %d common countries across %s", c.Join.Table.Len(), c.Years)
		r.log.Warn("weak intersection", zap.Int("countries", c.Join.Table.Len()), zap.Int("min", c.Join.MinRows))
		r.rep.Warn(msg)
	}

	heatmaps := []struct {
		name, file, title string
		m                 correlation.Matrix
		b                 *correlation.Bounds
	}{
		{ChartHDIHeatmap, HDIHeatmapFile, "Year-to-year HDI correlation", c.HDI, c.HDIBounds},
		{ChartHappinessHeatmap, HappinessHeatmapFile, "Year-to-year happiness correlation", c.Happiness, c.HappinessBounds},
	}
	for _, h := range heatmaps {
		if h.m.Empty() || h.b == nil {
			r.skip(h.name, fmt.Sprintf("not enough common data across %s", c.Years))
			continue
		}
		data := render.HeatmapData{
			Title:  fmt.Sprintf("%s (%s)", h.title, c.Years),
			Matrix: h.m,
			Bounds: *h.b,
		}
		w, err := render.Heatmaps(data, r.pals, r.opt)
		if err := r.write(h.name, h.file, w, err); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) reports(_ context.Context, _ Inputs) error {
	c := r.res.Correlations
	if r.s.WriteSummary && c != nil {
		path := filepath.Join(r.outDir, report.SummaryFile)
		if err := utils.SafeWriteFile(path, []byte(c.Summary().Markdown())); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		r.res.Files = append(r.res.Files, path)
		r.log.Info("summary written", zap.String("path", path))
		r.rep.Generated("correlation summary", path)
	}
	if r.s.ExportXLSX && c != nil {
		path := filepath.Join(r.outDir, report.WorkbookFile)
		if err := report.ExportXLSX(path, c.Summaries(), c.Join.Table); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		r.res.Files = append(r.res.Files, path)
		r.log.Info("workbook written", zap.String("path", path))
		r.rep.Generated("correlation workbook", path)
	}
	if r.s.WriteManifest {
		path, err := r.res.Manifest.Write(r.outDir)
		if err != nil {
			return err
		}
		r.res.Files = append(r.res.Files, path)
		r.log.Debug("manifest written", zap.String("path", path))
	}
	return nil
}
