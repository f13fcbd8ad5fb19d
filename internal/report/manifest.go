// Package report writes the run manifest, the Markdown correlation summary
// and the XLSX correlation export.
package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/config"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/correlation"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/utils"
)

// ManifestFile is the manifest's name inside the output directory.
const ManifestFile = "manifest.json"

// Input describes one loaded dataset.
type Input struct {
	Metric  string `json:"metric"`
	Path    string `json:"path"`
	Column  string `json:"column"`
	Rows    int    `json:"rows"`
	Skipped int    `json:"skipped_rows"`
}

// Chart is a generated output file.
type Chart struct {
	Name string `json:"name"`
	File string `json:"file"`
}

// Skip records a chart that was not produced and why.
type Skip struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Correlation echoes the year-to-year join outcome.
type Correlation struct {
	Years     string `json:"years"`
	Retained  []int  `json:"retained_years"`
	Dropped   []int  `json:"dropped_years"`
	Countries int    `json:"common_countries"`
	MinRows   int    `json:"min_countries"`
	Weak      bool   `json:"weak"`
}

// Manifest is the machine-readable record of one run.
type Manifest struct {
	RunID       string          `json:"run_id"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  time.Time       `json:"finished_at"`
	Palettes    []string        `json:"palettes"`
	Settings    config.Settings `json:"settings"`
	Inputs      []Input         `json:"inputs"`
	Charts      []Chart         `json:"charts"`
	Skipped     []Skip          `json:"skipped"`
	Correlation *Correlation    `json:"correlation,omitempty"`
}

// NewManifest starts a manifest for a run with the given settings.
func NewManifest(s config.Settings) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Settings:  s,
		Palettes:  append([]string(nil), s.Palettes...),
		Charts:    []Chart{},
		Skipped:   []Skip{},
	}
}

// AddInput records a loaded dataset.
func (m *Manifest) AddInput(in Input) { m.Inputs = append(m.Inputs, in) }

// AddChart records a written file.
func (m *Manifest) AddChart(name, file string) {
	m.Charts = append(m.Charts, Chart{Name: name, File: filepath.Base(file)})
}

// Skip records a chart that was not produced.
func (m *Manifest) Skip(name, reason string) {
	m.Skipped = append(m.Skipped, Skip{Name: name, Reason: reason})
}

// SetJoin records the year-to-year join outcome.
func (m *Manifest) SetJoin(years correlation.YearRange, res correlation.JoinResult) {
	m.Correlation = &Correlation{
		Years:     years.String(),
		Retained:  nonNil(res.Retained),
		Dropped:   nonNil(res.Dropped),
		Countries: res.Table.Len(),
		MinRows:   res.MinRows,
		Weak:      res.Weak,
	}
}

// Write stamps the finish time and writes manifest.json into dir.
func (m *Manifest) Write(dir string) (string, error) {
	m.FinishedAt = time.Now().UTC()
	b, err := utils.PrettyJSON(m)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ManifestFile)
	if err := utils.SafeWriteFile(path, b); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

func nonNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
