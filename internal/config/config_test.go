package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/config"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), s)
	assert.NoError(t, s.Validate())
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "output_dir: charts\nmin_countries: 8\npalettes:\n  - batlow\n  - rainbow\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("CMAPCMP_MIN_COUNTRIES", "12")

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "charts", s.OutputDir)
	assert.Equal(t, 12, s.MinCountries, "env overrides file")
	assert.Equal(t, []string{"batlow", "rainbow"}, s.Palettes)
	assert.Equal(t, 2022, s.TargetYearHDI, "unset keys keep defaults")
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "saved.yaml")
	s := config.Defaults()
	s.DPI = 150
	s.CorrelationFromYear = 2018
	require.NoError(t, config.Save(s, path))

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestValidate(t *testing.T) {
	s := config.Defaults()
	s.CorrelationFromYear = 2023
	s.DPI = 0
	s.Palettes = nil
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "correlation_from_year")
	assert.Contains(t, err.Error(), "dpi")
	assert.Contains(t, err.Error(), "palettes")
}

func TestInputPathsResolveAgainstInputDir(t *testing.T) {
	s := config.Defaults()
	s.InputDir = "/data"
	s.HappinessFile = "/abs/happy.csv"
	assert.Equal(t, filepath.Join("/data", config.DefaultHDIFile), s.HDIPath())
	assert.Equal(t, "/abs/happy.csv", s.HappinessPath())
}
