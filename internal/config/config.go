package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Default input file names, relative to InputDir.
const (
	DefaultHDIFile            = "human-development-index.csv"
	DefaultHappinessFile      = "happiness-cantril-ladder.csv"
	DefaultLifeExpectancyFile = "life-expectancy.csv"
)

// Settings is the immutable run configuration. It is loaded once and passed
// by value into every pipeline step.
type Settings struct {
	InputDir           string `mapstructure:"input_dir" yaml:"input_dir" json:"input_dir"`
	HDIFile            string `mapstructure:"hdi_file" yaml:"hdi_file" json:"hdi_file"`
	HappinessFile      string `mapstructure:"happiness_file" yaml:"happiness_file" json:"happiness_file"`
	LifeExpectancyFile string `mapstructure:"life_expectancy_file" yaml:"life_expectancy_file" json:"life_expectancy_file"`
	OutputDir          string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`

	// Source value columns. Empty means "first column that is not Entity/Code/Year".
	HDIColumn            string `mapstructure:"hdi_column" yaml:"hdi_column" json:"hdi_column"`
	HappinessColumn      string `mapstructure:"happiness_column" yaml:"happiness_column" json:"happiness_column"`
	LifeExpectancyColumn string `mapstructure:"life_expectancy_column" yaml:"life_expectancy_column" json:"life_expectancy_column"`

	TargetYearHDI            int `mapstructure:"target_year_hdi" yaml:"target_year_hdi" json:"target_year_hdi"`
	TargetYearLifeExpectancy int `mapstructure:"target_year_life_expectancy" yaml:"target_year_life_expectancy" json:"target_year_life_expectancy"`
	CorrelationFromYear      int `mapstructure:"correlation_from_year" yaml:"correlation_from_year" json:"correlation_from_year"`
	CorrelationToYear        int `mapstructure:"correlation_to_year" yaml:"correlation_to_year" json:"correlation_to_year"`
	MinCountries             int `mapstructure:"min_countries" yaml:"min_countries" json:"min_countries"`
	TopN                     int `mapstructure:"top_n" yaml:"top_n" json:"top_n"`

	// Rendering
	DPI           int      `mapstructure:"dpi" yaml:"dpi" json:"dpi"`
	TitleFontSize float64  `mapstructure:"title_font_size" yaml:"title_font_size" json:"title_font_size"`
	LabelFontSize float64  `mapstructure:"label_font_size" yaml:"label_font_size" json:"label_font_size"`
	AnnotFontSize float64  `mapstructure:"annot_font_size" yaml:"annot_font_size" json:"annot_font_size"`
	Palettes      []string `mapstructure:"palettes" yaml:"palettes" json:"palettes"`

	// Supplementary outputs
	ExportXLSX    bool `mapstructure:"export_xlsx" yaml:"export_xlsx" json:"export_xlsx"`
	WriteSummary  bool `mapstructure:"write_summary" yaml:"write_summary" json:"write_summary"`
	WriteManifest bool `mapstructure:"write_manifest" yaml:"write_manifest" json:"write_manifest"`
}

// Defaults returns the settings used when no config file or env override is present.
func Defaults() Settings {
	return Settings{
		InputDir:                 ".",
		HDIFile:                  DefaultHDIFile,
		HappinessFile:            DefaultHappinessFile,
		LifeExpectancyFile:       DefaultLifeExpectancyFile,
		OutputDir:                "outputs",
		HDIColumn:                "Human Development Index",
		HappinessColumn:          "Cantril ladder score",
		LifeExpectancyColumn:     "Period life expectancy at birth - Sex: total - Age: 0",
		TargetYearHDI:            2022,
		TargetYearLifeExpectancy: 2022,
		CorrelationFromYear:      2016,
		CorrelationToYear:        2022,
		MinCountries:             5,
		TopN:                     20,
		DPI:                      300,
		TitleFontSize:            15,
		LabelFontSize:            12,
		AnnotFontSize:            9,
		Palettes:                 []string{"rainbow", "batlow", "lapaz", "bamako"},
		ExportXLSX:               true,
		WriteSummary:             true,
		WriteManifest:            true,
	}
}

// HDIPath returns the resolved HDI input path.
func (s Settings) HDIPath() string { return s.resolve(s.HDIFile) }

// HappinessPath returns the resolved happiness input path.
func (s Settings) HappinessPath() string { return s.resolve(s.HappinessFile) }

// LifeExpectancyPath returns the resolved life-expectancy input path.
func (s Settings) LifeExpectancyPath() string { return s.resolve(s.LifeExpectancyFile) }

func (s Settings) resolve(name string) string {
	if filepath.IsAbs(name) || s.InputDir == "" {
		return name
	}
	return filepath.Join(s.InputDir, name)
}

// Validate reports configuration values that would make a run meaningless.
func (s Settings) Validate() error {
	var errs []error
	if s.CorrelationFromYear > s.CorrelationToYear {
		errs = append(errs, fmt.Errorf("correlation_from_year %d is after correlation_to_year %d", s.CorrelationFromYear, s.CorrelationToYear))
	}
	if s.MinCountries < 2 {
		errs = append(errs, fmt.Errorf("min_countries must be >= 2, got %d", s.MinCountries))
	}
	if s.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %d", s.DPI))
	}
	if s.TopN <= 0 {
		errs = append(errs, fmt.Errorf("top_n must be positive, got %d", s.TopN))
	}
	if len(s.Palettes) == 0 {
		errs = append(errs, errors.New("palettes must not be empty"))
	}
	if s.OutputDir == "" {
		errs = append(errs, errors.New("output_dir must not be empty"))
	}
	return errors.Join(errs...)
}

// Save writes the given settings to cfgFile. If cfgFile is empty, it writes to
// ~/.cmapcompare/config.yaml, creating the directory if necessary.
func Save(s Settings, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads settings from file, env, and defaults.
// Precedence: env > config file > defaults. CLI flags are applied by the caller.
func Load(cfgFile string) (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("CMAPCMP")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("input_dir", d.InputDir)
	v.SetDefault("hdi_file", d.HDIFile)
	v.SetDefault("happiness_file", d.HappinessFile)
	v.SetDefault("life_expectancy_file", d.LifeExpectancyFile)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("hdi_column", d.HDIColumn)
	v.SetDefault("happiness_column", d.HappinessColumn)
	v.SetDefault("life_expectancy_column", d.LifeExpectancyColumn)
	v.SetDefault("target_year_hdi", d.TargetYearHDI)
	v.SetDefault("target_year_life_expectancy", d.TargetYearLifeExpectancy)
	v.SetDefault("correlation_from_year", d.CorrelationFromYear)
	v.SetDefault("correlation_to_year", d.CorrelationToYear)
	v.SetDefault("min_countries", d.MinCountries)
	v.SetDefault("top_n", d.TopN)
	// Rendering defaults
	v.SetDefault("dpi", d.DPI)
	v.SetDefault("title_font_size", d.TitleFontSize)
	v.SetDefault("label_font_size", d.LabelFontSize)
	v.SetDefault("annot_font_size", d.AnnotFontSize)
	v.SetDefault("palettes", d.Palettes)
	v.SetDefault("export_xlsx", d.ExportXLSX)
	v.SetDefault("write_summary", d.WriteSummary)
	v.SetDefault("write_manifest", d.WriteManifest)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return Settings{}, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit --config must exist; the default location is optional
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return s, nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".cmapcompare"), nil
}
