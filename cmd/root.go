package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Path/render flags (override config if set)
	flagInputDir  string
	flagOutputDir string
	flagDPI       int
	flagPalettes  []string

	// Loaded configuration
	cfg *config.Settings
	// Structured logger, built per invocation
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cmapcompare",
	Short: "Compare scientific colormaps on development and happiness data",
	Long: `cmapcompare renders the same HDI, happiness and life-expectancy charts once per
colormap (rainbow, batlow, lapaz, bamako) so perceptual differences can be judged
side by side. It also correlates HDI and happiness year to year.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(logLevel(debug))
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	// With no subcommand, render everything.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// logLevel keeps skipped-chart warnings visible unless --debug asks for more.
func logLevel(debug bool) zapcore.Level {
	if debug {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.cmapcompare/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagInputDir, "input-dir", "", "directory holding the input CSV files (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagOutputDir, "output-dir", "o", "", "directory for charts and reports (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagDPI, "dpi", 0, "PNG resolution (overrides config)")
	rootCmd.PersistentFlags().StringSliceVar(&flagPalettes, "palettes", nil, "comma-separated palettes to compare (overrides config)")
}

func loadConfig() {
	c, err := config.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so read-only commands still work
		color.New(color.FgYellow).Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = config.Defaults()
	}
	cfg = &c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("input-dir") && flagInputDir != "" {
		cfg.InputDir = flagInputDir
	}
	if f.Changed("output-dir") && flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if f.Changed("dpi") && flagDPI > 0 {
		cfg.DPI = flagDPI
	}
	if f.Changed("palettes") && len(flagPalettes) > 0 {
		cfg.Palettes = flagPalettes
	}
}

// settings returns the effective configuration, loading it if the
// initializer has not run.
func settings() (config.Settings, error) {
	if cfg == nil {
		c, err := config.Load(cfgFile)
		if err != nil {
			return config.Settings{}, err
		}
		cfg = &c
	}
	return *cfg, nil
}

// consoleReporter prints pipeline progress the way the other commands do.
type consoleReporter struct {
	out, err io.Writer
}

func (r consoleReporter) Generated(name, path string) {
	color.New(color.FgGreen).Fprintf(r.out, "✓ Generated %s: %s\n", name, path)
}

func (r consoleReporter) Skipped(name, reason string) {
	color.New(color.FgYellow).Fprintf(r.out, "⚠ Skipped %s: %s\n", name, reason)
}

func (r consoleReporter) Warn(msg string) {
	color.New(color.FgYellow).Fprintf(r.err, "⚠ Warning: %s\n", msg)
}
