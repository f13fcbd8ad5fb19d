package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set cmapcompare configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "input_dir: %s\n", s.InputDir)
		fmt.Fprintf(out, "hdi_file: %s\n", s.HDIFile)
		fmt.Fprintf(out, "happiness_file: %s\n", s.HappinessFile)
		fmt.Fprintf(out, "life_expectancy_file: %s\n", s.LifeExpectancyFile)
		fmt.Fprintf(out, "output_dir: %s\n", s.OutputDir)
		fmt.Fprintf(out, "hdi_column: %s\n", s.HDIColumn)
		fmt.Fprintf(out, "happiness_column: %s\n", s.HappinessColumn)
		fmt.Fprintf(out, "life_expectancy_column: %s\n", s.LifeExpectancyColumn)
		fmt.Fprintf(out, "target_year_hdi: %d\n", s.TargetYearHDI)
		fmt.Fprintf(out, "target_year_life_expectancy: %d\n", s.TargetYearLifeExpectancy)
		fmt.Fprintf(out, "correlation_from_year: %d\n", s.CorrelationFromYear)
		fmt.Fprintf(out, "correlation_to_year: %d\n", s.CorrelationToYear)
		fmt.Fprintf(out, "min_countries: %d\n", s.MinCountries)
		fmt.Fprintf(out, "top_n: %d\n", s.TopN)
		fmt.Fprintf(out, "dpi: %d\n", s.DPI)
		fmt.Fprintf(out, "title_font_size: %.1f\n", s.TitleFontSize)
		fmt.Fprintf(out, "label_font_size: %.1f\n", s.LabelFontSize)
		fmt.Fprintf(out, "annot_font_size: %.1f\n", s.AnnotFontSize)
		fmt.Fprintf(out, "palettes: %s\n", strings.Join(s.Palettes, ","))
		fmt.Fprintf(out, "export_xlsx: %t\n", s.ExportXLSX)
		fmt.Fprintf(out, "write_summary: %t\n", s.WriteSummary)
		fmt.Fprintf(out, "write_manifest: %t\n", s.WriteManifest)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the file on disk so flag overrides are not persisted.
		s, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "input_dir":
			s.InputDir = val
		case "hdi_file":
			s.HDIFile = val
		case "happiness_file":
			s.HappinessFile = val
		case "life_expectancy_file":
			s.LifeExpectancyFile = val
		case "output_dir":
			s.OutputDir = val
		case "hdi_column":
			s.HDIColumn = val
		case "happiness_column":
			s.HappinessColumn = val
		case "life_expectancy_column":
			s.LifeExpectancyColumn = val
		case "target_year_hdi", "target_year_life_expectancy", "correlation_from_year",
			"correlation_to_year", "min_countries", "top_n", "dpi":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for %s: %w", key, err)
			}
			setInt(&s, key, i)
		case "title_font_size", "label_font_size", "annot_font_size":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for %s: %v", key, val)
			}
			switch key {
			case "title_font_size":
				s.TitleFontSize = f
			case "label_font_size":
				s.LabelFontSize = f
			default:
				s.AnnotFontSize = f
			}
		case "palettes":
			var ids []string
			for _, p := range strings.Split(val, ",") {
				if p = strings.TrimSpace(p); p != "" {
					ids = append(ids, p)
				}
			}
			s.Palettes = ids
		case "export_xlsx", "write_summary", "write_manifest":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %w", key, err)
			}
			switch key {
			case "export_xlsx":
				s.ExportXLSX = b
			case "write_summary":
				s.WriteSummary = b
			default:
				s.WriteManifest = b
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if err := config.Save(s, cfgFile); err != nil {
			return err
		}
		cfg = &s
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setInt(s *config.Settings, key string, v int) {
	switch key {
	case "target_year_hdi":
		s.TargetYearHDI = v
	case "target_year_life_expectancy":
		s.TargetYearLifeExpectancy = v
	case "correlation_from_year":
		s.CorrelationFromYear = v
	case "correlation_to_year":
		s.CorrelationToYear = v
	case "min_countries":
		s.MinCountries = v
	case "top_n":
		s.TopN = v
	case "dpi":
		s.DPI = v
	}
}
