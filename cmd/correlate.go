package cmd

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/pipeline"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/report"
)

var (
	corrFrom int
	corrTo   int
	corrMin  int
	corrXLSX string
)

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Print the year-to-year HDI and happiness correlations",
	Long: `Joins HDI and happiness per year over the configured range, keeps the countries
present in every retained year and prints both Pearson matrices. No charts are drawn.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings()
		if err != nil {
			return err
		}
		f := cmd.Flags()
		if f.Changed("from") {
			s.CorrelationFromYear = corrFrom
		}
		if f.Changed("to") {
			s.CorrelationToYear = corrTo
		}
		if f.Changed("min-countries") {
			s.MinCountries = corrMin
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("invalid settings: %w", err)
		}

		in, err := pipeline.Load(cmd.Context(), s)
		if err != nil {
			return err
		}
		c, err := pipeline.Correlate(in.HDI, in.Happiness, s)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		warn := color.New(color.FgYellow)
		fmt.Fprintf(out, "Years %s, %d common countries\n\n", c.Years, c.Join.Table.Len())
		printJoin(out, c)
		if len(c.Join.Dropped) > 0 {
			warn.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: dropped years with fewer than %d countries: %v\n", c.Join.MinRows, c.Join.Dropped)
		}
		if c.Join.Weak {
			warn.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: only %d common countries, correlations are unreliable\n", c.Join.Table.Len())
		}
		for _, m := range c.Summaries() {
			fmt.Fprintf(out, "\n%s\n", m.Name)
			if m.Matrix.Empty() {
				fmt.Fprintln(out, "  not enough years to correlate")
				continue
			}
			printMatrix(out, m)
		}

		if corrXLSX != "" {
			if err := report.ExportXLSX(corrXLSX, c.Summaries(), c.Join.Table); err != nil {
				return fmt.Errorf("export xlsx: %w", err)
			}
			color.New(color.FgGreen).Fprintf(out, "\n✓ Wrote %s\n", corrXLSX)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(correlateCmd)
	correlateCmd.Flags().IntVar(&corrFrom, "from", 0, "first year (overrides config)")
	correlateCmd.Flags().IntVar(&corrTo, "to", 0, "last year (overrides config)")
	correlateCmd.Flags().IntVar(&corrMin, "min-countries", 0, "minimum countries for a year to be kept (overrides config)")
	correlateCmd.Flags().StringVar(&corrXLSX, "xlsx", "", "also export the matrices to this XLSX file")
}

func printJoin(w io.Writer, c *pipeline.Correlations) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Year", "Countries", "Status"})
	for _, y := range c.Join.PerYear {
		status := "kept"
		if !y.Retained {
			status = "dropped"
		}
		table.Append([]string{strconv.Itoa(y.Year), strconv.Itoa(y.Rows), status})
	}
	table.Render()
}

func printMatrix(w io.Writer, m report.MatrixSummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(append([]string{""}, m.Matrix.Labels...))
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i, l := range m.Matrix.Labels {
		row := []string{l}
		for j := range m.Matrix.Labels {
			row = append(row, formatR(m.Matrix.At(i, j)))
		}
		table.Append(row)
	}
	table.Render()
	if m.Bounds != nil {
		fmt.Fprintf(w, "Color scale: %.3f to %.3f\n", m.Bounds.Min, m.Bounds.Max)
	}
}

func formatR(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
