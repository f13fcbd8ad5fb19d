package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/pipeline"
)

var (
	runYear     int
	runLifeYear int
	runFrom     int
	runTo       int
	runTopN     int
	runNoXLSX   bool
)

var runPipelineCmd = &cobra.Command{
	Use:   "run",
	Short: "Render every comparison chart and write the reports",
	Long: `Loads the HDI, happiness and life-expectancy inputs and writes one PNG per chart
type, each with a panel per palette, followed by the correlation summary, the XLSX
workbook and the run manifest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd)
	},
}

// runPipeline renders everything. Flags that cmd does not define read as unchanged.
func runPipeline(cmd *cobra.Command) error {
	s, err := settings()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("year") {
		s.TargetYearHDI = runYear
		s.TargetYearLifeExpectancy = runYear
	}
	if f.Changed("life-year") {
		s.TargetYearLifeExpectancy = runLifeYear
	}
	if f.Changed("from") {
		s.CorrelationFromYear = runFrom
	}
	if f.Changed("to") {
		s.CorrelationToYear = runTo
	}
	if f.Changed("top") {
		s.TopN = runTopN
	}
	if f.Changed("no-xlsx") && runNoXLSX {
		s.ExportXLSX = false
	}

	rep := consoleReporter{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}
	res, err := pipeline.Run(cmd.Context(), s, logger, rep)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d charts, %d skipped, run %s\n",
		len(res.Manifest.Charts), len(res.Manifest.Skipped), res.Manifest.RunID)
	return nil
}

func init() {
	rootCmd.AddCommand(runPipelineCmd)
	runPipelineCmd.Flags().IntVar(&runYear, "year", 0, "target year for the bar, scatter and metric heatmap charts")
	runPipelineCmd.Flags().IntVar(&runLifeYear, "life-year", 0, "target year for life expectancy (defaults to --year)")
	runPipelineCmd.Flags().IntVar(&runFrom, "from", 0, "first year of the year-to-year correlation")
	runPipelineCmd.Flags().IntVar(&runTo, "to", 0, "last year of the year-to-year correlation")
	runPipelineCmd.Flags().IntVar(&runTopN, "top", 0, "number of countries in the bar chart")
	runPipelineCmd.Flags().BoolVar(&runNoXLSX, "no-xlsx", false, "skip the XLSX workbook")
}
