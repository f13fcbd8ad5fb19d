package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/palette"
)

var palettesCmd = &cobra.Command{
	Use:   "palettes",
	Short: "List the available palettes and their luminance range",
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"ID", "Name", "Start", "End", "Min L", "Max L", "Monotonic"})
		for _, id := range palette.Known() {
			p, ok := palette.Lookup(id)
			if !ok {
				continue
			}
			lum := palette.Luminances(p, palette.GrayscaleSamples)
			table.Append([]string{
				p.ID,
				p.Name,
				hex(p, 0),
				hex(p, 1),
				fmt.Sprintf("%.3f", floats.Min(lum)),
				fmt.Sprintf("%.3f", floats.Max(lum)),
				yesNo(monotonic(lum)),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(palettesCmd)
}

func hex(p palette.Palette, t float64) string {
	r, g, b, _ := p.At(t).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// monotonic reports whether lum only rises or only falls.
func monotonic(lum []float64) bool {
	up, down := true, true
	for i := 1; i < len(lum); i++ {
		if lum[i] < lum[i-1] {
			up = false
		}
		if lum[i] > lum[i-1] {
			down = false
		}
	}
	return up || down
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
