package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/config"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/pipeline"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/report"
)

// resetFlags clears values and Changed state that stick across invocations.
func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	})
}

// execute runs the root command with args and returns stdout.
func execute(args ...string) (string, error) {
	for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), runPipelineCmd.Flags(), correlateCmd.Flags()} {
		resetFlags(fs)
	}
	cfg = nil
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeInputs(t *testing.T, dir string) {
	t.Helper()
	d := config.Defaults()
	var hdi, hap, life []string
	for y := 2016; y <= 2022; y++ {
		for i := 0; i < 10; i++ {
			hdi = append(hdi, fmt.Sprintf("Country %d,C%02d,%d,%.3f", i, i, y, 0.45+0.05*float64(i)+0.001*float64((i+y)%3)))
			hap = append(hap, fmt.Sprintf("Country %d,C%02d,%d,%.2f", i, i, y, 4+0.3*float64(i)+0.05*float64((2*i+y)%4)))
		}
	}
	for i := 0; i < 10; i++ {
		life = append(life, fmt.Sprintf("Country %d,C%02d,2022,%.1f", i, i, 58+2*float64(i)))
	}
	files := map[string]string{
		d.HDIFile:            "Entity,Code,Year," + d.HDIColumn + "\n" + strings.Join(hdi, "\n"),
		d.HappinessFile:      "Entity,Code,Year," + d.HappinessColumn + "\n" + strings.Join(hap, "\n"),
		d.LifeExpectancyFile: "Entity,Code,Year," + d.LifeExpectancyColumn + "\n" + strings.Join(life, "\n"),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content+"\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestCLI_RunWritesCharts(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "data")
	out := filepath.Join(home, "out")
	if err := os.MkdirAll(in, 0o755); err != nil {
		t.Fatal(err)
	}
	writeInputs(t, in)

	stdout := runCmd(t, "run", "--input-dir", in, "-o", out, "--dpi", "12", "--palettes", "rainbow,lapaz")

	for _, f := range []string{pipeline.GradientFile, pipeline.BarsFile, pipeline.HDIHeatmapFile, report.ManifestFile, report.WorkbookFile} {
		if _, err := os.Stat(filepath.Join(out, f)); err != nil {
			t.Errorf("expected %s: %v", f, err)
		}
	}
	if !strings.Contains(stdout, "✓ Generated gradients") {
		t.Errorf("missing progress line, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "7 charts, 0 skipped") {
		t.Errorf("missing run footer, got:\n%s", stdout)
	}
}

func TestCLI_RootRunsPipeline(t *testing.T) {
	home := isolateHome(t)
	writeInputs(t, home)
	out := filepath.Join(home, "charts")

	stdout := runCmd(t, "--input-dir", home, "-o", out, "--dpi", "10", "--palettes", "bamako")
	if !strings.Contains(stdout, "✓ Generated hdi bars") {
		t.Errorf("missing bars line, got:\n%s", stdout)
	}
	if _, err := os.Stat(filepath.Join(out, pipeline.GrayscaleFile)); err != nil {
		t.Errorf("grayscale chart not written: %v", err)
	}
}

func TestCLI_RunMissingInputFails(t *testing.T) {
	home := isolateHome(t)
	_, err := execute("run", "--input-dir", filepath.Join(home, "nowhere"), "-o", filepath.Join(home, "out"))
	if err == nil {
		t.Fatalf("expected error for missing inputs")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCLI_RunUnknownPaletteFails(t *testing.T) {
	home := isolateHome(t)
	if _, err := execute("run", "--input-dir", home, "--palettes", "jet"); err == nil {
		t.Fatalf("expected error for unknown palette")
	}
}

func TestCLI_CorrelatePrintsMatrices(t *testing.T) {
	home := isolateHome(t)
	writeInputs(t, home)
	xlsx := filepath.Join(home, "corr.xlsx")

	stdout := runCmd(t, "correlate", "--input-dir", home, "--from", "2018", "--to", "2021", "--xlsx", xlsx)

	for _, want := range []string{"Years 2018-2021, 10 common countries", "HDI year-to-year", "Happiness year-to-year", "2019", "1.000"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
	if _, err := os.Stat(xlsx); err != nil {
		t.Errorf("xlsx not written: %v", err)
	}
}

func TestCLI_PalettesLists(t *testing.T) {
	isolateHome(t)
	stdout := runCmd(t, "palettes")
	for _, id := range []string{"rainbow", "batlow", "lapaz", "bamako"} {
		if !strings.Contains(stdout, id) {
			t.Errorf("palette %s not listed:\n%s", id, stdout)
		}
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := isolateHome(t)

	runCmd(t, "config", "set", "dpi", "150")
	runCmd(t, "config", "set", "palettes", "batlow, bamako")
	if _, err := os.Stat(filepath.Join(home, ".cmapcompare", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}

	stdout := runCmd(t, "config", "show")
	if !strings.Contains(stdout, "dpi: 150") {
		t.Errorf("dpi not persisted:\n%s", stdout)
	}
	if !strings.Contains(stdout, "palettes: batlow,bamako") {
		t.Errorf("palettes not persisted:\n%s", stdout)
	}

	// flags override the file without being saved
	stdout = runCmd(t, "config", "show", "--dpi", "72")
	if !strings.Contains(stdout, "dpi: 72") {
		t.Errorf("flag override not applied:\n%s", stdout)
	}

	if _, err := execute("config", "set", "dpi", "abc"); err == nil {
		t.Errorf("expected error for non-integer dpi")
	}
	if _, err := execute("config", "set", "min_countries", "1"); err == nil {
		t.Errorf("expected validation error for min_countries")
	}
	if _, err := execute("config", "set", "nope", "1"); err == nil {
		t.Errorf("expected error for unknown key")
	}
}

func TestLogLevel(t *testing.T) {
	if got := logLevel(false); got != zapcore.WarnLevel {
		t.Errorf("default level = %v, want warn", got)
	}
	if got := logLevel(true); got != zapcore.DebugLevel {
		t.Errorf("debug level = %v, want debug", got)
	}
	if !logLevel(false).Enabled(zapcore.WarnLevel) {
		t.Errorf("skipped-chart warnings must be emitted by default")
	}
	if logLevel(false).Enabled(zapcore.InfoLevel) {
		t.Errorf("info should stay quiet by default")
	}
}
