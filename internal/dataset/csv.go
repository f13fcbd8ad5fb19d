package dataset

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

type csvSource struct{}

func (csvSource) CanRead(path string) bool { return hasExt(path, ".csv", ".tsv", ".txt") }

// Read loads every cell as a string; typing happens in buildTable so that NA
// markers and decimal commas are handled in one place.
func (csvSource) Read(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.WithDelimiter(sniffDelimiter(path)),
		dataframe.WithLazyQuotes(true),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", df.Err)
	}
	records := df.Records()
	header := records[0]
	// Strip a UTF-8 BOM some exporters put in front of the first header.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header, records[1:], nil
}

func sniffDelimiter(path string) rune {
	if hasExt(path, ".tsv") {
		return '\t'
	}
	return ','
}

// thousands matches integers grouped with commas, such as 1,234 or 12,345,678.
var thousands = regexp.MustCompile(`^[+-]?[1-9]\d{0,2}(,\d{3})+$`)

// parseNumeric parses a metric cell. Empty cells, NA markers and non-finite
// values are not numbers. With groupComma set, a comma followed by groups of
// exactly three digits is a thousands separator; otherwise a lone comma is a
// decimal separator.
func parseNumeric(s string, groupComma bool) (float64, bool) {
	raw := strings.TrimSpace(s)
	switch strings.ToLower(raw) {
	case "", "na", "n/a", "nan", "null", "-":
		return 0, false
	}
	raw = strings.ReplaceAll(raw, "\u00a0", "")
	raw = strings.ReplaceAll(raw, " ", "")
	if groupComma && thousands.MatchString(raw) {
		raw = strings.ReplaceAll(raw, ",", "")
	}
	// Decide decimal separator when both appear: the last one wins.
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0 && cpos > dpos:
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.Replace(raw, ",", ".", 1)
	case cpos >= 0 && dpos >= 0:
		raw = strings.ReplaceAll(raw, ",", "")
	case cpos >= 0:
		raw = strings.Replace(raw, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
