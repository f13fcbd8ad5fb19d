package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// LoadTable reads one table. A missing file yields an error wrapping
// ErrMissingInput.
func LoadTable(spec Spec) (*Table, error) {
	if _, err := os.Stat(spec.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, spec.Path)
		}
		return nil, fmt.Errorf("stat input: %w", err)
	}
	src, err := sourceFor(spec.Path)
	if err != nil {
		return nil, err
	}
	header, records, err := src.Read(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(spec.Path), err)
	}
	return buildTable(spec, header, records)
}

// LoadAll reads every spec in parallel and returns the tables in spec order.
// The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, specs ...Spec) ([]*Table, error) {
	out := make([]*Table, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := LoadTable(spec)
			if err != nil {
				return err
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func buildTable(spec Spec, header []string, records [][]string) (*Table, error) {
	name := filepath.Base(spec.Path)
	idx := map[string]int{}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, req := range []string{ColEntity, ColYear} {
		if _, ok := idx[req]; !ok {
			return nil, fmt.Errorf("%s: %w: %s", name, ErrNoColumn, req)
		}
	}
	iEntity, iYear := idx[ColEntity], idx[ColYear]
	iCode, hasCode := idx[ColCode]

	iValue, ok := idx[spec.Column]
	column := spec.Column
	if !ok {
		iValue = -1
		for i, h := range header {
			switch strings.TrimSpace(h) {
			case ColEntity, ColCode, ColYear:
				continue
			}
			iValue, column = i, strings.TrimSpace(h)
			break
		}
		if iValue < 0 {
			return nil, fmt.Errorf("%s: %w: value column %q", name, ErrNoColumn, spec.Column)
		}
	}

	// Comma-delimited exports quote grouped numbers like "1,234"; tab-separated
	// ones use the comma as a decimal mark.
	groupComma := !hasExt(spec.Path, ".tsv")

	t := &Table{Name: name, Metric: spec.Metric, Column: column}
	for _, rec := range records {
		entity := strings.TrimSpace(cell(rec, iEntity))
		year, err := strconv.Atoi(strings.TrimSpace(cell(rec, iYear)))
		if entity == "" || err != nil {
			t.Skipped++
			continue
		}
		o := Observation{Entity: entity, Year: year}
		if hasCode {
			o.Code = strings.TrimSpace(cell(rec, iCode))
		}
		o.Value, o.Valid = parseNumeric(cell(rec, iValue), groupComma)
		t.Rows = append(t.Rows, o)
	}
	return t, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
