// Package dataset loads country/year metric tables and slices them by year.
package dataset

import (
	"errors"
	"sort"
)

// Column names shared by all sources.
const (
	ColEntity = "Entity"
	ColCode   = "Code"
	ColYear   = "Year"
)

var (
	// ErrMissingInput indicates an input file does not exist.
	ErrMissingInput = errors.New("input file not found")
	// ErrNoColumn indicates a required column is absent from the header.
	ErrNoColumn = errors.New("required column not found")
)

// Observation is one (Entity, Code, Year, value) row. An empty Code marks
// non-country aggregates such as "World" or continents.
type Observation struct {
	Entity string
	Code   string
	Year   int
	Value  float64
	// Valid is false when the metric cell was empty or unparsable.
	Valid bool
}

// HasCode reports whether the row belongs to a country.
func (o Observation) HasCode() bool { return o.Code != "" }

// Key returns the join key of the observation.
func (o Observation) Key() CountryKey { return CountryKey{Entity: o.Entity, Code: o.Code} }

// CountryKey is the (Entity, Code) join key.
type CountryKey struct {
	Entity string
	Code   string
}

// Table is the in-memory form of one source file.
type Table struct {
	Name   string // file base name
	Metric string // metric family, e.g. "HDI"
	Column string // source value column header
	Rows   []Observation
	// Skipped counts rows dropped at load time (unparsable year, empty entity).
	Skipped int
}

// Years returns the distinct years present in the table, ascending.
func (t *Table) Years() []int {
	seen := map[int]struct{}{}
	for _, r := range t.Rows {
		seen[r.Year] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Spec describes a table to load.
type Spec struct {
	Path   string
	Metric string
	// Column is the preferred value column; when it is not present in the
	// header the first column that is not Entity/Code/Year is used.
	Column string
}
