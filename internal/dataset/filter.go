package dataset

import "sort"

// FilterOptions controls which rows survive a year filter.
type FilterOptions struct {
	// RequireCode drops aggregates without a country code.
	RequireCode bool
}

// Slice holds one year of one metric family, indexed by CountryKey.
// Keys are unique; when the source repeats a key the first row wins.
type Slice struct {
	Year   int
	Metric string
	Column string
	Keys   []CountryKey
	Values map[CountryKey]float64
}

// Year selects rows for the given year that have a non-empty entity and a
// valid metric value.
func (t *Table) Year(year int, opt FilterOptions) *Slice {
	s := &Slice{Year: year, Metric: t.Metric, Column: t.Column, Values: map[CountryKey]float64{}}
	for _, r := range t.Rows {
		if r.Year != year || !r.Valid || r.Entity == "" {
			continue
		}
		if opt.RequireCode && !r.HasCode() {
			continue
		}
		k := r.Key()
		if _, dup := s.Values[k]; dup {
			continue
		}
		s.Keys = append(s.Keys, k)
		s.Values[k] = r.Value
	}
	return s
}

// Len returns the number of countries in the slice.
func (s *Slice) Len() int { return len(s.Keys) }

// Empty reports whether the slice has no rows.
func (s *Slice) Empty() bool { return len(s.Keys) == 0 }

// Entry is a key/value pair from a slice.
type Entry struct {
	Key   CountryKey
	Value float64
}

// Entries returns the slice rows in source order.
func (s *Slice) Entries() []Entry {
	out := make([]Entry, 0, len(s.Keys))
	for _, k := range s.Keys {
		out = append(out, Entry{Key: k, Value: s.Values[k]})
	}
	return out
}

// TopN returns up to n entries sorted by value descending. Ties keep
// source order.
func (s *Slice) TopN(n int) []Entry {
	all := s.Entries()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Value > all[j].Value })
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// Range returns the minimum and maximum value of the slice. ok is false for
// an empty slice.
func (s *Slice) Range() (lo, hi float64, ok bool) {
	for i, k := range s.Keys {
		v := s.Values[k]
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi, len(s.Keys) > 0
}

// Pair is a country with values from two slices.
type Pair struct {
	Key  CountryKey
	X, Y float64
}
