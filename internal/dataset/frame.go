package dataset

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Value columns used when two slices are joined.
const (
	colX = "_x"
	colY = "_y"
)

// DataFrame returns the slice as an Entity, Code, value frame in key order.
func (s *Slice) DataFrame(value string) dataframe.DataFrame {
	entities := make([]string, len(s.Keys))
	codes := make([]string, len(s.Keys))
	vals := make([]float64, len(s.Keys))
	for i, k := range s.Keys {
		entities[i], codes[i], vals[i] = k.Entity, k.Code, s.Values[k]
	}
	return dataframe.New(
		series.New(entities, series.String, ColEntity),
		series.New(codes, series.String, ColCode),
		series.New(vals, series.Float, value),
	)
}

// KeysOf reads the Entity and Code columns of df.
func KeysOf(df dataframe.DataFrame) ([]CountryKey, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	entities := df.Col(ColEntity)
	if entities.Err != nil {
		return nil, fmt.Errorf("%s column: %w", ColEntity, entities.Err)
	}
	codes := df.Col(ColCode)
	if codes.Err != nil {
		return nil, fmt.Errorf("%s column: %w", ColCode, codes.Err)
	}
	if df.Nrow() == 0 {
		return nil, nil
	}
	e, c := entities.Records(), codes.Records()
	keys := make([]CountryKey, len(e))
	for i := range e {
		keys[i] = CountryKey{Entity: e[i], Code: c[i]}
	}
	return keys, nil
}

// InnerJoin pairs rows present in both slices, in the order of s.
func (s *Slice) InnerJoin(other *Slice) []Pair {
	j := s.DataFrame(colX).InnerJoin(other.DataFrame(colY), ColEntity, ColCode)
	keys, err := KeysOf(j)
	if err != nil || len(keys) == 0 {
		return nil
	}
	xs, ys := j.Col(colX).Float(), j.Col(colY).Float()
	out := make([]Pair, len(keys))
	for i, k := range keys {
		out[i] = Pair{Key: k, X: xs[i], Y: ys[i]}
	}
	return out
}
