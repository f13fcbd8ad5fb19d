package correlation

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/dataset"
)

// Frame is a keyed table of float columns. Values[col][i] belongs to Keys[i].
type Frame struct {
	Keys    []dataset.CountryKey
	Columns []string
	Values  map[string][]float64
}

// NewFrame returns an empty frame with no columns.
func NewFrame() *Frame {
	return &Frame{Values: map[string][]float64{}}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Keys)
}

// Empty reports whether the frame has no rows.
func (f *Frame) Empty() bool { return f.Len() == 0 }

// Column returns the values of a column, or nil if absent.
func (f *Frame) Column(name string) []float64 {
	if f == nil {
		return nil
	}
	return f.Values[name]
}

// InnerJoin keeps the rows of f whose key also appears in other, in f's
// order, and appends other's columns. Columns already present in f keep f's
// values.
func (f *Frame) InnerJoin(other *Frame) *Frame {
	keep := []string{dataset.ColEntity, dataset.ColCode}
	for _, c := range other.Columns {
		if _, exists := f.Values[c]; !exists {
			keep = append(keep, c)
		}
	}
	j := f.DataFrame().InnerJoin(other.DataFrame().Select(keep), dataset.ColEntity, dataset.ColCode)
	out, err := FrameFromDataFrame(j)
	if err != nil {
		return NewFrame()
	}
	return out
}

// DataFrame returns the frame as Entity, Code and one float column per
// frame column, in column order.
func (f *Frame) DataFrame() dataframe.DataFrame {
	entities := make([]string, f.Len())
	codes := make([]string, f.Len())
	for i, k := range f.Keys {
		entities[i], codes[i] = k.Entity, k.Code
	}
	cols := []series.Series{
		series.New(entities, series.String, dataset.ColEntity),
		series.New(codes, series.String, dataset.ColCode),
	}
	for _, c := range f.Columns {
		cols = append(cols, series.New(f.Values[c], series.Float, c))
	}
	return dataframe.New(cols...)
}

// FrameFromDataFrame converts a keyed data frame back into a Frame. Every
// column other than Entity and Code is read as float.
func FrameFromDataFrame(df dataframe.DataFrame) (*Frame, error) {
	keys, err := dataset.KeysOf(df)
	if err != nil {
		return nil, err
	}
	out := NewFrame()
	out.Keys = keys
	for _, name := range df.Names() {
		if name == dataset.ColEntity || name == dataset.ColCode {
			continue
		}
		col := df.Col(name)
		if col.Err != nil {
			return nil, col.Err
		}
		out.addColumn(name, col.Float())
	}
	return out, nil
}

// FrameFromPairs builds a two-column frame from paired observations.
func FrameFromPairs(pairs []dataset.Pair, xCol, yCol string) *Frame {
	f := NewFrame()
	xs := make([]float64, 0, len(pairs))
	ys := make([]float64, 0, len(pairs))
	for _, p := range pairs {
		f.Keys = append(f.Keys, p.Key)
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	f.addColumn(xCol, xs)
	f.addColumn(yCol, ys)
	return f
}

func (f *Frame) addColumn(name string, vals []float64) {
	f.Columns = append(f.Columns, name)
	f.Values[name] = vals
}
