// Package dataset holds the small column-oriented table the pipeline passes
// between stages. Columns are never mutated once a frame holds them; every
// transformation returns a new frame that shares the untouched columns.
package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Kind is the storage type of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	Time
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// Column is a named, typed vector. Missing values are NaN for numeric
// columns, "" for categorical columns and the zero time for time columns.
type Column struct {
	Name  string
	Kind  Kind
	Num   []float64
	Str   []string
	Times []time.Time
}

// NumericColumn builds a numeric column.
func NumericColumn(name string, values []float64) *Column {
	return &Column{Name: name, Kind: Numeric, Num: values}
}

// ParseNumber parses s as a finite float. ok is false for text that is not
// a number; NaN and infinite literals parse as missing with ok true.
func ParseNumber(s string) (v float64, ok bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN(), false
	}
	if math.IsInf(v, 0) {
		return math.NaN(), true
	}
	return v, true
}

// Finite returns values with infinities replaced by NaN, copying only when
// it has to. changed reports whether a copy was made.
func Finite(values []float64) (out []float64, changed bool) {
	out = values
	for i, v := range values {
		if !math.IsInf(v, 0) {
			continue
		}
		if !changed {
			out = make([]float64, len(values))
			copy(out, values)
			changed = true
		}
		out[i] = math.NaN()
	}
	return out, changed
}

// CategoricalColumn builds a categorical column.
func CategoricalColumn(name string, values []string) *Column {
	return &Column{Name: name, Kind: Categorical, Str: values}
}

// TimeColumn builds a time column.
func TimeColumn(name string, values []time.Time) *Column {
	return &Column{Name: name, Kind: Time, Times: values}
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case Numeric:
		return len(c.Num)
	case Time:
		return len(c.Times)
	default:
		return len(c.Str)
	}
}

// IsMissing reports whether the i-th value is missing.
func (c *Column) IsMissing(i int) bool {
	switch c.Kind {
	case Numeric:
		return math.IsNaN(c.Num[i])
	case Time:
		return c.Times[i].IsZero()
	default:
		return c.Str[i] == ""
	}
}

// MissingCount returns how many values are missing.
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// StringAt renders the i-th value for text output. Missing values render
// as the empty string.
func (c *Column) StringAt(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	switch c.Kind {
	case Numeric:
		return strconv.FormatFloat(c.Num[i], 'f', -1, 64)
	case Time:
		return c.Times[i].UTC().Format(time.RFC3339)
	default:
		return c.Str[i]
	}
}

func (c *Column) take(idx []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case Numeric:
		out.Num = make([]float64, len(idx))
		for j, i := range idx {
			out.Num[j] = c.Num[i]
		}
	case Time:
		out.Times = make([]time.Time, len(idx))
		for j, i := range idx {
			out.Times[j] = c.Times[i]
		}
	default:
		out.Str = make([]string, len(idx))
		for j, i := range idx {
			out.Str[j] = c.Str[i]
		}
	}
	return out
}

// Frame is an ordered set of equal-length columns.
type Frame struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New builds a frame from columns, which must share one length and carry
// unique names.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := f.index[c.Name]; dup {
			return nil, errors.Newf("duplicate column %q", c.Name)
		}
		if i == 0 {
			f.rows = c.Len()
		} else if c.Len() != f.rows {
			return nil, errors.Newf("column %q has %d values, want %d", c.Name, c.Len(), f.rows)
		}
		f.index[c.Name] = i
		f.cols = append(f.cols, c)
	}
	return f, nil
}

// MustNew is New for literals in tests and fixed layouts.
func MustNew(cols ...*Column) *Frame {
	f, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int { return f.rows }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order.
func (f *Frame) Columns() []*Column {
	out := make([]*Column, len(f.cols))
	copy(out, f.cols)
	return out
}

// Has reports whether the frame holds a column called name.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column looks a column up by name.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Missing returns the sorted subset of names the frame lacks.
func (f *Frame) Missing(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !f.Has(n) {
			missing = append(missing, n)
		}
	}
	sort.Strings(missing)
	return missing
}

// With returns a frame where col replaces the column of the same name, or
// is appended when no such column exists.
func (f *Frame) With(col *Column) (*Frame, error) {
	if len(f.cols) > 0 && col.Len() != f.rows {
		return nil, errors.Newf("column %q has %d values, want %d", col.Name, col.Len(), f.rows)
	}
	cols := f.Columns()
	if i, ok := f.index[col.Name]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return New(cols...)
}

// Drop returns a frame without the named columns.
func (f *Frame) Drop(names ...string) *Frame {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	var cols []*Column
	for _, c := range f.cols {
		if !skip[c.Name] {
			cols = append(cols, c)
		}
	}
	out, _ := New(cols...)
	return out
}

// Take returns the rows at idx, in that order.
func (f *Frame) Take(idx []int) *Frame {
	cols := make([]*Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.take(idx)
	}
	out, _ := New(cols...)
	out.rows = len(idx)
	return out
}

// Row returns the i-th row as a field-to-value map. Missing values are
// omitted.
func (f *Frame) Row(i int) map[string]any {
	row := make(map[string]any, len(f.cols))
	for _, c := range f.cols {
		if c.IsMissing(i) {
			continue
		}
		switch c.Kind {
		case Numeric:
			row[c.Name] = c.Num[i]
		case Time:
			row[c.Name] = c.Times[i]
		default:
			row[c.Name] = c.Str[i]
		}
	}
	return row
}
