package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsUnevenColumns(t *testing.T) {
	_, err := New(
		NumericColumn("a", []float64{1, 2}),
		NumericColumn("b", []float64{1}),
	)
	assert.Error(t, err)

	_, err = New(
		NumericColumn("a", []float64{1}),
		CategoricalColumn("a", []string{"x"}),
	)
	assert.Error(t, err)
}

func TestFrame_WithReplacesAndAppends(t *testing.T) {
	f := MustNew(NumericColumn("a", []float64{1, 2}))

	g, err := f.With(CategoricalColumn("b", []string{"x", "y"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, g.Names())

	h, err := g.With(NumericColumn("a", []float64{3, 4}))
	require.NoError(t, err)
	col, ok := h.Column("a")
	require.True(t, ok)
	assert.Equal(t, []float64{3, 4}, col.Num)

	// The source frame is untouched.
	col, _ = f.Column("a")
	assert.Equal(t, []float64{1, 2}, col.Num)
	assert.False(t, f.Has("b"))
}

func TestFrame_TakeAndRow(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	f := MustNew(
		NumericColumn("n", []float64{1, math.NaN(), 3}),
		CategoricalColumn("s", []string{"a", "b", ""}),
		TimeColumn("t", []time.Time{ts, {}, ts}),
	)

	g := f.Take([]int{2, 0})
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, map[string]any{"n": 3.0, "t": ts}, g.Row(0))
	assert.Equal(t, map[string]any{"n": 1.0, "s": "a", "t": ts}, g.Row(1))

	n, _ := f.Column("n")
	assert.Equal(t, 1, n.MissingCount())
	assert.Equal(t, "", n.StringAt(1))
	assert.Equal(t, "3", n.StringAt(2))
}

func TestFrame_MissingAndDrop(t *testing.T) {
	f := MustNew(
		NumericColumn("a", []float64{1}),
		NumericColumn("b", []float64{2}),
	)
	assert.Equal(t, []string{"c", "d"}, f.Missing("d", "a", "c"))
	assert.Equal(t, []string{"b"}, f.Drop("a").Names())
	assert.Equal(t, 1, f.Drop("a").Len())
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantOK  bool
		missing bool
	}{
		{in: "12.5", want: 12.5, wantOK: true},
		{in: " -3 ", want: -3, wantOK: true},
		{in: "inf", wantOK: true, missing: true},
		{in: "-Infinity", wantOK: true, missing: true},
		{in: "NaN", wantOK: true, missing: true},
		{in: "abc", missing: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.missing {
				assert.True(t, math.IsNaN(got))
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFinite(t *testing.T) {
	clean := []float64{1, math.NaN()}
	out, changed := Finite(clean)
	assert.False(t, changed)
	assert.Len(t, out, 2)

	dirty := []float64{1, math.Inf(1)}
	out, changed = Finite(dirty)
	assert.True(t, changed)
	assert.True(t, math.IsNaN(out[1]))
	assert.True(t, math.IsInf(dirty[1], 1))
}
