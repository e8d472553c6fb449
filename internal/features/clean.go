package features

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/montanaflynn/stats"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
)

// Deduplicate drops rows whose transaction id was already seen. The first
// occurrence wins. Rows without an id are kept.
func Deduplicate(batch *dataset.Frame) (*dataset.Frame, int, error) {
	if err := requireColumns(batch, "deduplicate", domain.ColTransactionID); err != nil {
		return nil, 0, err
	}
	ids, _ := batch.Column(domain.ColTransactionID)

	seen := make(map[string]bool, batch.Len())
	keep := make([]int, 0, batch.Len())
	for i := 0; i < batch.Len(); i++ {
		id := ids.StringAt(i)
		if id != "" {
			if seen[id] {
				continue
			}
			seen[id] = true
		}
		keep = append(keep, i)
	}
	return batch.Take(keep), batch.Len() - len(keep), nil
}

// ToNumeric returns the column coerced to numeric. Values that do not
// parse, and infinities, become NaN.
func ToNumeric(col *dataset.Column) *dataset.Column {
	switch col.Kind {
	case dataset.Numeric:
		finite, changed := dataset.Finite(col.Num)
		if !changed {
			return col
		}
		return dataset.NumericColumn(col.Name, finite)
	case dataset.Time:
		out := make([]float64, len(col.Times))
		for i, t := range col.Times {
			if t.IsZero() {
				out[i] = math.NaN()
			} else {
				out[i] = float64(t.Unix())
			}
		}
		return dataset.NumericColumn(col.Name, out)
	}

	out := make([]float64, len(col.Str))
	for i, s := range col.Str {
		out[i], _ = dataset.ParseNumber(s)
	}
	return dataset.NumericColumn(col.Name, out)
}

// CoerceAmounts makes Amount numeric and fills Value with |Amount| when the
// batch does not carry it.
func CoerceAmounts(batch *dataset.Frame) (*dataset.Frame, error) {
	if err := requireColumns(batch, "coerce amounts", domain.ColAmount); err != nil {
		return nil, err
	}
	amountCol, _ := batch.Column(domain.ColAmount)
	amount := ToNumeric(amountCol)
	out, err := batch.With(amount)
	if err != nil {
		return nil, err
	}

	if valueCol, ok := batch.Column(domain.ColValue); ok {
		return out.With(ToNumeric(valueCol))
	}
	abs := make([]float64, len(amount.Num))
	for i, v := range amount.Num {
		abs[i] = math.Abs(v)
	}
	return out.With(dataset.NumericColumn(domain.ColValue, abs))
}

// DropMissing removes rows with a missing value in any of the named columns.
func DropMissing(batch *dataset.Frame, names ...string) (*dataset.Frame, int, error) {
	if err := requireColumns(batch, "drop missing", names...); err != nil {
		return nil, 0, err
	}
	cols := make([]*dataset.Column, len(names))
	for i, n := range names {
		cols[i], _ = batch.Column(n)
	}

	keep := make([]int, 0, batch.Len())
rows:
	for i := 0; i < batch.Len(); i++ {
		for _, c := range cols {
			if c.IsMissing(i) {
				continue rows
			}
		}
		keep = append(keep, i)
	}
	return batch.Take(keep), batch.Len() - len(keep), nil
}

// CapOutliers clips a numeric column to its [lower, upper] quantiles.
// Quantiles are fractions in (0, 1]. Missing values stay missing.
func CapOutliers(batch *dataset.Frame, column string, lower, upper float64) (*dataset.Frame, error) {
	if lower <= 0 || upper > 1 || lower >= upper {
		return nil, errors.Newf("invalid quantile range [%g, %g]", lower, upper)
	}
	if err := requireColumns(batch, "cap outliers", column); err != nil {
		return nil, err
	}
	col, _ := batch.Column(column)
	col = ToNumeric(col)

	present := make([]float64, 0, len(col.Num))
	for _, v := range col.Num {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return batch, nil
	}

	low, err := stats.Percentile(present, lower*100)
	if err != nil {
		low, _ = stats.Min(present)
	}
	high, err := stats.Percentile(present, upper*100)
	if err != nil {
		high, _ = stats.Max(present)
	}

	out := make([]float64, len(col.Num))
	for i, v := range col.Num {
		switch {
		case math.IsNaN(v):
			out[i] = v
		case v < low:
			out[i] = low
		case v > high:
			out[i] = high
		default:
			out[i] = v
		}
	}
	return batch.With(dataset.NumericColumn(column, out))
}
