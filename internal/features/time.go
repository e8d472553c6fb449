package features

import (
	"math"
	"strings"
	"time"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseTimestamp parses s in any of the accepted layouts. Values without a
// zone are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseTimestamps returns the batch with the timestamp column converted to
// a time column. Unparseable values become missing.
func ParseTimestamps(batch *dataset.Frame) (*dataset.Frame, error) {
	if err := requireColumns(batch, "parse timestamps", domain.ColTimestamp); err != nil {
		return nil, err
	}
	col, _ := batch.Column(domain.ColTimestamp)
	if col.Kind == dataset.Time {
		return batch, nil
	}

	times := make([]time.Time, col.Len())
	for i := range times {
		if t, ok := ParseTimestamp(col.StringAt(i)); ok {
			times[i] = t
		}
	}
	return batch.With(dataset.TimeColumn(domain.ColTimestamp, times))
}

// ExtractTimeFeatures parses the timestamp and adds hour of day, day of
// month, month and year columns. Rows are never discarded; a missing
// timestamp yields missing features.
func ExtractTimeFeatures(batch *dataset.Frame) (*dataset.Frame, error) {
	out, err := ParseTimestamps(batch)
	if err != nil {
		return nil, err
	}
	ts, _ := out.Column(domain.ColTimestamp)

	n := out.Len()
	hour, day, month, year := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for i, t := range ts.Times {
		if t.IsZero() {
			hour[i], day[i], month[i], year[i] = math.NaN(), math.NaN(), math.NaN(), math.NaN()
			continue
		}
		hour[i] = float64(t.Hour())
		day[i] = float64(t.Day())
		month[i] = float64(t.Month())
		year[i] = float64(t.Year())
	}

	for _, col := range []*dataset.Column{
		dataset.NumericColumn(domain.ColTxnHour, hour),
		dataset.NumericColumn(domain.ColTxnDay, day),
		dataset.NumericColumn(domain.ColTxnMonth, month),
		dataset.NumericColumn(domain.ColTxnYear, year),
	} {
		if out, err = out.With(col); err != nil {
			return nil, err
		}
	}
	return out, nil
}
