// Package features turns validated transaction batches into per-row
// training features: time-of-day fields plus the customer's aggregate
// spending statistics.
package features

import (
	"log/slog"

	"github.com/cockroachdb/errors"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
)

// Options tune the optional steps of BuildFeatures.
type Options struct {
	// CapOutliers clips CapColumns to [LowerQuantile, UpperQuantile] after
	// aggregation, so aggregates always reflect the raw amounts.
	CapOutliers   bool
	CapColumns    []string
	LowerQuantile float64
	UpperQuantile float64
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		CapColumns:    []string{domain.ColAmount, domain.ColValue},
		LowerQuantile: 0.01,
		UpperQuantile: 0.99,
	}
}

// Result is the output of a feature build.
type Result struct {
	Frame      *dataset.Frame
	// Clean is Frame before outlier capping; it equals Frame when capping
	// is off.
	Clean      *dataset.Frame
	Aggregates []domain.CustomerAggregate
	Duplicates int
	Dropped    int
}

// Builder runs the feature pipeline.
type Builder struct {
	opts   Options
	logger *slog.Logger
}

// NewBuilder creates a feature builder.
func NewBuilder(opts Options, logger *slog.Logger) *Builder {
	return &Builder{opts: opts, logger: logger}
}

// Build validates the batch, removes duplicate transactions, coerces the
// monetary columns, drops rows missing an amount, timestamp or customer,
// derives time features and joins the customer aggregates onto every row.
func (b *Builder) Build(batch *dataset.Frame) (*Result, error) {
	if batch.Len() == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if _, err := ValidateSchema(batch); err != nil {
		return nil, err
	}

	out, dups, err := Deduplicate(batch)
	if err != nil {
		return nil, err
	}
	if out, err = CoerceAmounts(out); err != nil {
		return nil, err
	}
	if out, err = ParseTimestamps(out); err != nil {
		return nil, err
	}
	out, dropped, err := DropMissing(out, domain.ColCustomerID, domain.ColAmount, domain.ColTimestamp)
	if err != nil {
		return nil, err
	}
	if out.Len() == 0 {
		return nil, errors.Wrap(domain.ErrEmptyBatch, "no rows left after dropping missing values")
	}
	if out, err = ExtractTimeFeatures(out); err != nil {
		return nil, err
	}

	aggs, err := AggregateCustomer(out)
	if err != nil {
		return nil, err
	}
	if out, err = JoinAggregates(out, aggs); err != nil {
		return nil, err
	}

	clean := out
	if b.opts.CapOutliers {
		for _, col := range b.opts.CapColumns {
			if !out.Has(col) {
				continue
			}
			if out, err = CapOutliers(out, col, b.opts.LowerQuantile, b.opts.UpperQuantile); err != nil {
				return nil, errors.Wrapf(err, "could not cap %s", col)
			}
		}
	}

	b.logger.Info("features built",
		slog.Int("rows", out.Len()),
		slog.Int("customers", len(aggs)),
		slog.Int("duplicates_removed", dups),
		slog.Int("rows_dropped", dropped),
	)

	return &Result{
		Frame:      out,
		Clean:      clean,
		Aggregates: aggs,
		Duplicates: dups,
		Dropped:    dropped,
	}, nil
}

// BuildFeatures runs the builder with default options and returns the
// enriched transaction table.
func BuildFeatures(batch *dataset.Frame) (*dataset.Frame, error) {
	res, err := NewBuilder(DefaultOptions(), slog.Default()).Build(batch)
	if err != nil {
		return nil, err
	}
	return res.Frame, nil
}
