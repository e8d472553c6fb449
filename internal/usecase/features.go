package usecase

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
	"creditrisk/internal/features"
)

// FeatureConfig controls a feature build.
type FeatureConfig struct {
	Options features.Options
	// ProcessedPath receives the processed table as CSV when set.
	ProcessedPath string
	// AggregatesPath receives the customer aggregates as parquet when set.
	AggregatesPath string
}

// FeatureUseCase builds and exports the processed training table.
type FeatureUseCase struct {
	repo       TransactionRepository
	writer     FeatureWriter
	aggregates AggregateExporter
	logger     *slog.Logger
}

// NewFeatureUseCase creates a feature use case. writer and aggregates may
// be nil when the corresponding output is never requested.
func NewFeatureUseCase(repo TransactionRepository, writer FeatureWriter, aggregates AggregateExporter, logger *slog.Logger) *FeatureUseCase {
	return &FeatureUseCase{repo: repo, writer: writer, aggregates: aggregates, logger: logger}
}

// Build loads a batch, runs the feature builder and writes the requested
// outputs.
func (uc *FeatureUseCase) Build(ctx context.Context, path string, cfg FeatureConfig) (*features.Result, error) {
	res, err := loadFeatures(ctx, uc.repo, path, cfg.Options, uc.logger)
	if err != nil {
		return nil, err
	}
	if err := export(ctx, uc.writer, uc.aggregates, cfg, res.Frame, res.Aggregates); err != nil {
		return nil, err
	}
	return res, nil
}

func loadFeatures(ctx context.Context, repo TransactionRepository, path string, opts features.Options, logger *slog.Logger) (*features.Result, error) {
	batch, err := repo.LoadTransactions(ctx, path)
	if err != nil {
		return nil, errors.Wrap(err, "could not load transactions")
	}
	res, err := features.NewBuilder(opts, logger).Build(batch)
	if err != nil {
		return nil, errors.Wrap(err, "could not build features")
	}
	return res, nil
}

func export(ctx context.Context, writer FeatureWriter, aggregates AggregateExporter, cfg FeatureConfig, frame *dataset.Frame, aggs []domain.CustomerAggregate) error {
	if cfg.ProcessedPath != "" {
		if writer == nil {
			return errors.New("processed output requested without a feature writer")
		}
		if err := writer.WriteFrame(ctx, cfg.ProcessedPath, frame); err != nil {
			return errors.Wrap(err, "could not write processed table")
		}
	}
	if cfg.AggregatesPath != "" {
		if aggregates == nil {
			return errors.New("aggregate output requested without an exporter")
		}
		if err := aggregates.WriteAggregates(ctx, cfg.AggregatesPath, aggs); err != nil {
			return errors.Wrap(err, "could not write aggregates")
		}
	}
	return nil
}
