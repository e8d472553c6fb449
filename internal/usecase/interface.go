package usecase

import (
	"context"
	"time"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
	"creditrisk/internal/training"
)

// TransactionRepository loads raw transaction batches.
// The usecase layer depends on these interfaces, not on concrete gateways.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type TransactionRepository interface {
	LoadTransactions(ctx context.Context, path string) (*dataset.Frame, error)
}

// FeatureWriter persists the processed training table.
type FeatureWriter interface {
	WriteFrame(ctx context.Context, path string, frame *dataset.Frame) error
}

// AggregateExporter persists per-customer aggregates.
type AggregateExporter interface {
	WriteAggregates(ctx context.Context, path string, aggs []domain.CustomerAggregate) error
}

// ArtifactStore writes and reads serialized pipelines.
type ArtifactStore interface {
	WriteArtifact(ctx context.Context, path string, data []byte) error
	ReadArtifact(ctx context.Context, path string) ([]byte, error)
}

// RunRepository records finished training runs and their labels.
type RunRepository interface {
	SaveRun(ctx context.Context, run *domain.TrainingRun, labels []domain.RiskLabel) error
}

// EventPublisher announces pipeline events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// PredictionCache stores predictions by request key.
type PredictionCache interface {
	GetPrediction(ctx context.Context, key string) (*domain.Prediction, bool, error)
	SetPrediction(ctx context.Context, key string, p domain.Prediction) error
}

// Scorer turns one feature record into a prediction.
type Scorer interface {
	Score(record map[string]any) (domain.Prediction, error)
	Model() training.Metadata
	Threshold() float64
}

// Metrics records scoring outcomes.
type Metrics interface {
	ObservePrediction(rec domain.Recommendation, elapsed time.Duration)
	ObserveError(reason string)
}
