package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"creditrisk/internal/domain"
	"creditrisk/internal/training"
)

// Error reasons reported to Metrics.
const (
	ReasonInvalidInput = "invalid_input"
	ReasonInternal     = "internal"
)

// ScoringUseCase serves predictions, optionally through a cache.
type ScoringUseCase struct {
	scorer  Scorer
	cache   PredictionCache
	metrics Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// ScoringOption configures optional collaborators of a ScoringUseCase.
type ScoringOption func(*ScoringUseCase)

// WithPredictionCache looks predictions up before scoring.
func WithPredictionCache(cache PredictionCache) ScoringOption {
	return func(uc *ScoringUseCase) { uc.cache = cache }
}

// WithMetrics records prediction outcomes.
func WithMetrics(m Metrics) ScoringOption {
	return func(uc *ScoringUseCase) { uc.metrics = m }
}

// WithScoringLogger replaces the default logger.
func WithScoringLogger(logger *slog.Logger) ScoringOption {
	return func(uc *ScoringUseCase) { uc.logger = logger }
}

// NewScoringUseCase creates a scoring use case around a loaded model.
func NewScoringUseCase(scorer Scorer, opts ...ScoringOption) *ScoringUseCase {
	uc := &ScoringUseCase{
		scorer:  scorer,
		metrics: noopMetrics{},
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Model describes the model behind the use case.
func (uc *ScoringUseCase) Model() training.Metadata {
	return uc.scorer.Model()
}

// Predict scores one record. Cache failures never fail the request. A
// cached entry only contributes its probability; score and recommendation
// are derived again under the current threshold.
func (uc *ScoringUseCase) Predict(ctx context.Context, record map[string]any) (domain.Prediction, error) {
	start := uc.now()

	key, err := cacheKey(uc.scorer.Model().RunID, record)
	if err != nil {
		uc.metrics.ObserveError(ReasonInvalidInput)
		return domain.Prediction{}, errors.Wrap(domain.ErrInvalidInput, err.Error())
	}

	if uc.cache != nil {
		cached, ok, err := uc.cache.GetPrediction(ctx, key)
		if err != nil {
			uc.logger.Warn("prediction cache lookup failed", slog.String("error", err.Error()))
		} else if ok {
			p := domain.NewPrediction(cached.Probability, uc.scorer.Threshold())
			uc.metrics.ObservePrediction(p.Recommendation, uc.now().Sub(start))
			return p, nil
		}
	}

	p, err := uc.scorer.Score(record)
	if err != nil {
		reason := ReasonInternal
		if errors.Is(err, domain.ErrInvalidInput) {
			reason = ReasonInvalidInput
		}
		uc.metrics.ObserveError(reason)
		uc.logger.Warn("prediction rejected",
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		return domain.Prediction{}, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetPrediction(ctx, key, p); err != nil {
			uc.logger.Warn("prediction cache store failed", slog.String("error", err.Error()))
		}
	}
	uc.metrics.ObservePrediction(p.Recommendation, uc.now().Sub(start))
	return p, nil
}

// cacheKey is the run id followed by a hash of the record. encoding/json
// sorts map keys, so equal records share a key.
func cacheKey(runID string, record map[string]any) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return runID + ":" + hex.EncodeToString(sum[:]), nil
}

type noopMetrics struct{}

func (noopMetrics) ObservePrediction(domain.Recommendation, time.Duration) {}

func (noopMetrics) ObserveError(string) {}
