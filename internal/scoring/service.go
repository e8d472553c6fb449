// Package scoring serves predictions from a trained pipeline.
package scoring

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/cockroachdb/errors"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
	"creditrisk/internal/training"
)

// DefaultThreshold is the probability above which a loan is recommended.
const DefaultThreshold = 0.5

// Service scores single records against a loaded pipeline. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	pipeline  *training.Pipeline
	threshold float64
}

// NewService wraps a trained pipeline. threshold must lie in [0, 1].
func NewService(pipeline *training.Pipeline, threshold float64) (*Service, error) {
	if pipeline == nil {
		return nil, errors.New("scoring: nil pipeline")
	}
	if threshold < 0 || threshold > 1 || math.IsNaN(threshold) {
		return nil, errors.Newf("scoring: threshold %v outside [0, 1]", threshold)
	}
	return &Service{pipeline: pipeline, threshold: threshold}, nil
}

// Load decodes an artifact and wraps it in a service.
func Load(artifact []byte, threshold float64) (*Service, error) {
	p, err := training.Decode(artifact)
	if err != nil {
		return nil, err
	}
	return NewService(p, threshold)
}

// Model describes the pipeline behind the service.
func (s *Service) Model() training.Metadata {
	return s.pipeline.Meta
}

// Threshold returns the decision threshold.
func (s *Service) Threshold() float64 {
	return s.threshold
}

// Score predicts one feature record. Every input field of the pipeline
// must be present: numeric fields as numbers, categorical fields as
// non-empty strings. Anything else is rejected with a *domain.InputError;
// no field is ever filled with a default.
func (s *Service) Score(record map[string]any) (domain.Prediction, error) {
	frame, err := s.toFrame(record)
	if err != nil {
		return domain.Prediction{}, err
	}
	probs, err := s.pipeline.PredictProba(frame)
	if err != nil {
		return domain.Prediction{}, errors.Wrap(err, "scoring: predict")
	}
	return domain.NewPrediction(probs[0], s.threshold), nil
}

func (s *Service) toFrame(record map[string]any) (*dataset.Frame, error) {
	spec := s.pipeline.Spec()
	inputErr := &domain.InputError{}
	cols := make([]*dataset.Column, 0, len(spec.Numeric)+len(spec.Categorical))

	for _, name := range spec.Numeric {
		raw, ok := record[name]
		if !ok || raw == nil {
			inputErr.Missing = append(inputErr.Missing, name)
			continue
		}
		v, ok := toFloat(raw)
		if !ok {
			inputErr.Invalid = append(inputErr.Invalid, name)
			continue
		}
		cols = append(cols, dataset.NumericColumn(name, []float64{v}))
	}
	for _, name := range spec.Categorical {
		raw, ok := record[name]
		if !ok || raw == nil {
			inputErr.Missing = append(inputErr.Missing, name)
			continue
		}
		v, ok := raw.(string)
		if !ok {
			inputErr.Invalid = append(inputErr.Invalid, name)
			continue
		}
		if v == "" {
			inputErr.Missing = append(inputErr.Missing, name)
			continue
		}
		cols = append(cols, dataset.CategoricalColumn(name, []string{v}))
	}

	if len(inputErr.Missing) > 0 || len(inputErr.Invalid) > 0 {
		sort.Strings(inputErr.Missing)
		sort.Strings(inputErr.Invalid)
		return nil, inputErr
	}
	return dataset.New(cols...)
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
