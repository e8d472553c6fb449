// Package model implements the binary classifiers the trainer can fit.
//
// All classifiers take a dense, already-preprocessed feature matrix and
// labels in {0,1}, and predict the probability of the positive class.
// Training is seeded so a fixed seed reproduces the same model.
package model

import (
	"encoding/json"
	"math"

	"github.com/cockroachdb/errors"
)

// Kind names a classifier family.
type Kind string

const (
	RandomForest       Kind = "random_forest"
	LogisticRegression Kind = "logistic_regression"
	GradientBoosting   Kind = "gradient_boosting"
)

// Kinds lists every supported classifier.
var Kinds = []Kind{RandomForest, LogisticRegression, GradientBoosting}

// ErrUnknownKind is returned for an unsupported classifier name.
var ErrUnknownKind = errors.New("unknown model kind")

// ParseKind validates a classifier name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownKind, "%q", s)
}

// Classifier is a binary probabilistic classifier.
type Classifier interface {
	Kind() Kind
	Fit(x [][]float64, y []int) error
	PredictProba(x [][]float64) []float64
}

// New returns an untrained classifier of kind with default parameters.
func New(kind Kind, seed int64) (Classifier, error) {
	switch kind {
	case RandomForest:
		return NewForest(seed), nil
	case LogisticRegression:
		return NewLogistic(), nil
	case GradientBoosting:
		return NewBoosting(seed), nil
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
}

type envelope struct {
	Kind  Kind            `json:"kind"`
	Model json.RawMessage `json:"model"`
}

// Marshal encodes a fitted classifier together with its kind.
func Marshal(c Classifier) ([]byte, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", c.Kind())
	}
	return json.Marshal(envelope{Kind: c.Kind(), Model: body})
}

// Unmarshal decodes a classifier written by Marshal.
func Unmarshal(data []byte) (Classifier, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "decode model envelope")
	}
	c, err := New(env.Kind, 0)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(env.Model, c); err != nil {
		return nil, errors.Wrapf(err, "decode %s", env.Kind)
	}
	return c, nil
}

func checkTrainingSet(x [][]float64, y []int) error {
	if len(x) == 0 {
		return errors.New("no training rows")
	}
	if len(x) != len(y) {
		return errors.Newf("%d rows but %d labels", len(x), len(y))
	}
	width := len(x[0])
	for i, row := range x {
		if len(row) != width {
			return errors.Newf("row %d has %d features, want %d", i, len(row), width)
		}
		if y[i] != 0 && y[i] != 1 {
			return errors.Newf("label %d at row %d is not binary", y[i], i)
		}
	}
	return nil
}

// positiveRate returns the share of positive labels.
func positiveRate(y []int) float64 {
	pos := 0
	for _, v := range y {
		pos += v
	}
	return float64(pos) / float64(len(y))
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
