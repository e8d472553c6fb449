package training

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
	"creditrisk/internal/model"
	"creditrisk/internal/preprocess"
)

// ArtifactVersion is the format version written into every artifact.
const ArtifactVersion = 1

// Metadata describes how a pipeline was trained.
type Metadata struct {
	RunID       string             `json:"run_id"`
	ModelKind   model.Kind         `json:"model_kind"`
	AUC         float64            `json:"auc"`
	TrainedAt   time.Time          `json:"trained_at"`
	Target      string             `json:"target"`
	LabelSource domain.LabelSource `json:"label_source"`
	Features    []string           `json:"features"`
	TrainRows   int                `json:"train_rows"`
	TestRows    int                `json:"test_rows"`
}

// Pipeline is a fitted preprocessor followed by a fitted classifier. It is
// read-only once built and safe for concurrent use.
type Pipeline struct {
	Meta         Metadata
	Preprocessor *preprocess.Fitted
	Model        model.Classifier
}

// Spec returns the input columns the pipeline expects.
func (p *Pipeline) Spec() preprocess.Spec {
	return p.Preprocessor.Spec
}

// PredictProba returns the positive-class probability of every row.
func (p *Pipeline) PredictProba(frame *dataset.Frame) ([]float64, error) {
	x, err := p.Preprocessor.Transform(frame)
	if err != nil {
		return nil, err
	}
	return p.Model.PredictProba(x), nil
}

type artifact struct {
	Version      int                `json:"version"`
	Metadata     Metadata           `json:"metadata"`
	Preprocessor *preprocess.Fitted `json:"preprocessor"`
	Model        json.RawMessage    `json:"model"`
}

// Encode serializes the pipeline as a JSON artifact.
func Encode(p *Pipeline) ([]byte, error) {
	body, err := model.Marshal(p.Model)
	if err != nil {
		return nil, err
	}
	return json.Marshal(artifact{
		Version:      ArtifactVersion,
		Metadata:     p.Meta,
		Preprocessor: p.Preprocessor,
		Model:        body,
	})
}

// Decode parses an artifact written by Encode.
func Decode(data []byte) (*Pipeline, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(err, "decode artifact")
	}
	if a.Version != ArtifactVersion {
		return nil, errors.Newf("artifact version %d, want %d", a.Version, ArtifactVersion)
	}
	if a.Preprocessor == nil {
		return nil, errors.New("artifact has no preprocessor")
	}
	m, err := model.Unmarshal(a.Model)
	if err != nil {
		return nil, err
	}
	return &Pipeline{Meta: a.Metadata, Preprocessor: a.Preprocessor, Model: m}, nil
}
