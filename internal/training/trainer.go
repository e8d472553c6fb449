// Package training fits and evaluates credit-risk pipelines and persists
// the chosen one as an artifact.
package training

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
	"creditrisk/internal/model"
	"creditrisk/internal/preprocess"
)

// ArtifactWriter persists a serialized pipeline. Implementations must make
// the artifact visible atomically.
type ArtifactWriter interface {
	WriteArtifact(ctx context.Context, path string, data []byte) error
}

// Config controls one training run.
type Config struct {
	TestFraction float64
	Seed         int64
	ArtifactPath string
	Model        model.Kind
	// RunID is generated when empty.
	RunID       string
	LabelSource domain.LabelSource
}

// DefaultConfig returns the stock training settings.
func DefaultConfig() Config {
	return Config{
		TestFraction: 0.2,
		Seed:         42,
		ArtifactPath: "models/credit_model.json",
		Model:        model.RandomForest,
		LabelSource:  domain.LabelSourceTarget,
	}
}

// Candidate is the evaluation of one classifier kind.
type Candidate struct {
	Kind     model.Kind
	AUC      float64
	Pipeline *Pipeline
}

// Trainer fits pipelines and hands the selected one to an ArtifactWriter.
type Trainer struct {
	writer ArtifactWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewTrainer creates a trainer.
func NewTrainer(writer ArtifactWriter, logger *slog.Logger) *Trainer {
	return &Trainer{writer: writer, logger: logger, now: time.Now}
}

// Train fits cfg.Model on a held-out split of features, evaluates it by
// AUC on the test rows and writes the artifact to cfg.ArtifactPath. A zero
// spec is inferred from the column kinds of features.
func (t *Trainer) Train(ctx context.Context, features *dataset.Frame, target string, spec preprocess.Spec, cfg Config) (*Pipeline, float64, error) {
	best, _, err := t.TrainBest(ctx, features, target, spec, cfg, []model.Kind{cfg.Model})
	if err != nil {
		return nil, 0, err
	}
	return best.Pipeline, best.AUC, nil
}

// TrainBest fits every kind on the same split and persists the one with
// the highest AUC (the earliest listed on ties). It returns the winner and
// every candidate in the order given.
func (t *Trainer) TrainBest(ctx context.Context, features *dataset.Frame, target string, spec preprocess.Spec, cfg Config, kinds []model.Kind) (*Candidate, []Candidate, error) {
	if len(kinds) == 0 {
		return nil, nil, errors.New("no model kinds to train")
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if len(spec.Numeric)+len(spec.Categorical) == 0 {
		spec = preprocess.InferSpec(features, target)
	}

	frame, y, err := labelledRows(features, target)
	if err != nil {
		return nil, nil, err
	}
	trainIdx, testIdx, err := Split(frame.Len(), y, cfg.TestFraction, cfg.Seed)
	if err != nil {
		return nil, nil, err
	}
	trainFrame, testFrame := frame.Take(trainIdx), frame.Take(testIdx)
	yTrain, yTest := pick(y, trainIdx), pick(y, testIdx)

	fitted, err := preprocess.Fit(spec, trainFrame)
	if err != nil {
		return nil, nil, errors.Wrap(err, "fit preprocessor")
	}
	xTrain, err := fitted.Transform(trainFrame)
	if err != nil {
		return nil, nil, err
	}
	xTest, err := fitted.Transform(testFrame)
	if err != nil {
		return nil, nil, err
	}

	candidates := make([]Candidate, 0, len(kinds))
	best := -1
	for _, kind := range kinds {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		clf, err := model.New(kind, cfg.Seed)
		if err != nil {
			return nil, nil, err
		}
		if err := clf.Fit(xTrain, yTrain); err != nil {
			return nil, nil, errors.Wrapf(err, "fit %s", kind)
		}
		auc := AUC(yTest, clf.PredictProba(xTest))
		t.logger.Info("candidate evaluated",
			slog.String("run_id", cfg.RunID),
			slog.String("model", string(kind)),
			slog.Float64("auc", auc),
		)

		candidates = append(candidates, Candidate{
			Kind: kind,
			AUC:  auc,
			Pipeline: &Pipeline{
				Meta: Metadata{
					RunID:       cfg.RunID,
					ModelKind:   kind,
					AUC:         auc,
					TrainedAt:   t.now().UTC(),
					Target:      target,
					LabelSource: cfg.LabelSource,
					Features:    fitted.FeatureNames(),
					TrainRows:   len(trainIdx),
					TestRows:    len(testIdx),
				},
				Preprocessor: fitted,
				Model:        clf,
			},
		})
		if best < 0 || auc > candidates[best].AUC {
			best = len(candidates) - 1
		}
	}

	winner := &candidates[best]
	data, err := Encode(winner.Pipeline)
	if err != nil {
		return nil, nil, err
	}
	if err := t.writer.WriteArtifact(ctx, cfg.ArtifactPath, data); err != nil {
		return nil, nil, errors.Wrap(err, "write artifact")
	}
	t.logger.Info("model trained",
		slog.String("run_id", cfg.RunID),
		slog.String("model", string(winner.Kind)),
		slog.Float64("auc", winner.AUC),
		slog.Int("train_rows", len(trainIdx)),
		slog.Int("test_rows", len(testIdx)),
		slog.String("artifact", cfg.ArtifactPath),
	)
	return winner, candidates, nil
}

// labelledRows keeps the rows with a known target and returns the labels.
func labelledRows(features *dataset.Frame, target string) (*dataset.Frame, []int, error) {
	col, ok := features.Column(target)
	if !ok {
		return nil, nil, domain.MissingColumnError("train", []string{target})
	}

	var keep []int
	var y []int
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			continue
		}
		var v float64
		switch col.Kind {
		case dataset.Numeric:
			v = col.Num[i]
		case dataset.Categorical:
			parsed, err := strconv.ParseFloat(col.Str[i], 64)
			if err != nil {
				return nil, nil, errors.Newf("target %q row %d: %q is not a label", target, i, col.Str[i])
			}
			v = parsed
		default:
			return nil, nil, errors.Newf("target %q is a %s column", target, col.Kind)
		}
		if v != 0 && v != 1 {
			return nil, nil, errors.Newf("target %q row %d: %v is not 0 or 1", target, i, v)
		}
		keep = append(keep, i)
		y = append(y, int(v))
	}
	if len(keep) < 2 {
		return nil, nil, errors.Wrapf(ErrInsufficientData, "%d labelled rows", len(keep))
	}
	return features.Take(keep), y, nil
}

func pick(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
