package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
	"creditrisk/internal/labeling"
	"creditrisk/internal/model"
	"creditrisk/internal/preprocess"
	"creditrisk/internal/training"
)

// TrainingConfig controls one end-to-end training run.
type TrainingConfig struct {
	Features FeatureConfig
	Training training.Config
	// TargetColumn is used as the label when the batch carries it.
	// Otherwise proxy labels are derived and stored as is_high_risk.
	TargetColumn string
	// Candidates are compared by test AUC; empty means Training.Model only.
	Candidates     []model.Kind
	ExcludeColumns []string
	// Snapshot anchors RFM recency; nil means one day after the latest
	// transaction.
	Snapshot *time.Time
}

// TrainingResult describes a finished run.
type TrainingResult struct {
	Run        domain.TrainingRun
	Best       training.Candidate
	Candidates []training.Candidate
	// Clusters is set only for proxy-labelled runs.
	Clusters []labeling.Summary
}

// TrainingUseCase orchestrates load, features, labels, training and
// publication of a model.
type TrainingUseCase struct {
	repo       TransactionRepository
	artifacts  training.ArtifactWriter
	runs       RunRepository
	events     EventPublisher
	writer     FeatureWriter
	aggregates AggregateExporter
	logger     *slog.Logger
	now        func() time.Time
}

// TrainingOption configures optional collaborators of a TrainingUseCase.
type TrainingOption func(*TrainingUseCase)

// WithRunRepository records every finished run.
func WithRunRepository(runs RunRepository) TrainingOption {
	return func(uc *TrainingUseCase) { uc.runs = runs }
}

// WithEventPublisher announces finished runs.
func WithEventPublisher(events EventPublisher) TrainingOption {
	return func(uc *TrainingUseCase) { uc.events = events }
}

// WithFeatureExport enables the processed table and aggregate outputs.
func WithFeatureExport(writer FeatureWriter, aggregates AggregateExporter) TrainingOption {
	return func(uc *TrainingUseCase) {
		uc.writer = writer
		uc.aggregates = aggregates
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) TrainingOption {
	return func(uc *TrainingUseCase) { uc.logger = logger }
}

// NewTrainingUseCase creates a new instance of the usecase.
func NewTrainingUseCase(repo TransactionRepository, artifacts training.ArtifactWriter, opts ...TrainingOption) *TrainingUseCase {
	uc := &TrainingUseCase{
		repo:      repo,
		artifacts: artifacts,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Train runs the whole pipeline on the batch at path. The artifact is
// written before the run is recorded; a failure to record the run is
// returned, while a failure to publish events is only logged.
func (uc *TrainingUseCase) Train(ctx context.Context, path string, cfg TrainingConfig) (*TrainingResult, error) {
	started := uc.now().UTC()

	res, err := loadFeatures(ctx, uc.repo, path, cfg.Features.Options, uc.logger)
	if err != nil {
		return nil, err
	}

	lb, err := uc.label(res.Frame, res.Clean, cfg)
	if err != nil {
		return nil, err
	}
	if err := export(ctx, uc.writer, uc.aggregates, cfg.Features, lb.frame, res.Aggregates); err != nil {
		return nil, err
	}

	exclude := append([]string{lb.target}, cfg.ExcludeColumns...)
	spec := preprocess.InferSpec(lb.frame, exclude...)

	kinds := cfg.Candidates
	if len(kinds) == 0 {
		kinds = []model.Kind{cfg.Training.Model}
	}
	tcfg := cfg.Training
	tcfg.LabelSource = lb.source

	best, candidates, err := training.NewTrainer(uc.artifacts, uc.logger).TrainBest(ctx, lb.frame, lb.target, spec, tcfg, kinds)
	if err != nil {
		return nil, errors.Wrap(err, "could not train model")
	}

	run := domain.TrainingRun{
		ID:            best.Pipeline.Meta.RunID,
		StartedAt:     started,
		FinishedAt:    uc.now().UTC(),
		ModelKind:     string(best.Kind),
		AUC:           best.AUC,
		CandidateAUC:  make(map[string]float64, len(candidates)),
		Rows:          lb.frame.Len(),
		Customers:     len(res.Aggregates),
		LabelSource:   lb.source,
		HighRiskCount: countHighRisk(lb.labels),
		ArtifactPath:  tcfg.ArtifactPath,
	}
	for _, c := range candidates {
		run.CandidateAUC[string(c.Kind)] = c.AUC
	}

	if uc.runs != nil {
		if err := uc.runs.SaveRun(ctx, &run, lb.labels); err != nil {
			return nil, errors.Wrap(err, "could not record training run")
		}
	}
	uc.publish(ctx, run, lb, tcfg.Seed)

	result := &TrainingResult{Run: run, Best: *best, Candidates: candidates}
	if lb.source == domain.LabelSourceProxy {
		result.Clusters = labeling.Summarize(lb.rfm, lb.labels)
	}
	return result, nil
}

type labelled struct {
	frame    *dataset.Frame
	target   string
	source   domain.LabelSource
	rfm      []domain.RFM
	labels   []domain.RiskLabel
	snapshot time.Time
}

// label keeps an existing target column or derives the RFM proxy label.
// RFM is computed on the uncapped table so monetary values stay exact.
func (uc *TrainingUseCase) label(frame, clean *dataset.Frame, cfg TrainingConfig) (*labelled, error) {
	if cfg.TargetColumn != "" && frame.Has(cfg.TargetColumn) {
		return &labelled{frame: frame, target: cfg.TargetColumn, source: domain.LabelSourceTarget}, nil
	}

	rfm, snapshot, err := labeling.BuildRFM(clean, cfg.Snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "could not build rfm")
	}
	labels, err := labeling.LabelHighRisk(rfm, cfg.Training.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "could not derive proxy labels")
	}
	joined, err := labeling.JoinLabels(frame, labels)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("proxy labels derived",
		slog.Int("customers", len(labels)),
		slog.Int("high_risk", countHighRisk(labels)),
		slog.Time("snapshot", snapshot),
	)
	return &labelled{
		frame:    joined,
		target:   domain.ColHighRisk,
		source:   domain.LabelSourceProxy,
		rfm:      rfm,
		labels:   labels,
		snapshot: snapshot,
	}, nil
}

func (uc *TrainingUseCase) publish(ctx context.Context, run domain.TrainingRun, lb *labelled, seed int64) {
	if uc.events == nil {
		return
	}
	events := []domain.Event{domain.ModelTrained{
		RunID:        run.ID,
		ModelKind:    run.ModelKind,
		AUC:          run.AUC,
		CandidateAUC: run.CandidateAUC,
		LabelSource:  run.LabelSource,
		ArtifactPath: run.ArtifactPath,
		Rows:         run.Rows,
		TrainedAt:    run.FinishedAt,
	}}
	if lb.source == domain.LabelSourceProxy {
		events = append(events, domain.LabelsGenerated{
			RunID:         run.ID,
			LabelSource:   lb.source,
			Customers:     len(lb.labels),
			HighRiskCount: run.HighRiskCount,
			Seed:          seed,
			Snapshot:      lb.snapshot,
		})
	}
	if err := uc.events.Publish(ctx, events...); err != nil {
		uc.logger.Warn("failed to publish training events",
			slog.String("run_id", run.ID),
			slog.String("error", err.Error()),
		)
	}
}

func countHighRisk(labels []domain.RiskLabel) int {
	n := 0
	for _, l := range labels {
		n += l.HighRisk
	}
	return n
}
