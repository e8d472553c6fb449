package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
	"creditrisk/internal/model"
	"creditrisk/internal/training"
	"creditrisk/internal/usecase"
	mock_usecase "creditrisk/internal/usecase/mocks"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// transactionBatch builds twelve customers in three spending patterns:
// frequent and recent, occasional, and a single old purchase. When
// withTarget is set an is_default column flags the single-purchase group.
func transactionBatch(withTarget bool) *dataset.Frame {
	base := time.Date(2019, 2, 1, 12, 0, 0, 0, time.UTC)
	var txnIDs, accounts, customers, stamps, countries, currencies, channels []string
	var amounts, targets []float64

	add := func(customer string, at time.Time, amount float64, target float64) {
		n := len(txnIDs)
		txnIDs = append(txnIDs, fmt.Sprintf("T%d", n))
		accounts = append(accounts, "A"+customer)
		customers = append(customers, customer)
		stamps = append(stamps, at.Format(time.RFC3339))
		countries = append(countries, "256")
		currencies = append(currencies, "UGX")
		channels = append(channels, []string{"ChannelId_2", "ChannelId_3"}[n%2])
		amounts = append(amounts, amount)
		targets = append(targets, target)
	}
	for c := 0; c < 4; c++ {
		for i := 0; i < 6; i++ {
			add(fmt.Sprintf("loyal_%d", c), base.AddDate(0, 0, -i), 500+float64(10*i+c), 0)
		}
		for i := 0; i < 3; i++ {
			add(fmt.Sprintf("occasional_%d", c), base.AddDate(0, 0, -10*(i+1)), 200+float64(c), 0)
		}
		add(fmt.Sprintf("dormant_%d", c), base.AddDate(0, -3, 0), 20+float64(c), 1)
	}

	cols := []*dataset.Column{
		dataset.CategoricalColumn(domain.ColTransactionID, txnIDs),
		dataset.CategoricalColumn(domain.ColAccountID, accounts),
		dataset.CategoricalColumn(domain.ColCustomerID, customers),
		dataset.CategoricalColumn(domain.ColCurrencyCode, currencies),
		dataset.CategoricalColumn(domain.ColCountryCode, countries),
		dataset.CategoricalColumn("ChannelId", channels),
		dataset.NumericColumn(domain.ColAmount, amounts),
		dataset.CategoricalColumn(domain.ColTimestamp, stamps),
	}
	if withTarget {
		cols = append(cols, dataset.NumericColumn("is_default", targets))
	}
	return dataset.MustNew(cols...)
}

func trainingConfig() usecase.TrainingConfig {
	tcfg := training.DefaultConfig()
	tcfg.ArtifactPath = "models/test_model.json"
	return usecase.TrainingConfig{
		Training:     tcfg,
		TargetColumn: "is_default",
		Candidates:   []model.Kind{model.LogisticRegression, model.RandomForest},
		// CountryCode and CurrencyCode are constant in the batch.
		ExcludeColumns: []string{domain.ColCountryCode, domain.ColCurrencyCode},
	}
}

func TestTrainingUseCase_Train(t *testing.T) {
	const path = "data/raw/transactions.csv"

	tests := []struct {
		name         string
		batch        *dataset.Frame
		repoErr      error
		saveErr      error
		publishErr   error
		wantSource   domain.LabelSource
		wantEvents   int
		wantClusters bool
		wantErr      bool
	}{
		{
			name:         "proxy labels when the target is absent",
			batch:        transactionBatch(false),
			wantSource:   domain.LabelSourceProxy,
			wantEvents:   2,
			wantClusters: true,
		},
		{
			name:       "target column is used when present",
			batch:      transactionBatch(true),
			wantSource: domain.LabelSourceTarget,
			wantEvents: 1,
		},
		{
			name:       "publish failure does not fail the run",
			batch:      transactionBatch(true),
			publishErr: errors.New("broker down"),
			wantSource: domain.LabelSourceTarget,
			wantEvents: 1,
		},
		{
			name:    "repository error",
			repoErr: errors.New("disk gone"),
			wantErr: true,
		},
		{
			name:    "run store error",
			batch:   transactionBatch(true),
			saveErr: errors.New("connection refused"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mRepo := mock_usecase.NewMockTransactionRepository(ctrl)
			mArtifacts := mock_usecase.NewMockArtifactStore(ctrl)
			mRuns := mock_usecase.NewMockRunRepository(ctrl)
			mEvents := mock_usecase.NewMockEventPublisher(ctrl)

			mRepo.EXPECT().LoadTransactions(gomock.Any(), path).Return(tt.batch, tt.repoErr)
			if tt.repoErr == nil {
				mArtifacts.EXPECT().
					WriteArtifact(gomock.Any(), "models/test_model.json", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, data []byte) error {
						p, err := training.Decode(data)
						require.NoError(t, err)
						assert.Equal(t, tt.wantSource, p.Meta.LabelSource)
						return nil
					})
				mRuns.EXPECT().
					SaveRun(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, run *domain.TrainingRun, labels []domain.RiskLabel) error {
						assert.Equal(t, tt.wantSource, run.LabelSource)
						if tt.wantSource == domain.LabelSourceProxy {
							assert.Len(t, labels, 12)
						} else {
							assert.Empty(t, labels)
						}
						return tt.saveErr
					})
			}
			if tt.repoErr == nil && tt.saveErr == nil {
				anys := make([]interface{}, tt.wantEvents)
				for i := range anys {
					anys[i] = gomock.Any()
				}
				mEvents.EXPECT().Publish(gomock.Any(), anys...).Return(tt.publishErr)
			}

			uc := usecase.NewTrainingUseCase(mRepo, mArtifacts,
				usecase.WithRunRepository(mRuns),
				usecase.WithEventPublisher(mEvents),
				usecase.WithLogger(quietLogger),
			)
			got, err := uc.Train(context.Background(), path, trainingConfig())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantSource, got.Run.LabelSource)
			assert.Equal(t, 40, got.Run.Rows)
			assert.Equal(t, 12, got.Run.Customers)
			assert.Len(t, got.Candidates, 2)
			assert.Contains(t, got.Run.CandidateAUC, string(model.LogisticRegression))
			assert.Contains(t, got.Run.CandidateAUC, string(model.RandomForest))
			assert.Equal(t, got.Best.Pipeline.Meta.RunID, got.Run.ID)
			assert.Equal(t, string(got.Best.Kind), got.Run.ModelKind)
			assert.False(t, got.Run.FinishedAt.Before(got.Run.StartedAt))
			if tt.wantClusters {
				assert.NotEmpty(t, got.Clusters)
				assert.Equal(t, 4, got.Run.HighRiskCount)
			} else {
				assert.Empty(t, got.Clusters)
			}
		})
	}
}

func TestTrainingUseCase_ProxyEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mRepo := mock_usecase.NewMockTransactionRepository(ctrl)
	mArtifacts := mock_usecase.NewMockArtifactStore(ctrl)
	mEvents := mock_usecase.NewMockEventPublisher(ctrl)

	mRepo.EXPECT().LoadTransactions(gomock.Any(), gomock.Any()).Return(transactionBatch(false), nil)
	mArtifacts.EXPECT().WriteArtifact(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	mEvents.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, events ...domain.Event) error {
			require.Len(t, events, 2)
			trained, ok := events[0].(domain.ModelTrained)
			require.True(t, ok)
			assert.Equal(t, domain.LabelSourceProxy, trained.LabelSource)

			generated, ok := events[1].(domain.LabelsGenerated)
			require.True(t, ok)
			assert.Equal(t, trained.RunID, generated.RunID)
			assert.Equal(t, 12, generated.Customers)
			assert.Equal(t, 4, generated.HighRiskCount)
			assert.EqualValues(t, 42, generated.Seed)
			assert.Equal(t, time.Date(2019, 2, 2, 12, 0, 0, 0, time.UTC), generated.Snapshot)
			return nil
		})

	uc := usecase.NewTrainingUseCase(mRepo, mArtifacts,
		usecase.WithEventPublisher(mEvents),
		usecase.WithLogger(quietLogger),
	)
	_, err := uc.Train(context.Background(), "transactions.csv", trainingConfig())
	require.NoError(t, err)
}

func TestTrainingUseCase_ExportsLabelledTable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mRepo := mock_usecase.NewMockTransactionRepository(ctrl)
	mArtifacts := mock_usecase.NewMockArtifactStore(ctrl)
	mWriter := mock_usecase.NewMockFeatureWriter(ctrl)
	mAggregates := mock_usecase.NewMockAggregateExporter(ctrl)

	mRepo.EXPECT().LoadTransactions(gomock.Any(), gomock.Any()).Return(transactionBatch(false), nil)
	mWriter.EXPECT().
		WriteFrame(gomock.Any(), "data/processed/train.csv", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, frame *dataset.Frame) error {
			assert.True(t, frame.Has(domain.ColHighRisk))
			assert.True(t, frame.Has(domain.ColTotalAmount))
			return nil
		})
	mAggregates.EXPECT().
		WriteAggregates(gomock.Any(), "data/processed/aggregates.parquet", gomock.Len(12)).
		Return(nil)
	mArtifacts.EXPECT().WriteArtifact(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	cfg := trainingConfig()
	cfg.Features.ProcessedPath = "data/processed/train.csv"
	cfg.Features.AggregatesPath = "data/processed/aggregates.parquet"

	uc := usecase.NewTrainingUseCase(mRepo, mArtifacts,
		usecase.WithFeatureExport(mWriter, mAggregates),
		usecase.WithLogger(quietLogger),
	)
	_, err := uc.Train(context.Background(), "transactions.csv", cfg)
	require.NoError(t, err)
}

func TestFeatureUseCase_Build(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mRepo := mock_usecase.NewMockTransactionRepository(ctrl)
	mWriter := mock_usecase.NewMockFeatureWriter(ctrl)

	mRepo.EXPECT().LoadTransactions(gomock.Any(), "in.csv").Return(transactionBatch(false), nil)
	mWriter.EXPECT().WriteFrame(gomock.Any(), "out.csv", gomock.Any()).Return(nil)

	uc := usecase.NewFeatureUseCase(mRepo, mWriter, nil, quietLogger)
	res, err := uc.Build(context.Background(), "in.csv", usecase.FeatureConfig{ProcessedPath: "out.csv"})
	require.NoError(t, err)
	assert.Equal(t, 40, res.Frame.Len())
	assert.Len(t, res.Aggregates, 12)

	mRepo.EXPECT().LoadTransactions(gomock.Any(), "in.csv").Return(transactionBatch(false), nil)
	_, err = uc.Build(context.Background(), "in.csv", usecase.FeatureConfig{AggregatesPath: "aggs.parquet"})
	assert.Error(t, err, "aggregate output without an exporter")

	mRepo.EXPECT().LoadTransactions(gomock.Any(), "bad.csv").Return(dataset.MustNew(
		dataset.NumericColumn(domain.ColAmount, []float64{1}),
	), nil)
	_, err = uc.Build(context.Background(), "bad.csv", usecase.FeatureConfig{})
	assert.ErrorIs(t, err, domain.ErrSchema)
}
