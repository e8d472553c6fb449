package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/domain"
	"creditrisk/internal/training"
	"creditrisk/internal/usecase"
	mock_usecase "creditrisk/internal/usecase/mocks"
)

func TestScoringUseCase_Predict(t *testing.T) {
	record := map[string]any{"Amount": 1000.0, "ChannelId": "ChannelId_3"}
	scored := domain.NewPrediction(0.82, 0.5)

	tests := []struct {
		name       string
		setup      func(scorer *mock_usecase.MockScorer, cache *mock_usecase.MockPredictionCache, metrics *mock_usecase.MockMetrics)
		threshold  float64
		want       domain.Prediction
		wantErr    error
		wantAnyErr bool
	}{
		{
			name: "cache miss scores and stores",
			setup: func(scorer *mock_usecase.MockScorer, cache *mock_usecase.MockPredictionCache, metrics *mock_usecase.MockMetrics) {
				cache.EXPECT().GetPrediction(gomock.Any(), gomock.Any()).Return(nil, false, nil)
				scorer.EXPECT().Score(record).Return(scored, nil)
				cache.EXPECT().SetPrediction(gomock.Any(), gomock.Any(), scored).Return(nil)
				metrics.EXPECT().ObservePrediction(domain.Recommended, gomock.Any())
			},
			want: scored,
		},
		{
			name: "cache hit skips the model",
			setup: func(scorer *mock_usecase.MockScorer, cache *mock_usecase.MockPredictionCache, metrics *mock_usecase.MockMetrics) {
				hit := domain.NewPrediction(0.3, 0.5)
				cache.EXPECT().GetPrediction(gomock.Any(), gomock.Any()).Return(&hit, true, nil)
				metrics.EXPECT().ObservePrediction(domain.NotRecommended, gomock.Any())
			},
			want: domain.NewPrediction(0.3, 0.5),
		},
		{
			name:      "cache hit follows the current threshold",
			threshold: 0.2,
			setup: func(scorer *mock_usecase.MockScorer, cache *mock_usecase.MockPredictionCache, metrics *mock_usecase.MockMetrics) {
				stale := domain.NewPrediction(0.3, 0.5)
				cache.EXPECT().GetPrediction(gomock.Any(), gomock.Any()).Return(&stale, true, nil)
				metrics.EXPECT().ObservePrediction(domain.Recommended, gomock.Any())
			},
			want: domain.NewPrediction(0.3, 0.2),
		},
		{
			name: "cache failures are tolerated",
			setup: func(scorer *mock_usecase.MockScorer, cache *mock_usecase.MockPredictionCache, metrics *mock_usecase.MockMetrics) {
				cache.EXPECT().GetPrediction(gomock.Any(), gomock.Any()).Return(nil, false, errors.New("redis down"))
				scorer.EXPECT().Score(record).Return(scored, nil)
				cache.EXPECT().SetPrediction(gomock.Any(), gomock.Any(), scored).Return(errors.New("redis down"))
				metrics.EXPECT().ObservePrediction(domain.Recommended, gomock.Any())
			},
			want: scored,
		},
		{
			name: "invalid input is counted and returned",
			setup: func(scorer *mock_usecase.MockScorer, cache *mock_usecase.MockPredictionCache, metrics *mock_usecase.MockMetrics) {
				cache.EXPECT().GetPrediction(gomock.Any(), gomock.Any()).Return(nil, false, nil)
				scorer.EXPECT().Score(record).Return(domain.Prediction{}, &domain.InputError{Missing: []string{"Value"}})
				metrics.EXPECT().ObserveError(usecase.ReasonInvalidInput)
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "model failure is internal",
			setup: func(scorer *mock_usecase.MockScorer, cache *mock_usecase.MockPredictionCache, metrics *mock_usecase.MockMetrics) {
				cache.EXPECT().GetPrediction(gomock.Any(), gomock.Any()).Return(nil, false, nil)
				scorer.EXPECT().Score(record).Return(domain.Prediction{}, errors.New("width mismatch"))
				metrics.EXPECT().ObserveError(usecase.ReasonInternal)
			},
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mScorer := mock_usecase.NewMockScorer(ctrl)
			mCache := mock_usecase.NewMockPredictionCache(ctrl)
			mMetrics := mock_usecase.NewMockMetrics(ctrl)
			threshold := tt.threshold
			if threshold == 0 {
				threshold = 0.5
			}
			mScorer.EXPECT().Model().Return(training.Metadata{RunID: "run-7"}).AnyTimes()
			mScorer.EXPECT().Threshold().Return(threshold).AnyTimes()
			tt.setup(mScorer, mCache, mMetrics)

			uc := usecase.NewScoringUseCase(mScorer,
				usecase.WithPredictionCache(mCache),
				usecase.WithMetrics(mMetrics),
				usecase.WithScoringLogger(quietLogger),
			)
			got, err := uc.Predict(context.Background(), record)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAnyErr:
				assert.Error(t, err)
				assert.False(t, errors.Is(err, domain.ErrInvalidInput))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestScoringUseCase_CacheKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mScorer := mock_usecase.NewMockScorer(ctrl)
	mCache := mock_usecase.NewMockPredictionCache(ctrl)
	mScorer.EXPECT().Model().Return(training.Metadata{RunID: "run-7"}).AnyTimes()
	mScorer.EXPECT().Threshold().Return(0.5).AnyTimes()
	mScorer.EXPECT().Score(gomock.Any()).Return(domain.NewPrediction(0.6, 0.5), nil).Times(2)

	var keys []string
	mCache.EXPECT().GetPrediction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) (*domain.Prediction, bool, error) {
			keys = append(keys, key)
			return nil, false, nil
		}).Times(2)
	mCache.EXPECT().SetPrediction(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	uc := usecase.NewScoringUseCase(mScorer, usecase.WithPredictionCache(mCache), usecase.WithScoringLogger(quietLogger))
	_, err := uc.Predict(context.Background(), map[string]any{"a": 1.0, "b": "x"})
	require.NoError(t, err)
	_, err = uc.Predict(context.Background(), map[string]any{"b": "x", "a": 1.0})
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.Equal(t, keys[0], keys[1])
	assert.True(t, strings.HasPrefix(keys[0], "run-7:"))
}

func TestScoringUseCase_WithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mScorer := mock_usecase.NewMockScorer(ctrl)
	mScorer.EXPECT().Model().Return(training.Metadata{RunID: "run-1"}).AnyTimes()
	mScorer.EXPECT().Threshold().Return(0.5).AnyTimes()
	mScorer.EXPECT().Score(gomock.Any()).Return(domain.NewPrediction(0.1, 0.5), nil)

	uc := usecase.NewScoringUseCase(mScorer, usecase.WithScoringLogger(quietLogger))
	got, err := uc.Predict(context.Background(), map[string]any{"Amount": 1.0})
	require.NoError(t, err)
	assert.Equal(t, 10, got.Score)
	assert.Equal(t, "run-1", uc.Model().RunID)
}

func TestScoringUseCase_SharedCacheAcrossThresholds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stored := map[string]domain.Prediction{}
	mCache := mock_usecase.NewMockPredictionCache(ctrl)
	mCache.EXPECT().GetPrediction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) (*domain.Prediction, bool, error) {
			p, ok := stored[key]
			if !ok {
				return nil, false, nil
			}
			return &p, true, nil
		}).AnyTimes()
	mCache.EXPECT().SetPrediction(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, p domain.Prediction) error {
			stored[key] = p
			return nil
		}).AnyTimes()

	newUseCase := func(threshold float64) *usecase.ScoringUseCase {
		scorer := mock_usecase.NewMockScorer(ctrl)
		scorer.EXPECT().Model().Return(training.Metadata{RunID: "run-3"}).AnyTimes()
		scorer.EXPECT().Threshold().Return(threshold).AnyTimes()
		scorer.EXPECT().Score(gomock.Any()).Return(domain.NewPrediction(0.4, threshold), nil).MaxTimes(1)
		return usecase.NewScoringUseCase(scorer, usecase.WithPredictionCache(mCache), usecase.WithScoringLogger(quietLogger))
	}
	lax, strict := newUseCase(0.1), newUseCase(0.99)
	record := map[string]any{"Amount": 500.0}

	got, err := lax.Predict(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, domain.Recommended, got.Recommendation)

	got, err = strict.Predict(context.Background(), record)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, domain.NotRecommended, got.Recommendation)
	assert.Equal(t, 0.4, got.Probability)
}
