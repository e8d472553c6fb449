package grpc

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"creditrisk/internal/domain"
	"creditrisk/internal/training"
)

// Predictor scores feature records for the handler.
type Predictor interface {
	Predict(ctx context.Context, record map[string]any) (domain.Prediction, error)
	Model() training.Metadata
}

// ScoringHandler implements ScoringServiceServer.
type ScoringHandler struct {
	UnimplementedScoringServiceServer
	predictor Predictor
	logger    *slog.Logger
}

// NewScoringHandler creates a handler backed by predictor.
func NewScoringHandler(predictor Predictor, logger *slog.Logger) *ScoringHandler {
	return &ScoringHandler{predictor: predictor, logger: logger}
}

// Predict scores req.Features. Incomplete or mistyped records map to
// InvalidArgument.
func (h *ScoringHandler) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if req.Features == nil {
		return nil, status.Error(codes.InvalidArgument, "features must be a JSON object")
	}
	p, err := h.predictor.Predict(ctx, req.Features)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		h.logger.Error("prediction failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &PredictResponse{
		Probability:    p.Probability,
		Score:          p.Score,
		Recommendation: string(p.Recommendation),
		RunID:          h.predictor.Model().RunID,
	}, nil
}
