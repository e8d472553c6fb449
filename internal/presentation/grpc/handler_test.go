package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"creditrisk/internal/domain"
	"creditrisk/internal/training"
)

type stubPredictor struct {
	resp domain.Prediction
	err  error
}

func (s stubPredictor) Predict(context.Context, map[string]any) (domain.Prediction, error) {
	return s.resp, s.err
}

func (s stubPredictor) Model() training.Metadata {
	return training.Metadata{RunID: "run-3"}
}

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestScoringHandler_Predict(t *testing.T) {
	tests := []struct {
		name     string
		req      *PredictRequest
		pred     stubPredictor
		wantCode codes.Code
		want     *PredictResponse
	}{
		{
			name: "scores",
			req:  &PredictRequest{Features: map[string]any{"Amount": 1.0}},
			pred: stubPredictor{resp: domain.NewPrediction(0.875, 0.5)},
			want: &PredictResponse{Probability: 0.875, Score: 87, Recommendation: "Recommended", RunID: "run-3"},
		},
		{
			name:     "missing features",
			req:      &PredictRequest{},
			wantCode: codes.InvalidArgument,
		},
		{
			name:     "invalid input",
			req:      &PredictRequest{Features: map[string]any{}},
			pred:     stubPredictor{err: &domain.InputError{Missing: []string{"Amount"}}},
			wantCode: codes.InvalidArgument,
		},
		{
			name:     "internal failure",
			req:      &PredictRequest{Features: map[string]any{"Amount": 1.0}},
			pred:     stubPredictor{err: errors.New("boom")},
			wantCode: codes.Internal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewScoringHandler(tt.pred, quietLogger).Predict(context.Background(), tt.req)
			if tt.wantCode != codes.OK {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, status.Code(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func dialServer(t *testing.T, pred Predictor) *grpclib.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(NewScoringHandler(pred, quietLogger), quietLogger)
	go func() { _ = srv.ServeListener(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServer_PredictOverJSON(t *testing.T) {
	conn := dialServer(t, stubPredictor{resp: domain.NewPrediction(0.3, 0.5)})

	var resp PredictResponse
	err := conn.Invoke(context.Background(), PredictMethod,
		&PredictRequest{Features: map[string]any{"Amount": 10.0, "ChannelId": "web"}}, &resp,
		JSONCallOption(),
	)
	require.NoError(t, err)
	assert.Equal(t, 30, resp.Score)
	assert.Equal(t, "Not Recommended", resp.Recommendation)
	assert.Equal(t, "run-3", resp.RunID)

	err = conn.Invoke(context.Background(), PredictMethod, &PredictRequest{}, &resp, JSONCallOption())
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_Health(t *testing.T) {
	conn := dialServer(t, stubPredictor{})

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestJSONCodec(t *testing.T) {
	codec := encoding.GetCodec(CodecName)
	require.NotNil(t, codec)
	assert.Equal(t, CodecName, codec.Name())

	data, err := codec.Marshal(&PredictRequest{Features: map[string]any{"Amount": 1000.0, "ChannelId": "ChannelId_3"}})
	require.NoError(t, err)

	var got PredictRequest
	require.NoError(t, codec.Unmarshal(data, &got))
	assert.Equal(t, 1000.0, got.Features["Amount"])
	assert.Equal(t, "ChannelId_3", got.Features["ChannelId"])

	assert.Error(t, codec.Unmarshal([]byte("{"), &got))
}
