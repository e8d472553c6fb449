package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/domain"
)

func TestFileArtifactStore(t *testing.T) {
	store := NewFileArtifactStore()
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "model.json")

	require.NoError(t, store.WriteArtifact(ctx, path, []byte(`{"v":1}`)))
	require.NoError(t, store.WriteArtifact(ctx, path, []byte(`{"v":2}`)))

	got, err := store.ReadArtifact(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")

	_, err = store.ReadArtifact(ctx, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestParquetAggregateWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aggregates.parquet")
	aggs := []domain.CustomerAggregate{
		{CustomerID: "C1", TotalAmount: 300, AvgAmount: 150, TxnCount: 2, AmountStd: 70.71},
		{CustomerID: "C2", TotalAmount: 50, AvgAmount: 50, TxnCount: 1},
	}
	require.NoError(t, NewParquetAggregateWriter().WriteAggregates(context.Background(), path, aggs))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	table, err := pqarrow.ReadTable(context.Background(), file, nil, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	require.NoError(t, err)
	defer table.Release()

	assert.EqualValues(t, 2, table.NumRows())
	assert.EqualValues(t, 5, table.NumCols())
	assert.Equal(t, "customer_id", table.Schema().Field(0).Name)
}

type recordingWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaEventPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaEventPublisher{writer: w, topic: "creditrisk.events", logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := p.Publish(context.Background(),
		domain.ModelTrained{RunID: "run-1", ModelKind: "random_forest", AUC: 0.8},
		domain.LabelsGenerated{RunID: "run-1", LabelSource: domain.LabelSourceProxy, Customers: 3},
	)
	require.NoError(t, err)
	require.Len(t, w.messages, 2)

	assert.Equal(t, "run-1", string(w.messages[0].Key))
	assert.Equal(t, domain.EventTypeModelTrained, string(w.messages[0].Headers[0].Value))
	var decoded domain.LabelsGenerated
	require.NoError(t, json.Unmarshal(w.messages[1].Value, &decoded))
	assert.Equal(t, domain.LabelSourceProxy, decoded.LabelSource)

	require.NoError(t, p.Publish(context.Background()))
	assert.Len(t, w.messages, 2)

	w.err = errors.New("broker down")
	assert.ErrorContains(t, p.Publish(context.Background(), domain.ModelTrained{RunID: "run-2"}), "broker down")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

// fakeRedis implements the two commands the cache uses.
type fakeRedis struct {
	redis.Cmdable
	values map[string]string
	ttls   map[string]time.Duration
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.values[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func TestRedisPredictionCache(t *testing.T) {
	fake := &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
	cache := NewRedisPredictionCache(fake, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.GetPrediction(ctx, "run-1:abc")
	require.NoError(t, err)
	assert.False(t, ok)

	want := domain.NewPrediction(0.73, 0.5)
	require.NoError(t, cache.SetPrediction(ctx, "run-1:abc", want))
	assert.Equal(t, time.Minute, fake.ttls["prediction:run-1:abc"])

	got, ok, err := cache.GetPrediction(ctx, "run-1:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, *got)

	fake.values["prediction:broken"] = "{"
	_, _, err = cache.GetPrediction(ctx, "broken")
	assert.Error(t, err)
}
