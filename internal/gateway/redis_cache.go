package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"creditrisk/internal/domain"
)

const predictionKeyPrefix = "prediction:"

// RedisPredictionCache caches scoring results keyed by model and request.
type RedisPredictionCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisPredictionCache creates a cache whose entries expire after ttl.
func NewRedisPredictionCache(client redis.Cmdable, ttl time.Duration) *RedisPredictionCache {
	return &RedisPredictionCache{client: client, ttl: ttl}
}

// GetPrediction returns the cached prediction for key. A miss is reported
// with ok == false and no error.
func (c *RedisPredictionCache) GetPrediction(ctx context.Context, key string) (*domain.Prediction, bool, error) {
	value, err := c.client.Get(ctx, predictionKeyPrefix+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get prediction")
	}
	var p domain.Prediction
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		return nil, false, errors.Wrap(err, "decode cached prediction")
	}
	return &p, true, nil
}

// SetPrediction stores p under key.
func (c *RedisPredictionCache) SetPrediction(ctx context.Context, key string, p domain.Prediction) error {
	body, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encode prediction")
	}
	if err := c.client.Set(ctx, predictionKeyPrefix+key, body, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set prediction")
	}
	return nil
}
