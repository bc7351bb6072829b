package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// ErrCacheMiss marks a key absent from the remote cache tier.
var ErrCacheMiss = errors.New("embedding not in remote cache")

// Remote vectors expire so a model change or catalog churn cannot pin stale
// entries forever.
const redisTTL = 7 * 24 * time.Hour

// RedisCache is an optional shared second cache tier. Keys are sha256 of
// the normalized text under a model-qualified prefix, values little-endian
// float32 vectors.
type RedisCache struct {
	client rueidis.Client
	prefix string
}

// NewRedisCache connects to Redis at addr. The model name is baked into the
// key prefix so switching models never serves stale vectors.
func NewRedisCache(addr, model string) (*RedisCache, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{addr},
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisCache{
		client: client,
		prefix: "uidex:emb:" + model + ":",
	}, nil
}

func (r *RedisCache) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return r.prefix + hex.EncodeToString(sum[:])
}

// Get returns the cached vector for text, or ErrCacheMiss.
func (r *RedisCache) Get(ctx context.Context, text string) ([]float32, error) {
	cmd := r.client.B().Get().Key(r.cacheKey(text)).Build()
	data, err := r.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return DecodeVector(data)
}

// Set stores the vector for text with the tier TTL.
func (r *RedisCache) Set(ctx context.Context, text string, vector []float32) error {
	cmd := r.client.B().Set().
		Key(r.cacheKey(text)).
		Value(rueidis.BinaryString(EncodeVector(vector))).
		Ex(redisTTL).
		Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (r *RedisCache) Close() {
	r.client.Close()
}
