package embedding

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/uidex/uidex/internal/metrics"
)

// RemoteCache is the optional shared second tier consulted after the local
// LRU and before the backend.
type RemoteCache interface {
	Get(ctx context.Context, text string) ([]float32, error)
	Set(ctx context.Context, text string, vector []float32) error
}

// Cached memoizes an embedder: local LRU, then remote tier, then backend.
// Remote tier failures are logged and absorbed so a flaky Redis can never
// fail a search; backend failures propagate and are not cached.
type Cached struct {
	inner  Embedder
	local  *Cache
	remote RemoteCache
	logger *zap.Logger
}

// NewCached wraps inner with the given cache tiers. remote may be nil.
func NewCached(inner Embedder, local *Cache, remote RemoteCache, logger *zap.Logger) *Cached {
	return &Cached{inner: inner, local: local, remote: remote, logger: logger}
}

// Normalize canonicalizes text for cache keying: runs of whitespace collapse
// to single spaces and the ends are trimmed. Case is preserved, embeddings
// are case-sensitive.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Embed returns the vector for text, computing it at most once per distinct
// normalized text while it stays cached.
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.inner == nil {
		return nil, ErrNoBackend
	}
	key := Normalize(text)

	if vector, ok := c.local.Get(key); ok {
		metrics.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
		return vector, nil
	}

	if c.remote != nil {
		vector, err := c.remote.Get(ctx, key)
		switch {
		case err == nil:
			metrics.EmbeddingCacheTotal.WithLabelValues("remote_hit").Inc()
			c.local.Set(key, vector)
			return vector, nil
		case !errors.Is(err, ErrCacheMiss):
			c.logger.Warn("remote embedding cache get failed", zap.Error(err))
		}
	}

	metrics.EmbeddingCacheTotal.WithLabelValues("miss").Inc()

	vector, err := c.inner.Embed(ctx, key)
	if err != nil {
		return nil, err
	}

	c.local.Set(key, vector)
	if c.remote != nil {
		if err := c.remote.Set(ctx, key, vector); err != nil {
			c.logger.Warn("remote embedding cache set failed", zap.Error(err))
		}
	}
	return vector, nil
}

// CacheLen reports the local tier fill, exposed on the status surface.
func (c *Cached) CacheLen() int {
	return c.local.Len()
}
