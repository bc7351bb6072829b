package ingest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/uidex/uidex/internal/embedding"
	"github.com/uidex/uidex/internal/models"
	"github.com/uidex/uidex/internal/search"
	"github.com/uidex/uidex/internal/storage"
)

const defaultWarmConcurrency = 4

// Warmer precomputes representation embeddings for the whole active catalog
// so early vector searches hit the cache instead of the backend.
type Warmer struct {
	store    storage.Storage
	embedder embedding.Embedder
	logger   *zap.Logger
}

// NewWarmer returns a Warmer. A nil embedder turns Warm into a notice-only
// no-op.
func NewWarmer(store storage.Storage, embedder embedding.Embedder, logger *zap.Logger) *Warmer {
	return &Warmer{store: store, embedder: embedder, logger: logger}
}

// Warm embeds every active component's representation text with up to
// concurrency workers and reports how many succeeded and failed.
func (w *Warmer) Warm(ctx context.Context, concurrency int) (warmed, failed int, err error) {
	if w.embedder == nil {
		w.logger.Info("vector search not configured, skipping embedding warmup")
		return 0, 0, nil
	}
	if concurrency <= 0 {
		concurrency = defaultWarmConcurrency
	}

	components, err := w.store.SearchCandidates(ctx, nil, models.Filters{})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list active components: %w", err)
	}

	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		okCount  atomic.Int64
		errCount atomic.Int64
	)
	for _, c := range components {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if _, embedErr := w.embedder.Embed(ctx, search.Representation(c)); embedErr != nil {
				w.logger.Warn("failed to warm component embedding",
					zap.String("namespace", c.Namespace),
					zap.String("name", c.Name),
					zap.Error(embedErr))
				errCount.Add(1)
				return
			}
			okCount.Add(1)
		})
		if submitErr != nil {
			wg.Done()
			errCount.Add(1)
		}
	}
	wg.Wait()

	warmed, failed = int(okCount.Load()), int(errCount.Load())
	w.logger.Info("embedding warmup complete",
		zap.Int("warmed", warmed),
		zap.Int("failed", failed),
		zap.Int("concurrency", concurrency))
	return warmed, failed, nil
}
