package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/uidex/uidex/internal/models"
)

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorEngine ranks components by cosine similarity between the query
// embedding and a per-component representation embedding. The whole
// filtered candidate set is embedded per call, so the engine is normally
// wired with a caching embedder.
type VectorEngine struct {
	store    Store
	embedder Embedder
	logger   *zap.Logger
}

// NewVectorEngine returns a vector search engine. A nil embedder is allowed
// and makes every search degrade to an empty result.
func NewVectorEngine(store Store, embedder Embedder, logger *zap.Logger) *VectorEngine {
	return &VectorEngine{store: store, embedder: embedder, logger: logger}
}

// Available reports whether an embedding backend is configured.
func (v *VectorEngine) Available() bool {
	return v.embedder != nil
}

// Search embeds the query and ranks all active components matching the
// filters, returning at most limit items plus the envelope status. A missing
// backend or a query that cannot be embedded yields an empty degraded
// result, never an error; only store failures propagate.
func (v *VectorEngine) Search(ctx context.Context, query string, f models.Filters, limit int) ([]*models.RankedResult, string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.RankedResult{}, models.StatusOK, nil
	}
	if v.embedder == nil {
		return []*models.RankedResult{}, models.StatusDegraded, nil
	}

	queryVec, err := v.embedder.Embed(ctx, query)
	if err != nil {
		v.logger.Warn("query embedding failed, degrading to empty result", zap.Error(err))
		return []*models.RankedResult{}, models.StatusDegraded, nil
	}

	candidates, err := v.store.SearchCandidates(ctx, nil, f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load vector candidates: %w", err)
	}

	items := make([]*models.RankedResult, 0, len(candidates))
	for _, c := range candidates {
		vec, err := v.embedder.Embed(ctx, Representation(c))
		if err != nil {
			v.logger.Debug("skipping component that failed to embed",
				zap.String("namespace", c.Namespace),
				zap.String("name", c.Name),
				zap.Error(err))
			continue
		}
		items = append(items, models.VectorResult(c, round4(cosine(queryVec, vec))))
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if *a.SimilarityScore != *b.SimilarityScore {
			return *a.SimilarityScore > *b.SimilarityScore
		}
		if a.Component.Name != b.Component.Name {
			return a.Component.Name < b.Component.Name
		}
		return a.Component.Namespace < b.Component.Namespace
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items, models.StatusOK, nil
}

// Representation is the text embedded for a component. The warmer uses the
// same form so precomputed vectors hit the cache at query time.
func Representation(c *models.Component) string {
	return c.Name + " " + c.Title + " " + c.Description
}

// cosine returns the cosine similarity dot(a,b)/(|a|*|b|), defined as 0 when
// either vector has zero magnitude or the dimensions differ.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
