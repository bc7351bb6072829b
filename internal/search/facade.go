package search

import (
	"context"
	"fmt"
	"time"

	"github.com/uidex/uidex/internal/metrics"
	"github.com/uidex/uidex/internal/models"
)

// Service is the single entry point front-ends call. It dispatches to the
// lexical or vector engine and normalizes the envelope. One instance is
// built at startup and injected wherever searches run.
type Service struct {
	lexical *Engine
	vector  *VectorEngine
}

// NewService builds the facade. The vector engine may be nil when semantic
// search is not configured; vector-mode requests then degrade.
func NewService(lexical *Engine, vector *VectorEngine) *Service {
	return &Service{lexical: lexical, vector: vector}
}

// Search dispatches the request by mode. Numeric fields and the mode are
// expected to be normalized by the transport boundary; an unknown mode that
// slips through is still rejected.
func (s *Service) Search(ctx context.Context, req *models.SearchRequest) (*models.Envelope, error) {
	mode := req.Mode
	if mode == "" {
		mode = models.ModeLexical
	}

	start := time.Now()
	var (
		env *models.Envelope
		err error
	)
	switch mode {
	case models.ModeLexical:
		env, err = s.lexical.Search(ctx, req)
	case models.ModeVector:
		env, err = s.vectorSearch(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownMode, mode)
	}

	status := "error"
	if err == nil {
		status = env.Status
	}
	metrics.SearchRequestsTotal.WithLabelValues(mode, status).Inc()
	metrics.SearchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	return env, err
}

// vectorSearch wraps the vector engine result in the common envelope shape.
// Vector mode has no notion of further pages: total counts the returned
// items and hasMore is always false.
func (s *Service) vectorSearch(ctx context.Context, req *models.SearchRequest) (*models.Envelope, error) {
	if s.vector == nil {
		env := models.EmptyEnvelope(req.Query, req.Limit, req.Offset)
		env.Status = models.StatusDegraded
		return env, nil
	}

	items, status, err := s.vector.Search(ctx, req.Query, req.Filters(), req.Limit)
	if err != nil {
		return nil, err
	}
	return &models.Envelope{
		Query:  req.Query,
		Items:  items,
		Total:  len(items),
		Status: status,
		Pagination: models.Pagination{
			Limit:   req.Limit,
			Offset:  req.Offset,
			HasMore: false,
		},
	}, nil
}

// Suggest proxies autocomplete lookups to the lexical engine.
func (s *Service) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	return s.lexical.Suggest(ctx, prefix, limit)
}

// Popular proxies recency-ranked listings to the lexical engine.
func (s *Service) Popular(ctx context.Context, namespace string, limit int) ([]*models.Component, error) {
	return s.lexical.Popular(ctx, namespace, limit)
}

// VectorAvailable reports whether vector mode has a usable backend.
func (s *Service) VectorAvailable() bool {
	return s.vector != nil && s.vector.Available()
}
