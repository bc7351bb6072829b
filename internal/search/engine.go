// Package search implements lexical and vector ranking over the component
// catalog: term extraction, relevance scoring, autocomplete suggestions,
// popularity ordering and the facade that front-ends call.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/uidex/uidex/internal/models"
)

// Store is the read-only slice of the record store the engines consume.
type Store interface {
	SearchCandidates(ctx context.Context, terms []string, f models.Filters) ([]*models.Component, error)
	SuggestNames(ctx context.Context, prefix string, limit int) ([]string, error)
	SuggestTitles(ctx context.Context, contains, excludeNamePrefix string, limit int) ([]string, error)
	Popular(ctx context.Context, namespace string, limit int) ([]*models.Component, error)
}

// Engine ranks catalog components lexically against free-text queries.
type Engine struct {
	store  Store
	logger *zap.Logger
}

// NewEngine returns a lexical search engine backed by the given store.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Search extracts terms from the query, scores every candidate the store
// returns for them and slices out the requested page. Candidates contain
// every term in at least one field; scoring the full set keeps pagination
// consistent with true ranking order. Numeric fields of the request are
// assumed normalized by the caller.
func (e *Engine) Search(ctx context.Context, req *models.SearchRequest) (*models.Envelope, error) {
	terms := Terms(req.Query)
	if len(terms) == 0 {
		return models.EmptyEnvelope(req.Query, req.Limit, req.Offset), nil
	}

	candidates, err := e.store.SearchCandidates(ctx, terms, req.Filters())
	if err != nil {
		return nil, fmt.Errorf("failed to load search candidates: %w", err)
	}

	query := strings.TrimSpace(req.Query)
	items := make([]*models.RankedResult, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, models.LexicalResult(c, score(c, query, terms)))
	}
	sortByRelevance(items)

	total := len(items)
	page := clip(items, req.Offset, req.Limit)

	return &models.Envelope{
		Query:  req.Query,
		Terms:  terms,
		Items:  page,
		Total:  total,
		Status: models.StatusOK,
		Pagination: models.Pagination{
			Limit:   req.Limit,
			Offset:  req.Offset,
			HasMore: req.Offset+len(page) < total,
		},
	}, nil
}

func sortByRelevance(items []*models.RankedResult) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if *a.RelevanceScore != *b.RelevanceScore {
			return *a.RelevanceScore > *b.RelevanceScore
		}
		if a.Component.Name != b.Component.Name {
			return a.Component.Name < b.Component.Name
		}
		return a.Component.Namespace < b.Component.Namespace
	})
}

// clip returns the page [offset, offset+limit) of items, empty when the
// offset is past the end.
func clip(items []*models.RankedResult, offset, limit int) []*models.RankedResult {
	if offset >= len(items) {
		return []*models.RankedResult{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
