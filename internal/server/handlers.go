package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/uidex/uidex/internal/models"
	"github.com/uidex/uidex/internal/storage"
)

// decodeSearchRequest maps query parameters onto a SearchRequest. "provider"
// and "category" are the public names for namespace and component type;
// "framework" is accepted for compatibility with older clients but has no
// stored counterpart. Numeric parameters that fail to parse fall back to
// zero and are normalized by Validate.
func decodeSearchRequest(r *http.Request) *models.SearchRequest {
	q := r.URL.Query()
	return &models.SearchRequest{
		Query:         strings.TrimSpace(q.Get("q")),
		Namespace:     strings.TrimSpace(q.Get("provider")),
		ComponentType: strings.TrimSpace(q.Get("category")),
		Mode:          strings.TrimSpace(q.Get("mode")),
		Limit:         queryInt(r, "limit"),
		Offset:        queryInt(r, "offset"),
	}
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

// handleComponents serves GET /api/v1/components. With a q parameter it runs
// a search; without one it returns a browse listing of active components in
// the same envelope shape.
func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	req := decodeSearchRequest(r)
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Query == "" {
		s.handleBrowse(w, r, req)
		return
	}

	s.logger.Debug("search request",
		zap.String("query", req.Query),
		zap.String("mode", req.Mode),
		zap.Int("limit", req.Limit),
	)
	env, err := s.service.Search(r.Context(), req)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, env)
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request, req *models.SearchRequest) {
	ctx := r.Context()
	f := req.Filters()

	comps, err := s.store.ListActive(ctx, f, req.Limit, req.Offset)
	if err != nil {
		s.logger.Error("browse failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.store.CountActive(ctx, f)
	if err != nil {
		s.logger.Error("browse count failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]*models.RankedResult, len(comps))
	for i, c := range comps {
		items[i] = &models.RankedResult{Component: c}
	}
	s.respondJSON(w, http.StatusOK, &models.Envelope{
		Items:  items,
		Total:  total,
		Status: models.StatusOK,
		Pagination: models.Pagination{
			Limit:   req.Limit,
			Offset:  req.Offset,
			HasMore: req.Offset+len(items) < total,
		},
	})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	limit := queryInt(r, "limit")
	if limit <= 0 {
		limit = s.cfg.Search.SuggestLimit
	}

	suggestions, err := s.service.Suggest(r.Context(), q, limit)
	if err != nil {
		s.logger.Error("suggest failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"query":       q,
		"suggestions": suggestions,
	})
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	namespace := strings.TrimSpace(r.URL.Query().Get("provider"))
	limit := queryInt(r, "limit")
	if limit <= 0 {
		limit = s.cfg.Search.PopularLimit
	}

	comps, err := s.service.Popular(r.Context(), namespace, limit)
	if err != nil {
		s.logger.Error("popular failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if comps == nil {
		comps = []*models.Component{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"items": comps,
		"total": len(comps),
	})
}

func (s *Server) handleGetComponent(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	name := chi.URLParam(r, "name")

	c, err := s.store.GetComponent(r.Context(), namespace, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "component not found")
			return
		}
		s.logger.Error("get component failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountComponents(r.Context())
	if err != nil {
		s.logger.Error("status: count components failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]any{
		"components":              count,
		"vector_search_available": s.service.VectorAvailable(),
		"config": map[string]any{
			"database_path":      s.cfg.Storage.DatabasePath,
			"embedding_provider": s.cfg.Embedding.Provider,
			"embedding_model":    s.cfg.Embedding.Model,
		},
	}
	if s.embedCache != nil {
		resp["embedding_cache_entries"] = s.embedCache.CacheLen()
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
