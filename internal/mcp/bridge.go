// Package mcp exposes the catalog to Model Context Protocol clients over a
// JSON-RPC 2.0 bridge, served via HTTP or a stdio line loop.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/uidex/uidex/internal/models"
	"github.com/uidex/uidex/internal/search"
	"github.com/uidex/uidex/internal/storage"
)

const protocolVersion = "2024-11-05"

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// Request is a JSON-RPC 2.0 request or notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Bridge dispatches MCP JSON-RPC messages to the search service and store.
type Bridge struct {
	service *search.Service
	store   storage.Storage
	logger  *zap.Logger
	version string
}

// NewBridge creates a bridge over the given service and store.
func NewBridge(service *search.Service, store storage.Storage, logger *zap.Logger, version string) *Bridge {
	return &Bridge{service: service, store: store, logger: logger, version: version}
}

// HandleMessage parses one raw JSON-RPC message and dispatches it. A nil
// response means the message was a notification and nothing is to be sent.
func (b *Bridge) HandleMessage(ctx context.Context, raw []byte) *Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(nil, codeParseError, "parse error: "+err.Error())
	}
	return b.HandleRequest(ctx, &req)
}

// HandleRequest dispatches a parsed request.
func (b *Bridge) HandleRequest(ctx context.Context, req *Request) *Response {
	if strings.HasPrefix(req.Method, "notifications/") {
		return nil
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		return errorResponse(req.ID, codeInvalidRequest, "invalid request")
	}

	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    "uidex",
				"version": b.version,
			},
		})
	case "ping":
		return resultResponse(req.ID, map[string]any{})
	case "tools/list":
		return resultResponse(req.ID, map[string]any{"tools": Tools()})
	case "tools/call":
		return b.handleToolsCall(ctx, req)
	default:
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

type toolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (b *Bridge) handleToolsCall(ctx context.Context, req *Request) *Response {
	var p toolCallParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid params: "+err.Error())
	}

	b.logger.Debug("tool call", zap.String("tool", p.Name))

	var (
		result any
		rpcErr *Error
	)
	switch p.Name {
	case "search_component":
		result, rpcErr = b.toolSearch(ctx, p.Arguments)
	case "list_components":
		result, rpcErr = b.toolList(ctx, p.Arguments)
	case "get_component":
		result, rpcErr = b.toolGet(ctx, p.Arguments)
	case "suggest_components":
		result, rpcErr = b.toolSuggest(ctx, p.Arguments)
	case "popular_components":
		result, rpcErr = b.toolPopular(ctx, p.Arguments)
	default:
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("unknown tool: %s", p.Name))
	}

	if rpcErr != nil {
		return &Response{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
	}
	return resultResponse(req.ID, result)
}

func (b *Bridge) toolSearch(ctx context.Context, args map[string]any) (any, *Error) {
	query := stringArg(args, "query")
	if query == "" {
		return nil, &Error{Code: codeInvalidParams, Message: "query is required"}
	}

	limit := intArg(args, "limit")
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	req := &models.SearchRequest{
		Query:         query,
		Namespace:     stringArg(args, "provider"),
		ComponentType: stringArg(args, "category"),
		Mode:          stringArg(args, "mode"),
		Limit:         limit,
	}
	if err := req.Validate(); err != nil {
		return nil, &Error{Code: codeInvalidParams, Message: err.Error()}
	}

	env, err := b.service.Search(ctx, req)
	if err != nil {
		if errors.Is(err, models.ErrUnknownMode) {
			return nil, &Error{Code: codeInvalidParams, Message: err.Error()}
		}
		b.logger.Error("tool search failed", zap.Error(err))
		return nil, &Error{Code: codeInternalError, Message: err.Error()}
	}
	return toolResult(env)
}

func (b *Bridge) toolList(ctx context.Context, args map[string]any) (any, *Error) {
	limit := intArg(args, "limit")
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := intArg(args, "offset")
	if offset < 0 {
		offset = 0
	}
	f := models.Filters{
		Namespace:     stringArg(args, "provider"),
		ComponentType: stringArg(args, "category"),
	}

	comps, err := b.store.ListActive(ctx, f, limit, offset)
	if err != nil {
		b.logger.Error("tool list failed", zap.Error(err))
		return nil, &Error{Code: codeInternalError, Message: err.Error()}
	}
	total, err := b.store.CountActive(ctx, f)
	if err != nil {
		b.logger.Error("tool list count failed", zap.Error(err))
		return nil, &Error{Code: codeInternalError, Message: err.Error()}
	}

	items := make([]*models.RankedResult, len(comps))
	for i, c := range comps {
		items[i] = &models.RankedResult{Component: c}
	}
	return toolResult(&models.Envelope{
		Items:  items,
		Total:  total,
		Status: models.StatusOK,
		Pagination: models.Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
		},
	})
}

func (b *Bridge) toolGet(ctx context.Context, args map[string]any) (any, *Error) {
	id := stringArg(args, "component_id")
	namespace, name, ok := strings.Cut(id, "/")
	if !ok || namespace == "" || name == "" {
		return nil, &Error{Code: codeInvalidParams, Message: `component_id must be "namespace/name"`}
	}

	c, err := b.store.GetComponent(ctx, namespace, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return toolError(fmt.Sprintf("component not found: %s", id))
		}
		b.logger.Error("tool get failed", zap.Error(err))
		return nil, &Error{Code: codeInternalError, Message: err.Error()}
	}
	return toolResult(c)
}

func (b *Bridge) toolSuggest(ctx context.Context, args map[string]any) (any, *Error) {
	query := stringArg(args, "query")
	if query == "" {
		return nil, &Error{Code: codeInvalidParams, Message: "query is required"}
	}
	limit := intArg(args, "limit")
	if limit <= 0 {
		limit = 5
	}

	suggestions, err := b.service.Suggest(ctx, query, limit)
	if err != nil {
		b.logger.Error("tool suggest failed", zap.Error(err))
		return nil, &Error{Code: codeInternalError, Message: err.Error()}
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return toolResult(map[string]any{"query": query, "suggestions": suggestions})
}

func (b *Bridge) toolPopular(ctx context.Context, args map[string]any) (any, *Error) {
	limit := intArg(args, "limit")
	if limit <= 0 {
		limit = 10
	}

	comps, err := b.service.Popular(ctx, stringArg(args, "provider"), limit)
	if err != nil {
		b.logger.Error("tool popular failed", zap.Error(err))
		return nil, &Error{Code: codeInternalError, Message: err.Error()}
	}
	if comps == nil {
		comps = []*models.Component{}
	}
	return toolResult(map[string]any{"items": comps, "total": len(comps)})
}

// toolResult wraps a payload in the MCP content envelope as pretty JSON text.
func toolResult(v any) (any, *Error) {
	text, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, &Error{Code: codeInternalError, Message: "encode result: " + err.Error()}
	}
	return map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": string(text)},
		},
	}, nil
}

// toolError wraps a tool-level failure (such as a missing record) in the MCP
// content envelope with isError set. Protocol failures use Error instead.
func toolError(msg string) (any, *Error) {
	return map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": msg},
		},
		"isError": true,
	}, nil
}

// ServeHTTP handles one JSON-RPC message per POST body.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp := b.HandleMessage(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// HandleHealth reports bridge liveness plus server info and tool count.
func (b *Bridge) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":           "ok",
		"server":           "uidex",
		"version":          b.version,
		"protocol_version": protocolVersion,
		"tools":            len(Tools()),
	})
}

func resultResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &Error{Code: code, Message: message}}
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
