package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uidex/uidex/internal/models"
	"github.com/uidex/uidex/internal/search"
	"github.com/uidex/uidex/internal/storage"
)

func newTestBridge(t *testing.T) *Bridge {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "uidex.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	seed := []*models.ComponentInput{
		{
			Name:          "button",
			Namespace:     "shadcn",
			ComponentType: "form",
			Title:         "Button",
			Description:   "Displays a button or a component that looks like a button.",
			Tags:          []string{"action", "form"},
		},
		{
			Name:          "card",
			Namespace:     "shadcn",
			ComponentType: "layout",
			Title:         "Card",
			Description:   "Displays a card with header, content, and footer.",
		},
		{
			Name:          "marquee",
			Namespace:     "magicui",
			ComponentType: "animation",
			Title:         "Marquee",
			Description:   "An infinite scrolling component for text or images.",
		},
	}
	for _, in := range seed {
		_, err := store.UpsertComponent(ctx, in)
		require.NoError(t, err)
	}

	logger := zap.NewNop()
	service := search.NewService(search.NewEngine(store, logger), nil)
	return NewBridge(service, store, logger, "test")
}

func call(t *testing.T, b *Bridge, method string, params any) *Response {
	t.Helper()

	req := &Request{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: method}
	if params != nil {
		data, err := json.Marshal(params)
		require.NoError(t, err)
		req.Params = data
	}
	return b.HandleRequest(context.Background(), req)
}

func callTool(t *testing.T, b *Bridge, name string, args map[string]any) *Response {
	t.Helper()
	return call(t, b, "tools/call", map[string]any{"name": name, "arguments": args})
}

// toolContent is the MCP content envelope shape for decoding in tests.
type toolContent struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func decodeResult(t *testing.T, resp *Response, target any) {
	t.Helper()

	require.NotNil(t, resp)
	require.Nil(t, resp.Error, "unexpected rpc error: %+v", resp.Error)
	data, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target))
}

func decodeToolText(t *testing.T, resp *Response, target any) toolContent {
	t.Helper()

	var tc toolContent
	decodeResult(t, resp, &tc)
	require.Len(t, tc.Content, 1)
	require.Equal(t, "text", tc.Content[0].Type)
	if target != nil {
		require.NoError(t, json.Unmarshal([]byte(tc.Content[0].Text), target))
	}
	return tc
}

func TestInitialize(t *testing.T) {
	b := newTestBridge(t)

	resp := call(t, b, "initialize", map[string]any{"protocolVersion": protocolVersion})

	var result struct {
		ProtocolVersion string `json:"protocolVersion"`
		Capabilities    struct {
			Tools map[string]any `json:"tools"`
		} `json:"capabilities"`
		ServerInfo struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	decodeResult(t, resp, &result)

	require.Equal(t, protocolVersion, result.ProtocolVersion)
	require.NotNil(t, result.Capabilities.Tools)
	require.Equal(t, "uidex", result.ServerInfo.Name)
	require.Equal(t, "test", result.ServerInfo.Version)
}

func TestToolsList(t *testing.T) {
	b := newTestBridge(t)

	resp := call(t, b, "tools/list", nil)

	var result struct {
		Tools []struct {
			Name        string         `json:"name"`
			Description string         `json:"description"`
			InputSchema map[string]any `json:"inputSchema"`
		} `json:"tools"`
	}
	decodeResult(t, resp, &result)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
		require.NotEmpty(t, tool.Description, "tool %s has no description", tool.Name)
		require.Equal(t, "object", tool.InputSchema["type"])
	}
	require.Equal(t, []string{
		"search_component",
		"list_components",
		"get_component",
		"suggest_components",
		"popular_components",
	}, names)
}

func TestToolsCallSearch(t *testing.T) {
	b := newTestBridge(t)

	resp := callTool(t, b, "search_component", map[string]any{"query": "button"})

	var env models.Envelope
	decodeToolText(t, resp, &env)

	require.Equal(t, "button", env.Query)
	require.GreaterOrEqual(t, env.Total, 1)
	require.Equal(t, "button", env.Items[0].Component.Name)
	require.NotNil(t, env.Items[0].RelevanceScore)
}

func TestToolsCallSearchWithProviderFilter(t *testing.T) {
	b := newTestBridge(t)

	resp := callTool(t, b, "search_component", map[string]any{
		"query":    "component",
		"provider": "magicui",
	})

	var env models.Envelope
	decodeToolText(t, resp, &env)

	require.Equal(t, 1, env.Total)
	require.Equal(t, "marquee", env.Items[0].Component.Name)
}

func TestToolsCallSearchMissingQuery(t *testing.T) {
	b := newTestBridge(t)

	resp := callTool(t, b, "search_component", map[string]any{})

	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestToolsCallSearchUnknownMode(t *testing.T) {
	b := newTestBridge(t)

	resp := callTool(t, b, "search_component", map[string]any{
		"query": "button",
		"mode":  "quantum",
	})

	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestToolsCallList(t *testing.T) {
	b := newTestBridge(t)

	resp := callTool(t, b, "list_components", map[string]any{"provider": "shadcn"})

	var env models.Envelope
	decodeToolText(t, resp, &env)

	require.Equal(t, 2, env.Total)
	require.Len(t, env.Items, 2)
	require.Equal(t, "button", env.Items[0].Component.Name)
	require.Equal(t, "card", env.Items[1].Component.Name)
	require.Nil(t, env.Items[0].RelevanceScore)
	require.False(t, env.Pagination.HasMore)
}

func TestToolsCallGetComponent(t *testing.T) {
	b := newTestBridge(t)

	resp := callTool(t, b, "get_component", map[string]any{"component_id": "shadcn/button"})

	var c models.Component
	decodeToolText(t, resp, &c)

	require.Equal(t, "button", c.Name)
	require.Equal(t, "shadcn", c.Namespace)
	require.Equal(t, "Button", c.Title)
}

func TestToolsCallGetComponentNotFound(t *testing.T) {
	b := newTestBridge(t)

	resp := callTool(t, b, "get_component", map[string]any{"component_id": "shadcn/missing"})

	tc := decodeToolText(t, resp, nil)
	require.True(t, tc.IsError)
	require.Contains(t, tc.Content[0].Text, "component not found")
}

func TestToolsCallGetComponentBadID(t *testing.T) {
	b := newTestBridge(t)

	resp := callTool(t, b, "get_component", map[string]any{"component_id": "button"})

	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestToolsCallSuggest(t *testing.T) {
	b := newTestBridge(t)

	resp := callTool(t, b, "suggest_components", map[string]any{"query": "bu"})

	var result struct {
		Query       string   `json:"query"`
		Suggestions []string `json:"suggestions"`
	}
	decodeToolText(t, resp, &result)

	require.Equal(t, "bu", result.Query)
	require.Contains(t, result.Suggestions, "button")
}

func TestToolsCallPopular(t *testing.T) {
	b := newTestBridge(t)

	resp := callTool(t, b, "popular_components", map[string]any{"limit": float64(2)})

	var result struct {
		Items []*models.Component `json:"items"`
		Total int                 `json:"total"`
	}
	decodeToolText(t, resp, &result)

	require.Equal(t, 2, result.Total)
	require.Len(t, result.Items, 2)
}

func TestToolsCallUnknownTool(t *testing.T) {
	b := newTestBridge(t)

	resp := callTool(t, b, "delete_component", map[string]any{})

	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestUnknownMethod(t *testing.T) {
	b := newTestBridge(t)

	resp := call(t, b, "resources/list", nil)

	require.NotNil(t, resp.Error)
	require.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestParseError(t *testing.T) {
	b := newTestBridge(t)

	resp := b.HandleMessage(context.Background(), []byte(`{not json`))

	require.NotNil(t, resp.Error)
	require.Equal(t, codeParseError, resp.Error.Code)
}

func TestInvalidRequest(t *testing.T) {
	b := newTestBridge(t)

	resp := b.HandleRequest(context.Background(), &Request{
		JSONRPC: "1.0",
		ID:      json.RawMessage(`1`),
		Method:  "initialize",
	})

	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidRequest, resp.Error.Code)
}

func TestNotificationGetsNoResponse(t *testing.T) {
	b := newTestBridge(t)

	resp := b.HandleRequest(context.Background(), &Request{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	})

	require.Nil(t, resp)
}

func TestServeHTTP(t *testing.T) {
	b := newTestBridge(t)

	body := `{"jsonrpc":"2.0","id":7,"method":"tools/list"}`
	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(body))
	rec := httptest.NewRecorder()

	b.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2.0", resp.JSONRPC)
	require.Equal(t, json.RawMessage(`7`), resp.ID)
	require.Nil(t, resp.Error)
}

func TestServeHTTPNotification(t *testing.T) {
	b := newTestBridge(t)

	body := `{"jsonrpc":"2.0","method":"notifications/initialized"}`
	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(body))
	rec := httptest.NewRecorder()

	b.ServeHTTP(rec, req)

	require.Equal(t, 202, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestHandleHealth(t *testing.T) {
	b := newTestBridge(t)

	req := httptest.NewRequest("GET", "/mcp/health", nil)
	rec := httptest.NewRecorder()

	b.HandleHealth(rec, req)

	require.Equal(t, 200, rec.Code)
	var health struct {
		Status  string `json:"status"`
		Server  string `json:"server"`
		Version string `json:"version"`
		Tools   int    `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "uidex", health.Server)
	require.Equal(t, "test", health.Version)
	require.Equal(t, 5, health.Tools)
}

func TestRunStdio(t *testing.T) {
	b := newTestBridge(t)

	in := strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}` + "\n" +
			`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n" +
			`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n",
	)
	var out bytes.Buffer

	require.NoError(t, b.RunStdio(context.Background(), in, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2, "notification must not produce output")

	var first Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, json.RawMessage(`1`), first.ID)
	require.Nil(t, first.Error)

	var second Response
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, json.RawMessage(`2`), second.ID)
	require.Nil(t, second.Error)
}
