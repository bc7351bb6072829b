package mcp

import "github.com/modelcontextprotocol/go-sdk/mcp"

// Tools returns the tool descriptors advertised by tools/list. Schemas are
// plain JSON Schema maps; argument decoding lives in the tool handlers.
func Tools() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "search_component",
			Description: "Search the UI component catalog by name, title, description, or tags. Returns ranked matches.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": `Search text, e.g. "button" or "date picker"`,
					},
					"provider": map[string]any{
						"type":        "string",
						"description": `Filter by provider namespace, e.g. "shadcn"`,
					},
					"category": map[string]any{
						"type":        "string",
						"description": "Filter by component category",
					},
					"framework": map[string]any{
						"type":        "string",
						"description": "Accepted for compatibility; the catalog is framework-agnostic",
					},
					"free_only": map[string]any{
						"type":        "boolean",
						"description": "Accepted for compatibility; the catalog carries no pricing",
					},
					"mode": map[string]any{
						"type":        "string",
						"enum":        []string{"lexical", "vector"},
						"description": "Ranking mode, defaults to lexical",
					},
					"limit": map[string]any{
						"type":    "integer",
						"minimum": 1,
						"maximum": 50,
						"default": 10,
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "list_components",
			Description: "List active components, optionally filtered by provider or category, ordered by name.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"provider": map[string]any{
						"type":        "string",
						"description": "Filter by provider namespace",
					},
					"category": map[string]any{
						"type":        "string",
						"description": "Filter by component category",
					},
					"framework": map[string]any{
						"type":        "string",
						"description": "Accepted for compatibility; the catalog is framework-agnostic",
					},
					"limit": map[string]any{
						"type":    "integer",
						"minimum": 1,
						"maximum": 100,
						"default": 20,
					},
					"offset": map[string]any{
						"type":    "integer",
						"minimum": 0,
						"default": 0,
					},
				},
			},
		},
		{
			Name:        "get_component",
			Description: "Fetch a single component by its identifier.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"component_id": map[string]any{
						"type":        "string",
						"description": `Component identifier as "namespace/name", e.g. "shadcn/button"`,
					},
				},
				"required": []string{"component_id"},
			},
		},
		{
			Name:        "suggest_components",
			Description: "Autocomplete component names and titles for a partial query.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Partial component name or title",
					},
					"limit": map[string]any{
						"type":    "integer",
						"minimum": 1,
						"maximum": 20,
						"default": 5,
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "popular_components",
			Description: "List recently added components, optionally scoped to one provider.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"provider": map[string]any{
						"type":        "string",
						"description": "Filter by provider namespace",
					},
					"limit": map[string]any{
						"type":    "integer",
						"minimum": 1,
						"maximum": 50,
						"default": 10,
					},
				},
			},
		},
	}
}
