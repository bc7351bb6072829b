package search

import (
	"context"
	"fmt"
	"strings"
)

// Suggest returns up to limit autocomplete strings for a raw partial query:
// component names starting with it first, then titles containing it for
// components the name pass did not already cover. No term extraction is
// applied; suggestions work on the text as typed.
func (e *Engine) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || limit <= 0 {
		return []string{}, nil
	}

	names, err := e.store.SuggestNames(ctx, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest names: %w", err)
	}

	suggestions := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		suggestions = append(suggestions, name)
		if len(suggestions) == limit {
			return suggestions, nil
		}
	}

	titles, err := e.store.SuggestTitles(ctx, prefix, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest titles: %w", err)
	}
	for _, title := range titles {
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		suggestions = append(suggestions, title)
		if len(suggestions) == limit {
			break
		}
	}
	return suggestions, nil
}
