package search

import (
	"context"
	"fmt"

	"github.com/uidex/uidex/internal/models"
)

// Popular returns the most recently added active components, optionally
// narrowed to one namespace. Recency stands in for usage-based popularity;
// no usage signal is consumed.
func (e *Engine) Popular(ctx context.Context, namespace string, limit int) ([]*models.Component, error) {
	if limit <= 0 {
		return []*models.Component{}, nil
	}
	components, err := e.store.Popular(ctx, namespace, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load popular components: %w", err)
	}
	if components == nil {
		components = []*models.Component{}
	}
	return components, nil
}
