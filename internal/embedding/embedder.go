// Package embedding provides text embedding transports and the caching
// layers in front of them.
package embedding

import (
	"context"
	"errors"
)

// ErrNoBackend is returned when an operation needs an embedding backend and
// none is configured.
var ErrNoBackend = errors.New("no embedding backend configured")

// Embedder produces a vector embedding for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
