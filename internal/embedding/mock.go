package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/uidex/uidex/internal/metrics"
)

const mockDefaultDimensions = 16

// Mock is a deterministic offline embedder for development and tests. The
// vector is derived from a digest of the text, so equal texts always embed
// to equal unit vectors and different texts almost never collide.
type Mock struct {
	dimensions int
}

// NewMock returns a mock embedder producing vectors of the given size.
func NewMock(dimensions int) *Mock {
	if dimensions <= 0 {
		dimensions = mockDefaultDimensions
	}
	return &Mock{dimensions: dimensions}
}

// Embed derives a unit vector from the text digest. It never fails.
func (m *Mock) Embed(_ context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))

	vector := make([]float32, m.dimensions)
	var norm float64
	for i := range vector {
		word := binary.LittleEndian.Uint32(sum[(i*4)%28:]) + uint32(i)*2654435761
		v := float64(word%2001)/1000 - 1 // [-1, 1]
		vector[i] = float32(v)
		norm += v * v
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues("mock", "success").Inc()
	return vector, nil
}
