// Package storage defines the persistence interface for the component catalog.
package storage

import (
	"context"
	"errors"

	"github.com/uidex/uidex/internal/models"
)

// ErrNotFound is returned when a component does not exist.
var ErrNotFound = errors.New("component not found")

// Storage defines catalog persistence operations. The search side only
// reads; writes come from ingestion.
type Storage interface {
	// Search-side reads
	SearchCandidates(ctx context.Context, terms []string, f models.Filters) ([]*models.Component, error)
	ListActive(ctx context.Context, f models.Filters, limit, offset int) ([]*models.Component, error)
	CountActive(ctx context.Context, f models.Filters) (int, error)
	Popular(ctx context.Context, namespace string, limit int) ([]*models.Component, error)
	SuggestNames(ctx context.Context, prefix string, limit int) ([]string, error)
	SuggestTitles(ctx context.Context, contains, excludeNamePrefix string, limit int) ([]string, error)
	GetComponent(ctx context.Context, namespace, name string) (*models.Component, error)

	// Ingestion-side writes
	UpsertComponent(ctx context.Context, in *models.ComponentInput) (created bool, err error)
	RecordIngestionRun(ctx context.Context, run *models.IngestionRun) error

	// Stats
	CountComponents(ctx context.Context) (int64, error)

	Close() error
}
