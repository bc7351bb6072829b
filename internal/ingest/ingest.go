package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uidex/uidex/internal/models"
	"github.com/uidex/uidex/internal/storage"
)

// Ingestor upserts catalog manifests into the store and records one
// IngestionRun row per manifest.
type Ingestor struct {
	store            storage.Storage
	logger           *zap.Logger
	defaultNamespace string
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithDefaultNamespace supplies a namespace for manifests that carry none.
func WithDefaultNamespace(ns string) Option {
	return func(i *Ingestor) { i.defaultNamespace = ns }
}

// New returns an Ingestor writing to the given store.
func New(store storage.Storage, logger *zap.Logger, opts ...Option) *Ingestor {
	ing := &Ingestor{store: store, logger: logger}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// IngestFile loads one manifest. Invalid entries are skipped with a warning;
// store failures abort the run. The returned run is never nil and is
// persisted (best effort) even when the run failed.
func (i *Ingestor) IngestFile(ctx context.Context, path string) (*models.IngestionRun, error) {
	run := &models.IngestionRun{
		ID:        uuid.NewString(),
		Source:    path,
		StartedAt: time.Now().UTC(),
	}

	m, err := LoadManifest(path, i.defaultNamespace)
	if err != nil {
		return i.finishRun(ctx, run, err)
	}
	run.Namespace = m.Namespace

	for _, in := range m.Components {
		if err := validateInput(in); err != nil {
			i.logger.Warn("skipping invalid catalog entry",
				zap.String("manifest", filepath.Base(path)),
				zap.Error(err))
			continue
		}

		created, err := i.store.UpsertComponent(ctx, in)
		if err != nil {
			return i.finishRun(ctx, run, fmt.Errorf("failed to upsert %s/%s: %w", in.Namespace, in.Name, err))
		}

		run.Processed++
		if created {
			run.Created++
		} else {
			run.Updated++
		}
		if in.Deprecated {
			run.Deactivated++
		}
	}

	_, _ = i.finishRun(ctx, run, nil)
	i.logger.Info("manifest ingested",
		zap.String("manifest", filepath.Base(path)),
		zap.String("namespace", run.Namespace),
		zap.Int("processed", run.Processed),
		zap.Int("created", run.Created),
		zap.Int("updated", run.Updated),
		zap.Int("deactivated", run.Deactivated),
	)
	return run, nil
}

// finishRun stamps the run outcome and persists it. The original error, if
// any, is returned so callers see the cause rather than a bookkeeping
// failure.
func (i *Ingestor) finishRun(ctx context.Context, run *models.IngestionRun, cause error) (*models.IngestionRun, error) {
	completed := time.Now().UTC()
	run.CompletedAt = &completed
	if cause != nil {
		run.Status = models.RunStatusFailed
		run.Error = cause.Error()
	} else {
		run.Status = models.RunStatusCompleted
	}

	if err := i.store.RecordIngestionRun(ctx, run); err != nil {
		i.logger.Warn("failed to record ingestion run", zap.String("run", run.ID), zap.Error(err))
	}
	return run, cause
}

// IngestDir loads every .json manifest in dir. A failing manifest is logged
// and does not stop the others; only an unreadable directory is an error.
func (i *Ingestor) IngestDir(ctx context.Context, dir string) ([]*models.IngestionRun, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest directory: %w", err)
	}

	var runs []*models.IngestionRun
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		run, err := i.IngestFile(ctx, filepath.Join(dir, e.Name()))
		runs = append(runs, run)
		if err != nil {
			i.logger.Error("manifest ingestion failed",
				zap.String("manifest", e.Name()),
				zap.Error(err))
		}
	}
	return runs, nil
}
