// Package ingest loads catalog manifests into the component store and warms
// the embedding cache.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uidex/uidex/internal/models"
)

// Manifest is one catalog file: a namespace and the components it ships.
type Manifest struct {
	Namespace  string                   `json:"namespace"`
	Components []*models.ComponentInput `json:"components"`
}

// LoadManifest reads and parses a manifest file. A manifest without a
// namespace falls back to fallbackNamespace; component entries inherit the
// manifest namespace when they carry none of their own.
func LoadManifest(path, fallbackNamespace string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filepath.Base(path), err)
	}
	if m.Namespace == "" {
		m.Namespace = fallbackNamespace
	}
	if m.Namespace == "" {
		return nil, fmt.Errorf("manifest %s: namespace is required", filepath.Base(path))
	}

	for _, c := range m.Components {
		if c.Namespace == "" {
			c.Namespace = m.Namespace
		}
	}
	return &m, nil
}

// validateInput checks the fields every catalog entry must carry.
func validateInput(c *models.ComponentInput) error {
	if c.Name == "" {
		return fmt.Errorf("component has no name")
	}
	if c.Title == "" {
		return fmt.Errorf("component %s has no title", c.Name)
	}
	return nil
}
