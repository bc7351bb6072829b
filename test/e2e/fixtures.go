// Manifest fixtures: the corpus written to disk in the shape the ingestion
// loader consumes, one file per provider namespace.
package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uidex/uidex/internal/ingest"
	"github.com/uidex/uidex/internal/models"
)

// WriteManifests writes one <namespace>.json manifest per provider namespace
// into dir and returns the written paths. Entries rely on manifest-level
// namespace inheritance rather than carrying their own.
func WriteManifests(dir string, c *Corpus) ([]string, error) {
	byNamespace := make(map[string][]*models.ComponentInput)
	for _, e := range c.Entries {
		byNamespace[e.Namespace] = append(byNamespace[e.Namespace], &models.ComponentInput{
			Name:          e.Name,
			ComponentType: e.ComponentType,
			Title:         e.Title,
			Description:   e.Description,
			Tags:          e.Tags,
		})
	}

	var paths []string
	for _, ns := range c.Namespaces() {
		m := ingest.Manifest{Namespace: ns, Components: byNamespace[ns]}
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal manifest %s: %w", ns, err)
		}
		path := filepath.Join(dir, ns+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write manifest %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
