package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/uidex/uidex/internal/models"
)

// SQLiteStorage persists the component catalog in a single SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage opens (creating if needed) the catalog database at path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS components (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		namespace TEXT NOT NULL,
		component_type TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		documentation_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		UNIQUE(name, namespace)
	);

	CREATE INDEX IF NOT EXISTS idx_components_namespace ON components(namespace);
	CREATE INDEX IF NOT EXISTS idx_components_type ON components(component_type);
	CREATE INDEX IF NOT EXISTS idx_components_active ON components(is_active);
	CREATE INDEX IF NOT EXISTS idx_components_created_at ON components(created_at);

	CREATE TABLE IF NOT EXISTS ingestion_runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		namespace TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		processed INTEGER NOT NULL DEFAULT 0,
		created INTEGER NOT NULL DEFAULT 0,
		updated INTEGER NOT NULL DEFAULT 0,
		deactivated INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

const componentColumns = `id, name, namespace, component_type, title, description, tags, documentation_url, created_at, updated_at, is_active`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComponent(row rowScanner) (*models.Component, error) {
	var (
		c    models.Component
		tags string
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Namespace, &c.ComponentType, &c.Title, &c.Description,
		&tags, &c.DocumentationURL, &c.CreatedAt, &c.UpdatedAt, &c.IsActive,
	)
	if err != nil {
		return nil, err
	}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
	}
	return &c, nil
}

func (s *SQLiteStorage) queryComponents(ctx context.Context, query string, args ...interface{}) ([]*models.Component, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	var components []*models.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

// SearchCandidates returns active components where every term occurs in at
// least one of name, title, description or tags. Matching is
// case-insensitive; terms are expected to be lowercase already.
func (s *SQLiteStorage) SearchCandidates(ctx context.Context, terms []string, f models.Filters) ([]*models.Component, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + componentColumns + ` FROM components WHERE is_active = 1`)

	args := make([]interface{}, 0, len(terms)*4+2)
	for _, term := range terms {
		sb.WriteString(` AND (instr(lower(name), ?) > 0 OR instr(lower(title), ?) > 0 OR instr(lower(description), ?) > 0 OR instr(lower(tags), ?) > 0)`)
		args = append(args, term, term, term, term)
	}
	if f.Namespace != "" {
		sb.WriteString(` AND namespace = ?`)
		args = append(args, f.Namespace)
	}
	if f.ComponentType != "" {
		sb.WriteString(` AND component_type = ?`)
		args = append(args, f.ComponentType)
	}
	sb.WriteString(` ORDER BY name ASC, namespace ASC`)

	return s.queryComponents(ctx, sb.String(), args...)
}

// ListActive returns a page of active components ordered by name.
func (s *SQLiteStorage) ListActive(ctx context.Context, f models.Filters, limit, offset int) ([]*models.Component, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + componentColumns + ` FROM components WHERE is_active = 1`)

	var args []interface{}
	if f.Namespace != "" {
		sb.WriteString(` AND namespace = ?`)
		args = append(args, f.Namespace)
	}
	if f.ComponentType != "" {
		sb.WriteString(` AND component_type = ?`)
		args = append(args, f.ComponentType)
	}
	sb.WriteString(` ORDER BY name ASC, namespace ASC LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)

	return s.queryComponents(ctx, sb.String(), args...)
}

// CountActive returns the number of active components matching the filters.
func (s *SQLiteStorage) CountActive(ctx context.Context, f models.Filters) (int, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT COUNT(*) FROM components WHERE is_active = 1`)

	var args []interface{}
	if f.Namespace != "" {
		sb.WriteString(` AND namespace = ?`)
		args = append(args, f.Namespace)
	}
	if f.ComponentType != "" {
		sb.WriteString(` AND component_type = ?`)
		args = append(args, f.ComponentType)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, sb.String(), args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count components: %w", err)
	}
	return count, nil
}

// Popular returns the most recently added active components.
func (s *SQLiteStorage) Popular(ctx context.Context, namespace string, limit int) ([]*models.Component, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + componentColumns + ` FROM components WHERE is_active = 1`)

	var args []interface{}
	if namespace != "" {
		sb.WriteString(` AND namespace = ?`)
		args = append(args, namespace)
	}
	sb.WriteString(` ORDER BY created_at DESC, name ASC LIMIT ?`)
	args = append(args, limit)

	return s.queryComponents(ctx, sb.String(), args...)
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// SuggestNames returns distinct active component names starting with prefix.
func (s *SQLiteStorage) SuggestNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	query := `SELECT DISTINCT name FROM components
		WHERE is_active = 1 AND lower(name) LIKE ? ESCAPE '\'
		ORDER BY name ASC LIMIT ?`
	return s.queryStrings(ctx, query, escapeLike(strings.ToLower(prefix))+"%", limit)
}

// SuggestTitles returns distinct titles of active components containing the
// given fragment, skipping components whose name already matches
// excludeNamePrefix.
func (s *SQLiteStorage) SuggestTitles(ctx context.Context, contains, excludeNamePrefix string, limit int) ([]string, error) {
	query := `SELECT DISTINCT title FROM components
		WHERE is_active = 1 AND title != '' AND instr(lower(title), ?) > 0
		AND lower(name) NOT LIKE ? ESCAPE '\'
		ORDER BY title ASC LIMIT ?`
	return s.queryStrings(ctx, query, strings.ToLower(contains), escapeLike(strings.ToLower(excludeNamePrefix))+"%", limit)
}

func (s *SQLiteStorage) queryStrings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// GetComponent returns a single component by namespace and name, active or
// not. Returns ErrNotFound if it does not exist.
func (s *SQLiteStorage) GetComponent(ctx context.Context, namespace, name string) (*models.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components WHERE namespace = ? AND name = ?`
	c, err := scanComponent(s.db.QueryRowContext(ctx, query, namespace, name))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get component: %w", err)
	}
	return c, nil
}

// UpsertComponent inserts or updates a component keyed by (name, namespace).
// It reports whether a new row was created.
func (s *SQLiteStorage) UpsertComponent(ctx context.Context, in *models.ComponentInput) (bool, error) {
	tags := []byte("[]")
	if len(in.Tags) > 0 {
		var err error
		tags, err = json.Marshal(in.Tags)
		if err != nil {
			return false, fmt.Errorf("failed to encode tags: %w", err)
		}
	}

	now := time.Now().UTC()
	active := !in.Deprecated

	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM components WHERE name = ? AND namespace = ?`,
		in.Name, in.Namespace,
	).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO components (name, namespace, component_type, title, description, tags, documentation_url, created_at, updated_at, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			in.Name, in.Namespace, in.ComponentType, in.Title, in.Description,
			string(tags), in.DocumentationURL, now, now, active,
		)
		if err != nil {
			return false, fmt.Errorf("failed to insert component: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("failed to look up component: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE components
		SET component_type = ?, title = ?, description = ?, tags = ?, documentation_url = ?, updated_at = ?, is_active = ?
		WHERE id = ?`,
		in.ComponentType, in.Title, in.Description, string(tags),
		in.DocumentationURL, now, active, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update component: %w", err)
	}
	return false, nil
}

// RecordIngestionRun stores the outcome of one ingestion run.
func (s *SQLiteStorage) RecordIngestionRun(ctx context.Context, run *models.IngestionRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingestion_runs (id, source, namespace, status, processed, created, updated, deactivated, error, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Namespace, run.Status,
		run.Processed, run.Created, run.Updated, run.Deactivated,
		run.Error, run.StartedAt, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record ingestion run: %w", err)
	}
	return nil
}

// CountComponents returns the total number of components, active or not.
func (s *SQLiteStorage) CountComponents(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM components`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count components: %w", err)
	}
	return count, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
