// Package models defines core data structures for components, queries, and search results.
package models

import "time"

// Component is a catalog entry for a UI component scraped from a design
// library's documentation. The search subsystem treats components as
// read-only; only ingestion creates or updates them.
type Component struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Namespace        string    `json:"namespace" db:"namespace"`
	ComponentType    string    `json:"component_type" db:"component_type"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description" db:"description"`
	Tags             []string  `json:"tags" db:"tags"`
	DocumentationURL string    `json:"documentation_url" db:"documentation_url"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
	IsActive         bool      `json:"is_active" db:"is_active"`
}

// ComponentInput is the ingestion-side shape of a component, as it appears in
// a catalog manifest. (Name, Namespace) identifies the record to upsert;
// Deprecated maps to IsActive=false.
type ComponentInput struct {
	Name             string   `json:"name"`
	Namespace        string   `json:"namespace,omitempty"`
	ComponentType    string   `json:"component_type,omitempty"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	DocumentationURL string   `json:"documentation_url,omitempty"`
	Deprecated       bool     `json:"deprecated,omitempty"`
}

// IngestionRun records the outcome of loading one catalog manifest.
type IngestionRun struct {
	ID          string     `json:"id" db:"id"`
	Source      string     `json:"source" db:"source"`
	Namespace   string     `json:"namespace" db:"namespace"`
	Status      string     `json:"status" db:"status"`
	Processed   int        `json:"processed" db:"processed"`
	Created     int        `json:"created" db:"created"`
	Updated     int        `json:"updated" db:"updated"`
	Deactivated int        `json:"deactivated" db:"deactivated"`
	Error       string     `json:"error,omitempty" db:"error"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Ingestion run statuses.
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)
