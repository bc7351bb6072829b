package models

import (
	"errors"
	"fmt"
)

// Search modes.
const (
	ModeLexical = "lexical"
	ModeVector  = "vector"
)

// ErrUnknownMode is returned for a search mode other than lexical or vector.
var ErrUnknownMode = errors.New("unknown search mode")

// Filters narrows a search to an exact namespace and/or component type.
// Empty fields match everything.
type Filters struct {
	Namespace     string `json:"namespace,omitempty"`
	ComponentType string `json:"component_type,omitempty"`
}

// SearchRequest represents a search invocation with optional filters.
type SearchRequest struct {
	Query         string `json:"query"`
	Namespace     string `json:"namespace,omitempty"`
	ComponentType string `json:"component_type,omitempty"`
	Mode          string `json:"mode,omitempty"`
	Limit         int    `json:"limit,omitempty"`
	Offset        int    `json:"offset,omitempty"`
}

// Filters returns the structural filters of the request.
func (r *SearchRequest) Filters() Filters {
	return Filters{Namespace: r.Namespace, ComponentType: r.ComponentType}
}

// Validate normalizes numeric fields and defaults the mode. It belongs to the
// transport boundary: the search service itself assumes sanitized inputs.
// Returns an error for an unknown mode.
func (r *SearchRequest) Validate() error {
	if r.Mode == "" {
		r.Mode = ModeLexical
	}
	if r.Mode != ModeLexical && r.Mode != ModeVector {
		return fmt.Errorf("%w: %q", ErrUnknownMode, r.Mode)
	}
	if r.Limit <= 0 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
	return nil
}
