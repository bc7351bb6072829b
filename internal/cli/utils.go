// Package cli renders command output for the uidex command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/uidex/uidex/internal/models"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const descriptionWidth = 72

// WriteEnvelope writes a search envelope to w in the given format.
func WriteEnvelope(w io.Writer, env *models.Envelope, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, env)
	}

	if len(env.Items) == 0 {
		fmt.Fprintf(w, "No components found for %q\n", env.Query)
		if env.Status == models.StatusDegraded {
			fmt.Fprintln(w, "(vector search unavailable; try lexical mode)")
		}
		return nil
	}

	fmt.Fprintf(w, "Found %d component(s) for %q\n\n", env.Total, env.Query)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPONENT\tSCORE\tTITLE\tDESCRIPTION")
	for _, item := range env.Items {
		c := item.Component
		fmt.Fprintf(tw, "%s/%s\t%s\t%s\t%s\n",
			c.Namespace, c.Name, scoreString(item), c.Title,
			Truncate(c.Description, descriptionWidth))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if env.Pagination.HasMore {
		shown := env.Pagination.Offset + len(env.Items)
		fmt.Fprintf(w, "\nShowing %d of %d; pass --offset %d for more\n", shown, env.Total, shown)
	}
	return nil
}

func scoreString(item *models.RankedResult) string {
	switch {
	case item.RelevanceScore != nil:
		return fmt.Sprintf("%.2f", *item.RelevanceScore)
	case item.SimilarityScore != nil:
		return fmt.Sprintf("%.4f", *item.SimilarityScore)
	default:
		return "-"
	}
}

// WriteComponents writes a plain component listing to w.
func WriteComponents(w io.Writer, comps []*models.Component, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, comps)
	}

	if len(comps) == 0 {
		fmt.Fprintln(w, "No components")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPONENT\tCATEGORY\tTITLE\tDESCRIPTION")
	for _, c := range comps {
		fmt.Fprintf(tw, "%s/%s\t%s\t%s\t%s\n",
			c.Namespace, c.Name, c.ComponentType, c.Title,
			Truncate(c.Description, descriptionWidth))
	}
	return tw.Flush()
}

// WriteComponent writes the detail view of a single component to w.
func WriteComponent(w io.Writer, c *models.Component, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, c)
	}

	fmt.Fprintf(w, "%s/%s\n", c.Namespace, c.Name)
	fmt.Fprintf(w, "  Title:       %s\n", c.Title)
	if c.ComponentType != "" {
		fmt.Fprintf(w, "  Category:    %s\n", c.ComponentType)
	}
	if c.Description != "" {
		fmt.Fprintf(w, "  Description: %s\n", c.Description)
	}
	if len(c.Tags) > 0 {
		fmt.Fprintf(w, "  Tags:        %s\n", strings.Join(c.Tags, ", "))
	}
	if c.DocumentationURL != "" {
		fmt.Fprintf(w, "  Docs:        %s\n", c.DocumentationURL)
	}
	fmt.Fprintf(w, "  Active:      %t\n", c.IsActive)
	fmt.Fprintf(w, "  Updated:     %s\n", c.UpdatedAt.Format(time.RFC3339))
	return nil
}

// WriteSuggestions writes autocomplete suggestions to w, one per line.
func WriteSuggestions(w io.Writer, suggestions []string, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, suggestions)
	}
	for _, s := range suggestions {
		fmt.Fprintln(w, s)
	}
	return nil
}

// WriteRun writes an ingestion run summary to w.
func WriteRun(w io.Writer, run *models.IngestionRun, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, run)
	}
	fmt.Fprintf(w, "%s: %s (processed %d, created %d, updated %d, deactivated %d)\n",
		run.Source, run.Status, run.Processed, run.Created, run.Updated, run.Deactivated)
	if run.Error != "" {
		fmt.Fprintf(w, "  error: %s\n", run.Error)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
