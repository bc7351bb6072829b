package search

import (
	"math"
	"strings"

	"github.com/uidex/uidex/internal/models"
)

// Lexical scoring weights. Full-query matches dominate, per-term matches
// refine, and shorter names get a small boost so "button" outranks
// "button-group-with-dropdown" on equal matches.
const (
	scoreNameExact     = 100.0
	scoreNamePrefix    = 50.0
	scoreNameContains  = 25.0
	scoreTitleExact    = 75.0
	scoreTitleContains = 15.0
	scoreDescContains  = 10.0
	scorePerTag        = 5.0
	scoreTermInName    = 20.0
	scoreTermInTitle   = 10.0
	scoreTermInDesc    = 5.0
	nameLengthCeiling  = 50.0
)

// score computes the lexical relevance of a component for the raw query and
// its extracted terms. Pure function, case-insensitive, rounded to two
// decimals.
func score(c *models.Component, query string, terms []string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	name := strings.ToLower(c.Name)
	title := strings.ToLower(c.Title)
	desc := strings.ToLower(c.Description)

	var total float64

	switch {
	case name == q:
		total += scoreNameExact
	case strings.HasPrefix(name, q):
		total += scoreNamePrefix
	case strings.Contains(name, q):
		total += scoreNameContains
	}

	switch {
	case title == q:
		total += scoreTitleExact
	case strings.Contains(title, q):
		total += scoreTitleContains
	}

	if strings.Contains(desc, q) {
		total += scoreDescContains
	}

	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			total += scorePerTag
		}
	}

	for _, term := range terms {
		if strings.Contains(name, term) {
			total += scoreTermInName
		}
		if strings.Contains(title, term) {
			total += scoreTermInTitle
		}
		if strings.Contains(desc, term) {
			total += scoreTermInDesc
		}
	}

	if bonus := nameLengthCeiling - float64(len(c.Name)); bonus > 0 {
		total += bonus
	}

	return math.Round(total*100) / 100
}
