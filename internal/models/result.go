package models

// Envelope statuses. A degraded envelope means the vector backend was
// unavailable or the query could not be embedded; transport-level failures
// surface as errors, never as a status.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// RankedResult is a single search hit. Exactly one score field is set:
// RelevanceScore for lexical mode (unbounded, 2 decimals), SimilarityScore
// for vector mode (cosine in [-1, 1], 4 decimals).
type RankedResult struct {
	Component       *Component `json:"component"`
	RelevanceScore  *float64   `json:"relevance_score,omitempty"`
	SimilarityScore *float64   `json:"similarity_score,omitempty"`
}

// LexicalResult builds a lexical-mode hit.
func LexicalResult(c *Component, score float64) *RankedResult {
	return &RankedResult{Component: c, RelevanceScore: &score}
}

// VectorResult builds a vector-mode hit.
func VectorResult(c *Component, similarity float64) *RankedResult {
	return &RankedResult{Component: c, SimilarityScore: &similarity}
}

// Pagination describes the window of an envelope.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// Envelope is the standardized search response shape across all front-ends.
// Terms carries the preprocessed query terms for diagnostics.
type Envelope struct {
	Query      string          `json:"query"`
	Terms      []string        `json:"terms,omitempty"`
	Items      []*RankedResult `json:"items"`
	Total      int             `json:"total"`
	Status     string          `json:"status"`
	Pagination Pagination      `json:"pagination"`
}

// EmptyEnvelope returns a successful envelope with no items, used when the
// query preprocesses to no terms or when filters match nothing.
func EmptyEnvelope(query string, limit, offset int) *Envelope {
	return &Envelope{
		Query:      query,
		Items:      []*RankedResult{},
		Total:      0,
		Status:     StatusOK,
		Pagination: Pagination{Limit: limit, Offset: offset},
	}
}
