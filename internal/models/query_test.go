package models

import (
	"testing"
)

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     *SearchRequest
		wantErr bool
	}{
		{"empty query allowed", &SearchRequest{Query: ""}, false},
		{"defaults mode", &SearchRequest{Query: "button"}, false},
		{"vector mode", &SearchRequest{Query: "button", Mode: ModeVector}, false},
		{"unknown mode", &SearchRequest{Query: "button", Mode: "hybrid"}, true},
		{"sets default limit", &SearchRequest{Query: "x", Limit: 0}, false},
		{"caps limit at 100", &SearchRequest{Query: "x", Limit: 500}, false},
		{"clamps negative offset", &SearchRequest{Query: "x", Offset: -3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.req.Mode != ModeLexical && tt.req.Mode != ModeVector {
				t.Errorf("expected mode normalized, got %q", tt.req.Mode)
			}
			if tt.req.Limit <= 0 || tt.req.Limit > 100 {
				t.Errorf("expected limit in (0, 100], got %d", tt.req.Limit)
			}
			if tt.req.Offset < 0 {
				t.Errorf("expected non-negative offset, got %d", tt.req.Offset)
			}
		})
	}
}

func TestSearchRequest_Filters(t *testing.T) {
	req := &SearchRequest{Query: "card", Namespace: "shadcn", ComponentType: "layout"}
	f := req.Filters()
	if f.Namespace != "shadcn" || f.ComponentType != "layout" {
		t.Errorf("Filters() = %+v", f)
	}
}

func TestEmptyEnvelope(t *testing.T) {
	env := EmptyEnvelope("the", 20, 5)
	if env.Total != 0 || len(env.Items) != 0 {
		t.Errorf("expected empty envelope, got total=%d items=%d", env.Total, len(env.Items))
	}
	if env.Status != StatusOK {
		t.Errorf("expected status ok, got %q", env.Status)
	}
	if env.Pagination.Limit != 20 || env.Pagination.Offset != 5 || env.Pagination.HasMore {
		t.Errorf("unexpected pagination: %+v", env.Pagination)
	}
}
