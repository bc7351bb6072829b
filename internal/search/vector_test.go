package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/uidex/uidex/internal/models"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	failFor map[string]bool
	failAll bool
	calls   map[string]int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[text]++
	if f.failAll {
		return nil, errors.New("backend down")
	}
	if f.failFor[text] {
		return nil, errors.New("embed failed")
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no vector for %q", text)
}

func TestVectorSearch_NoBackend(t *testing.T) {
	v := NewVectorEngine(&fakeStore{components: []*models.Component{comp("button", "a")}}, nil, zap.NewNop())

	if v.Available() {
		t.Error("Available() should be false without an embedder")
	}
	items, status, err := v.Search(context.Background(), "login form", models.Filters{}, 5)
	if err != nil {
		t.Fatalf("Search must not fail without a backend: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %d, want 0", len(items))
	}
	if status != models.StatusDegraded {
		t.Errorf("status = %q, want degraded", status)
	}
}

func TestVectorSearch_QueryEmbeddingFailure(t *testing.T) {
	store := &fakeStore{components: []*models.Component{comp("button", "a")}}
	v := NewVectorEngine(store, &fakeEmbedder{failAll: true}, zap.NewNop())

	items, status, err := v.Search(context.Background(), "button", models.Filters{}, 5)
	if err != nil {
		t.Fatalf("query embedding failure must degrade, not error: %v", err)
	}
	if len(items) != 0 || status != models.StatusDegraded {
		t.Errorf("got %d items, status %q; want empty degraded result", len(items), status)
	}
}

func TestVectorSearch_RanksByCosine(t *testing.T) {
	closeMatch := comp("login-form", "a", withTitle("Login Form"))
	midMatch := comp("signup", "a")
	farMatch := comp("marquee", "a")

	emb := &fakeEmbedder{vectors: map[string][]float32{
		"login form":                {1, 0},
		Representation(closeMatch): {1, 0},
		Representation(midMatch):   {1, 1},
		Representation(farMatch):   {0, 1},
	}}
	store := &fakeStore{components: []*models.Component{farMatch, midMatch, closeMatch}}
	v := NewVectorEngine(store, emb, zap.NewNop())

	items, status, err := v.Search(context.Background(), "login form", models.Filters{}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if status != models.StatusOK {
		t.Errorf("status = %q, want ok", status)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	wantOrder := []string{"login-form", "signup", "marquee"}
	for i, want := range wantOrder {
		if items[i].Component.Name != want {
			t.Errorf("items[%d] = %s, want %s", i, items[i].Component.Name, want)
		}
	}
	if got := *items[0].SimilarityScore; got != 1 {
		t.Errorf("identical vectors similarity = %v, want 1", got)
	}
	// 1/sqrt(2) rounded to 4 decimals.
	if got := *items[1].SimilarityScore; got != 0.7071 {
		t.Errorf("similarity = %v, want 0.7071", got)
	}
	if got := *items[2].SimilarityScore; got != 0 {
		t.Errorf("orthogonal similarity = %v, want 0", got)
	}
}

func TestVectorSearch_SkipsRecordsThatFailToEmbed(t *testing.T) {
	good := comp("button", "a")
	bad := comp("card", "a")

	emb := &fakeEmbedder{
		vectors: map[string][]float32{
			"widgets":             {1, 0},
			Representation(good): {1, 0},
		},
		failFor: map[string]bool{Representation(bad): true},
	}
	store := &fakeStore{components: []*models.Component{good, bad}}
	v := NewVectorEngine(store, emb, zap.NewNop())

	items, status, err := v.Search(context.Background(), "widgets", models.Filters{}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if status != models.StatusOK {
		t.Errorf("status = %q, want ok despite skipped record", status)
	}
	if len(items) != 1 || items[0].Component.Name != "button" {
		t.Errorf("items = %d, want only the embeddable record", len(items))
	}
}

func TestVectorSearch_LimitAndTieBreaks(t *testing.T) {
	a := comp("alert", "a")
	b := comp("badge", "a")
	c := comp("chip", "a")

	vec := []float32{1, 0}
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"widgets":         vec,
		Representation(a): vec,
		Representation(b): vec,
		Representation(c): vec,
	}}
	store := &fakeStore{components: []*models.Component{c, a, b}}
	v := NewVectorEngine(store, emb, zap.NewNop())

	items, _, err := v.Search(context.Background(), "widgets", models.Filters{}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want limit-capped 2", len(items))
	}
	if items[0].Component.Name != "alert" || items[1].Component.Name != "badge" {
		t.Errorf("tie-break order = %s, %s; want alert, badge", items[0].Component.Name, items[1].Component.Name)
	}
}

func TestVectorSearch_EmptyQuery(t *testing.T) {
	v := NewVectorEngine(&fakeStore{}, &fakeEmbedder{}, zap.NewNop())

	items, status, err := v.Search(context.Background(), "  ", models.Filters{}, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(items) != 0 || status != models.StatusOK {
		t.Errorf("blank query: items=%d status=%q, want empty ok", len(items), status)
	}
}

func TestVectorSearch_StoreError(t *testing.T) {
	wantErr := errors.New("db closed")
	emb := &fakeEmbedder{vectors: map[string][]float32{"button": {1}}}
	v := NewVectorEngine(&fakeStore{failWith: wantErr}, emb, zap.NewNop())

	if _, _, err := v.Search(context.Background(), "button", models.Filters{}, 5); !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero magnitude", []float32{0, 0}, []float32{1, 2}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
		{"dimension mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := round4(cosine(tt.a, tt.b))
			if got != tt.want {
				t.Errorf("cosine = %v, want %v", got, tt.want)
			}
		})
	}
}
