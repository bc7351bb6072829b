package benchmark

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/uidex/uidex/internal/embedding"
	"github.com/uidex/uidex/internal/models"
	"github.com/uidex/uidex/internal/search"
	"github.com/uidex/uidex/internal/storage"
)

func BenchmarkTerms(b *testing.B) {
	query := "animated gradient button with the shimmering border for a hero section"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = search.Terms(query)
	}
}

func BenchmarkLexicalSearch(b *testing.B) {
	store, err := storage.NewSQLiteStorage(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	types := []string{"form", "layout", "overlay", "animation", "feedback"}
	for i := 0; i < 500; i++ {
		in := &models.ComponentInput{
			Name:          fmt.Sprintf("widget-%03d", i),
			Namespace:     fmt.Sprintf("provider-%d", i%5),
			ComponentType: types[i%len(types)],
			Title:         fmt.Sprintf("Widget %03d", i),
			Description:   "A reusable interface widget for composing dashboards and forms.",
			Tags:          []string{"widget", types[i%len(types)]},
		}
		if _, err := store.UpsertComponent(ctx, in); err != nil {
			b.Fatal(err)
		}
	}

	engine := search.NewEngine(store, zap.NewNop())
	req := &models.SearchRequest{Query: "widget dashboard", Mode: models.ModeLexical, Limit: 20}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Search(ctx, req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSuggest(b *testing.B) {
	store, err := storage.NewSQLiteStorage(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 500; i++ {
		in := &models.ComponentInput{
			Name:      fmt.Sprintf("widget-%03d", i),
			Namespace: "bench",
			Title:     fmt.Sprintf("Widget %03d", i),
		}
		if _, err := store.UpsertComponent(ctx, in); err != nil {
			b.Fatal(err)
		}
	}

	engine := search.NewEngine(store, zap.NewNop())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Suggest(ctx, "wid", 5); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMockEmbed(b *testing.B) {
	e := embedding.NewMock(384)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Embed(ctx, "benchmark query text for embedding")
	}
}
