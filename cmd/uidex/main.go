// Package main is the uidex CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	clifmt "github.com/uidex/uidex/internal/cli"
	"github.com/uidex/uidex/internal/config"
	"github.com/uidex/uidex/internal/embedding"
	"github.com/uidex/uidex/internal/ingest"
	"github.com/uidex/uidex/internal/logger"
	"github.com/uidex/uidex/internal/mcp"
	"github.com/uidex/uidex/internal/metrics"
	"github.com/uidex/uidex/internal/models"
	"github.com/uidex/uidex/internal/search"
	"github.com/uidex/uidex/internal/server"
	"github.com/uidex/uidex/internal/storage"
	"github.com/uidex/uidex/internal/version"
	"github.com/uidex/uidex/internal/watcher"
)

const configEnvVar = "UIDEX_CONFIG"

func main() {
	app := &cli.App{
		Name:    "uidex",
		Usage:   "UI component catalog search service",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file path (defaults to $UIDEX_CONFIG, then ./config.yaml)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			ingestCommand(),
			searchCommand(),
			suggestCommand(),
			popularCommand(),
			showCommand(),
			warmCommand(),
			mcpCommand(),
			statusCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the config path from the --config flag, then the
// UIDEX_CONFIG environment variable, then ./config.yaml. With none of those
// the built-in defaults apply.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		path = os.Getenv(configEnvVar)
	}
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func formatFlag(c *cli.Context) clifmt.OutputFormat {
	if c.Bool("json") {
		return clifmt.OutputJSON
	}
	return clifmt.OutputText
}

func parseComponentID(id string) (namespace, name string, err error) {
	namespace, name, ok := strings.Cut(id, "/")
	if !ok || namespace == "" || name == "" {
		return "", "", fmt.Errorf(`component id must be "namespace/name", got %q`, id)
	}
	return namespace, name, nil
}

// components holds the wired services behind every command.
type components struct {
	store    *storage.SQLiteStorage
	service  *search.Service
	cache    *embedding.Cached
	embedder embedding.Embedder
	redis    *embedding.RedisCache
	log      *zap.Logger
}

func (c *components) Close() {
	if c.redis != nil {
		c.redis.Close()
	}
	if c.store != nil {
		_ = c.store.Close()
	}
}

func buildComponents(cfg *config.Config, log *zap.Logger) (*components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	comps := &components{store: store, log: log}

	var inner embedding.Embedder
	switch cfg.Embedding.Provider {
	case "":
		// vector search disabled
	case "mock":
		inner = embedding.NewMock(cfg.Embedding.Dimensions)
	case "openai":
		inner = embedding.NewOpenAI(embedding.OpenAIConfig{
			BaseURL:    cfg.Embedding.BaseURL,
			APIKey:     cfg.Embedding.APIKey,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	default:
		_ = store.Close()
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Embedding.Provider)
	}

	if inner != nil {
		var remote embedding.RemoteCache
		if cfg.Embedding.Cache.RedisAddr != "" {
			rc, err := embedding.NewRedisCache(cfg.Embedding.Cache.RedisAddr, cfg.Embedding.Model)
			if err != nil {
				log.Warn("redis cache unavailable, continuing with local cache only", zap.Error(err))
			} else {
				comps.redis = rc
				remote = rc
			}
		}
		comps.cache = embedding.NewCached(inner, embedding.NewCache(cfg.Embedding.Cache.Size), remote, log)
		comps.embedder = comps.cache
	}

	engine := search.NewEngine(store, log)
	var vecEngine *search.VectorEngine
	if comps.embedder != nil {
		vecEngine = search.NewVectorEngine(store, comps.embedder, log)
	}
	comps.service = search.NewService(engine, vecEngine)
	return comps, nil
}

// withComponents loads config, builds the logger and wired services, and
// invokes fn with a signal-cancelled context.
func withComponents(c *cli.Context, fn func(ctx context.Context, cfg *config.Config, comps *components) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Env, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	comps, err := buildComponents(cfg, log)
	if err != nil {
		return err
	}
	defer comps.Close()

	ctx, stop := signalContext()
	defer stop()
	return fn(ctx, cfg, comps)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API, metrics endpoint, and MCP bridge",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "bind address (overrides config)"},
			&cli.IntFlag{Name: "port", Usage: "listen port (overrides config)"},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("host") {
		cfg.Server.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}

	log, err := logger.New(cfg.Env, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.Metrics.EnabledOrDefault() {
		metrics.Register()
	}

	comps, err := buildComponents(cfg, log)
	if err != nil {
		return err
	}
	defer comps.Close()

	ctx, stop := signalContext()
	defer stop()

	ingestor := ingest.New(comps.store, log)
	if _, err := os.Stat(cfg.Catalog.ManifestDir); err == nil {
		if _, err := ingestor.IngestDir(ctx, cfg.Catalog.ManifestDir); err != nil {
			log.Warn("initial catalog ingestion failed", zap.Error(err))
		}
	}

	if cfg.Catalog.Watch {
		w := watcher.New(cfg.Catalog.ManifestDir, func(path string) {
			if _, err := ingestor.IngestFile(context.Background(), path); err != nil {
				log.Warn("manifest re-ingestion failed", zap.String("path", path), zap.Error(err))
			}
		}, log)
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to start manifest watcher: %w", err)
		}
		defer w.Stop()
	}

	bridge := mcp.NewBridge(comps.service, comps.store, log, version.Version)
	srv := server.NewServer(comps.service, comps.store, bridge, comps.cache, cfg, log, version.Version)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(stopCtx)
}

func ingestCommand() *cli.Command {
	return &cli.Command{
		Name:  "ingest",
		Usage: "Load catalog manifests into the store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "ingest a single manifest file"},
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "ingest every .json manifest in a directory (defaults to catalog.manifest_dir)"},
			&cli.StringFlag{Name: "namespace", Usage: "namespace for manifests that carry none"},
			&cli.BoolFlag{Name: "json", Usage: "print run records as JSON"},
		},
		Action: runIngest,
	}
}

func runIngest(c *cli.Context) error {
	return withComponents(c, func(ctx context.Context, cfg *config.Config, comps *components) error {
		var opts []ingest.Option
		if ns := c.String("namespace"); ns != "" {
			opts = append(opts, ingest.WithDefaultNamespace(ns))
		}
		ing := ingest.New(comps.store, comps.log, opts...)
		format := formatFlag(c)

		if file := c.String("file"); file != "" {
			run, err := ing.IngestFile(ctx, file)
			if run != nil {
				_ = clifmt.WriteRun(os.Stdout, run, format)
			}
			return err
		}

		dir := c.String("dir")
		if dir == "" {
			dir = cfg.Catalog.ManifestDir
		}
		runs, err := ing.IngestDir(ctx, dir)
		if err != nil {
			return err
		}
		failed := 0
		for _, run := range runs {
			_ = clifmt.WriteRun(os.Stdout, run, format)
			if run.Status == models.RunStatusFailed {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d manifest(s) failed", failed)
		}
		return nil
	})
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the component catalog",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "provider", Usage: "filter by provider namespace"},
			&cli.StringFlag{Name: "category", Usage: "filter by component category"},
			&cli.StringFlag{Name: "mode", Value: models.ModeLexical, Usage: "ranking mode: lexical or vector"},
			&cli.IntFlag{Name: "limit", Usage: "number of results (defaults to search.default_limit)"},
			&cli.IntFlag{Name: "offset", Usage: "pagination offset"},
			&cli.BoolFlag{Name: "json", Usage: "print the raw result envelope"},
		},
		Action: runSearch,
	}
}

func runSearch(c *cli.Context) error {
	// Positional args are joined so multi-word queries work with or without
	// shell quoting.
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return cli.Exit("usage: uidex search [flags] <query>", 1)
	}

	return withComponents(c, func(ctx context.Context, cfg *config.Config, comps *components) error {
		req := &models.SearchRequest{
			Query:         query,
			Namespace:     c.String("provider"),
			ComponentType: c.String("category"),
			Mode:          c.String("mode"),
			Limit:         c.Int("limit"),
			Offset:        c.Int("offset"),
		}
		if req.Limit <= 0 {
			req.Limit = cfg.Search.DefaultLimit
		}
		if req.Limit > cfg.Search.MaxLimit {
			req.Limit = cfg.Search.MaxLimit
		}
		if err := req.Validate(); err != nil {
			return err
		}

		env, err := comps.service.Search(ctx, req)
		if err != nil {
			return err
		}
		return clifmt.WriteEnvelope(os.Stdout, env, formatFlag(c))
	})
}

func suggestCommand() *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Autocomplete component names and titles",
		ArgsUsage: "<prefix>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "number of suggestions (defaults to search.suggest_limit)"},
			&cli.BoolFlag{Name: "json", Usage: "print suggestions as JSON"},
		},
		Action: runSuggest,
	}
}

func runSuggest(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: uidex suggest [flags] <prefix>", 1)
	}
	prefix := c.Args().First()

	return withComponents(c, func(ctx context.Context, cfg *config.Config, comps *components) error {
		limit := c.Int("limit")
		if limit <= 0 {
			limit = cfg.Search.SuggestLimit
		}
		suggestions, err := comps.service.Suggest(ctx, prefix, limit)
		if err != nil {
			return err
		}
		return clifmt.WriteSuggestions(os.Stdout, suggestions, formatFlag(c))
	})
}

func popularCommand() *cli.Command {
	return &cli.Command{
		Name:  "popular",
		Usage: "List recently added components",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "provider", Usage: "filter by provider namespace"},
			&cli.IntFlag{Name: "limit", Usage: "number of components (defaults to search.popular_limit)"},
			&cli.BoolFlag{Name: "json", Usage: "print components as JSON"},
		},
		Action: runPopular,
	}
}

func runPopular(c *cli.Context) error {
	return withComponents(c, func(ctx context.Context, cfg *config.Config, comps *components) error {
		limit := c.Int("limit")
		if limit <= 0 {
			limit = cfg.Search.PopularLimit
		}
		items, err := comps.service.Popular(ctx, c.String("provider"), limit)
		if err != nil {
			return err
		}
		return clifmt.WriteComponents(os.Stdout, items, formatFlag(c))
	})
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one component in full",
		ArgsUsage: "<namespace>/<name>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the component as JSON"},
		},
		Action: runShow,
	}
}

func runShow(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: uidex show <namespace>/<name>", 1)
	}
	namespace, name, err := parseComponentID(c.Args().First())
	if err != nil {
		return err
	}

	return withComponents(c, func(ctx context.Context, cfg *config.Config, comps *components) error {
		component, err := comps.store.GetComponent(ctx, namespace, name)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return cli.Exit(fmt.Sprintf("component not found: %s/%s", namespace, name), 1)
			}
			return err
		}
		return clifmt.WriteComponent(os.Stdout, component, formatFlag(c))
	})
}

func warmCommand() *cli.Command {
	return &cli.Command{
		Name:  "warm",
		Usage: "Precompute embeddings for the active catalog",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "concurrency", Usage: "number of concurrent embedding workers", Value: 4},
		},
		Action: runWarm,
	}
}

func runWarm(c *cli.Context) error {
	return withComponents(c, func(ctx context.Context, cfg *config.Config, comps *components) error {
		warmer := ingest.NewWarmer(comps.store, comps.embedder, comps.log)
		warmed, failed, err := warmer.Warm(ctx, c.Int("concurrency"))
		if err != nil {
			return err
		}
		fmt.Printf("Warmed %d embedding(s), %d failed\n", warmed, failed)
		return nil
	})
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the MCP bridge over stdio",
		Action: func(c *cli.Context) error {
			return withComponents(c, func(ctx context.Context, cfg *config.Config, comps *components) error {
				bridge := mcp.NewBridge(comps.service, comps.store, comps.log, version.Version)
				return bridge.RunStdio(ctx, os.Stdin, os.Stdout)
			})
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show catalog and configuration status",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print status as JSON"},
		},
		Action: runStatus,
	}
}

func runStatus(c *cli.Context) error {
	return withComponents(c, func(ctx context.Context, cfg *config.Config, comps *components) error {
		count, err := comps.store.CountComponents(ctx)
		if err != nil {
			return err
		}

		if c.Bool("json") {
			status := make(map[string]any)
			status["components"] = count
			status["vector_search_available"] = comps.service.VectorAvailable()
			status["database_path"] = cfg.Storage.DatabasePath
			status["embedding_provider"] = cfg.Embedding.Provider
			if comps.cache != nil {
				status["embedding_cache_entries"] = comps.cache.CacheLen()
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		}

		fmt.Printf("components:              %d\n", count)
		fmt.Printf("vector_search_available: %t\n", comps.service.VectorAvailable())
		fmt.Printf("database_path:           %s\n", cfg.Storage.DatabasePath)
		if cfg.Embedding.Provider != "" {
			fmt.Printf("embedding_provider:      %s\n", cfg.Embedding.Provider)
			fmt.Printf("embedding_model:         %s\n", cfg.Embedding.Model)
		}
		if comps.cache != nil {
			fmt.Printf("embedding_cache_entries: %d\n", comps.cache.CacheLen())
		}
		return nil
	})
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			fmt.Printf("uidex %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
			return nil
		},
	}
}
