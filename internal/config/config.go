// Package config provides configuration loading and structs for the uidex server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Env       string          `yaml:"env"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Search    SearchConfig    `yaml:"search"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// CatalogConfig holds catalog manifest ingestion settings.
type CatalogConfig struct {
	ManifestDir string `yaml:"manifest_dir"`
	Watch       bool   `yaml:"watch"`
}

// SearchConfig holds result-limit settings applied at the transport boundary.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
	SuggestLimit int `yaml:"suggest_limit"`
	PopularLimit int `yaml:"popular_limit"`
}

// EmbeddingConfig holds embedding backend settings. An empty provider
// disables vector search.
type EmbeddingConfig struct {
	Provider   string      `yaml:"provider"` // "", "openai", "mock"
	BaseURL    string      `yaml:"base_url"`
	APIKey     string      `yaml:"api_key"`
	Model      string      `yaml:"model"`
	Dimensions int         `yaml:"dimensions"`
	Cache      CacheConfig `yaml:"cache"`
}

// CacheConfig holds embedding cache settings. RedisAddr is optional; when set
// a Redis tier backs the in-process LRU.
type CacheConfig struct {
	Size      int    `yaml:"size"`
	RedisAddr string `yaml:"redis_addr"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// EnabledOrDefault returns whether metrics are enabled; defaults to true when unset.
func (m *MetricsConfig) EnabledOrDefault() bool {
	if m.Enabled != nil {
		return *m.Enabled
	}
	return true
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// VectorEnabled reports whether an embedding backend is configured.
func (c *Config) VectorEnabled() bool {
	return c.Embedding.Provider != ""
}

// Load reads and parses the config file at path, expands ${VAR} references
// and relative paths, applies defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Catalog.ManifestDir = expandPath(cfg.Catalog.ManifestDir, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Embedding.Provider {
	case "", "mock":
	case "openai":
		if c.Embedding.BaseURL == "" {
			return fmt.Errorf("embedding.base_url is required for the openai provider")
		}
		if c.Embedding.Model == "" {
			return fmt.Errorf("embedding.model is required for the openai provider")
		}
	default:
		return fmt.Errorf("unknown embedding provider: %q", c.Embedding.Provider)
	}
	if c.Embedding.Cache.Size <= 0 {
		return fmt.Errorf("embedding.cache.size must be positive: %d", c.Embedding.Cache.Size)
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("search.max_limit (%d) below search.default_limit (%d)", c.Search.MaxLimit, c.Search.DefaultLimit)
	}
	return nil
}

// envVarRe matches ${VAR} and ${VAR:-default} references.
var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars substitutes ${VAR} references in raw config bytes with values
// from the environment. ${VAR:-default} falls back to default when VAR is
// unset or empty.
func expandEnvVars(data []byte) []byte {
	return envVarRe.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, def, hasDef := strings.Cut(expr, ":-")
		if v := os.Getenv(name); v != "" {
			return []byte(v)
		}
		if hasDef {
			return []byte(def)
		}
		return []byte("")
	})
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
