package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "local"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./data/uidex.db"
	}
	if cfg.Catalog.ManifestDir == "" {
		cfg.Catalog.ManifestDir = "./catalog"
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 20
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.SuggestLimit == 0 {
		cfg.Search.SuggestLimit = 5
	}
	if cfg.Search.PopularLimit == 0 {
		cfg.Search.PopularLimit = 10
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Cache.Size == 0 {
		cfg.Embedding.Cache.Size = 4096
	}
}
