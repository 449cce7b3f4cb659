// Package config loads client settings from FINDBUDDY_* environment variables.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIURL   string        `env:"FINDBUDDY_API_URL,   default=http://localhost:8001/api"`
	Home     string        `env:"FINDBUDDY_HOME"`
	Timeout  time.Duration `env:"FINDBUDDY_TIMEOUT,   default=30s"`
	LogLevel string        `env:"FINDBUDDY_LOG_LEVEL, default=info"`
	LogFile  string        `env:"FINDBUDDY_LOG_FILE"`

	Storage StorageConfig
	Tracing TracingConfig
	Dev     DevConfig
}

type StorageConfig struct {
	Kind        string `env:"FINDBUDDY_STORAGE,      default=file"`
	Path        string `env:"FINDBUDDY_STORAGE_PATH"`
	RedisAddr   string `env:"FINDBUDDY_REDIS_ADDR,   default=localhost:6379"`
	RedisDB     int    `env:"FINDBUDDY_REDIS_DB,     default=0"`
	RedisPrefix string `env:"FINDBUDDY_REDIS_PREFIX, default=findbuddy:"`
}

type TracingConfig struct {
	Enabled        bool   `env:"FINDBUDDY_TRACING,         default=false"`
	JaegerEndpoint string `env:"FINDBUDDY_JAEGER_ENDPOINT, default=http://localhost:14268/api/traces"`
}

// DevConfig drives the `findbuddy dev-server` backend.
type DevConfig struct {
	Addr   string `env:"FINDBUDDY_DEV_ADDR,   default=:8001"`
	Secret string `env:"FINDBUDDY_DEV_SECRET, default=findbuddy-dev-secret"`
	Seed   bool   `env:"FINDBUDDY_DEV_SEED,   default=true"`
}

// Load reads the environment and fills in paths derived from Home.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config.Load: get home dir: %w", err)
		}
		cfg.Home = filepath.Join(home, ".findbuddy")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.Home, "findbuddy.log")
	}
	if cfg.Storage.Path == "" {
		switch cfg.Storage.Kind {
		case "sqlite":
			cfg.Storage.Path = filepath.Join(cfg.Home, "session.db")
		default:
			cfg.Storage.Path = filepath.Join(cfg.Home, "session.json")
		}
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	switch cfg.Storage.Kind {
	case "file", "sqlite", "redis", "memory":
	default:
		return nil, fmt.Errorf("config.Load: FINDBUDDY_STORAGE must be file, sqlite, redis or memory, got %q", cfg.Storage.Kind)
	}
	return &cfg, nil
}
