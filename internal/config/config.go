// Package config resolves payee settings from viper: flags, PAYEE_
// environment variables and the YAML config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/payee-classifier/internal/common"
	"github.com/Veraticus/payee-classifier/internal/llm"
	"github.com/Veraticus/payee-classifier/internal/storage"
)

// EnvPrefix is the prefix of environment variables read by viper.
const EnvPrefix = "PAYEE"

// Config is the resolved application configuration.
type Config struct {
	Database storage.Config
	Logging  LoggingConfig
	Server   ServerConfig
	LLM      llm.Config
	Keywords KeywordsConfig
	Batch    BatchConfig
	Offline  bool
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// BatchConfig tunes batch classification.
type BatchConfig struct {
	Concurrency int
}

// KeywordsConfig controls the custom keyword cache.
type KeywordsConfig struct {
	CacheTTL time.Duration
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr    string
	APIKey  string
	CertDir string
	// TLSHosts are the names and addresses the self-signed certificate covers.
	TLSHosts []string
	TLS      bool
}

// ExpandPath resolves a leading ~ to the home directory and expands $VARS.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}

// DefaultDatabasePath is where the SQLite database lives unless configured.
func DefaultDatabasePath() string {
	return ExpandPath("~/.local/share/payee/payee.db")
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("database.driver", storage.DriverSQLite)
	v.SetDefault("database.path", DefaultDatabasePath())

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.max_tokens", 300)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay", "1s")
	v.SetDefault("llm.cache_ttl", "15m")
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.consensus_calls", 0)
	v.SetDefault("llm.offline", false)

	v.SetDefault("batch.concurrency", 1)
	v.SetDefault("keywords.cache_ttl", "5m")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.tls", false)
	v.SetDefault("server.cert_dir", "~/.config/payee/certs")
}

// Load resolves the configuration from v, which should already have its
// config file read and environment bound.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Database: storage.Config{
			Driver: v.GetString("database.driver"),
			Path:   ExpandPath(v.GetString("database.path")),
			DSN:    v.GetString("database.dsn"),
		},
		LLM: llm.Config{
			Provider:       strings.ToLower(v.GetString("llm.provider")),
			Model:          v.GetString("llm.model"),
			BaseURL:        v.GetString("llm.base_url"),
			Temperature:    v.GetFloat64("llm.temperature"),
			MaxTokens:      v.GetInt("llm.max_tokens"),
			MaxRetries:     v.GetInt("llm.max_retries"),
			RetryDelay:     v.GetDuration("llm.retry_delay"),
			CacheTTL:       v.GetDuration("llm.cache_ttl"),
			RateLimit:      v.GetInt("llm.rate_limit"),
			Timeout:        v.GetDuration("llm.timeout"),
			ConsensusCalls: v.GetInt("llm.consensus_calls"),
		},
		Offline: v.GetBool("llm.offline"),
		Batch: BatchConfig{
			Concurrency: v.GetInt("batch.concurrency"),
		},
		Keywords: KeywordsConfig{
			CacheTTL: v.GetDuration("keywords.cache_ttl"),
		},
		Server: ServerConfig{
			Addr:     v.GetString("server.addr"),
			APIKey:   v.GetString("server.api_key"),
			TLS:      v.GetBool("server.tls"),
			TLSHosts: v.GetStringSlice("server.tls_hosts"),
			CertDir:  ExpandPath(v.GetString("server.cert_dir")),
		},
	}

	cfg.LLM.APIKey = apiKey(v, cfg.LLM.Provider)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apiKey prefers the configured key and falls back to the provider's
// conventional environment variable.
func apiKey(v *viper.Viper, provider string) string {
	switch provider {
	case "anthropic":
		if key := v.GetString("llm.anthropic_api_key"); key != "" {
			return key
		}
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		if key := v.GetString("llm.openai_api_key"); key != "" {
			return key
		}
		return os.Getenv("OPENAI_API_KEY")
	}
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}

	switch c.Logging.Format {
	case "console", "text", "json":
	default:
		return fmt.Errorf("%w: invalid log format %q", common.ErrInvalidConfig, c.Logging.Format)
	}

	switch c.Database.Driver {
	case storage.DriverSQLite, "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for sqlite", common.ErrMissingConfig)
		}
	case storage.DriverPostgres, "postgresql":
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: database.dsn is required for postgres", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unsupported database driver %q", common.ErrInvalidConfig, c.Database.Driver)
	}

	switch c.LLM.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("%w: unsupported llm provider %q", common.ErrInvalidConfig, c.LLM.Provider)
	}

	if c.LLM.ConsensusCalls == 1 || c.LLM.ConsensusCalls < 0 {
		return fmt.Errorf("%w: llm.consensus_calls must be 0 or at least %d", common.ErrInvalidConfig, llm.MinConsensusCalls)
	}

	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("%w: batch.concurrency must be at least 1", common.ErrInvalidConfig)
	}

	return nil
}

// AIEnabled reports whether AI classification can be used.
func (c *Config) AIEnabled() bool {
	return !c.Offline && c.LLM.APIKey != ""
}

// Dir returns the directory holding config.yaml.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "payee"), nil
}
