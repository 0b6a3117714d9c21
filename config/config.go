package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. LISTONCE_LISTONCE_API_KEY.
const EnvPrefix = "LISTONCE"

// placeholderAPIKey is the value shipped in the example config.
const placeholderAPIKey = "your-api-key-here"

// Load loads the configuration from file and the environment. A missing
// config file is only an error when configPath names one explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the API key is usually supplied on its own
	_ = v.BindEnv("listonce.api_key", EnvPrefix+"_API_KEY", EnvPrefix+"_LISTONCE_API_KEY")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".listonce"))
		}

		// Check /etc
		v.AddConfigPath("/etc/listonce/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && configPath == "":
			// environment only
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("config file not found: %w", err)
		default:
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key needs a default
// for AutomaticEnv to reach it through Unmarshal.
func setDefaults(v *viper.Viper) {
	// ListOnce defaults
	v.SetDefault("listonce.api_key", "")
	v.SetDefault("listonce.base_url", "http://www.listonce.com.au")
	v.SetDefault("listonce.timeout", "30s")
	v.SetDefault("listonce.max_retries", 0)
	v.SetDefault("listonce.rate_limit", 0)
	v.SetDefault("listonce.burst", 1)
	v.SetDefault("listonce.user_agent", "listonce-go")

	// Cache defaults
	v.SetDefault("cache.backend", "none")
	v.SetDefault("cache.memory_entries", 512)
	v.SetDefault("cache.sqlite_path", "")
	v.SetDefault("cache.redis.addr", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.prefix", "listonce:")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("output.format", "console")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.ListOnce.APIKey == "" || cfg.ListOnce.APIKey == placeholderAPIKey {
		return fmt.Errorf("listonce.api_key must be set to a valid API key")
	}

	if cfg.ListOnce.BaseURL == "" {
		return fmt.Errorf("listonce.base_url is required")
	}

	if cfg.ListOnce.Timeout < 0 {
		return fmt.Errorf("listonce.timeout must not be negative")
	}

	if cfg.ListOnce.MaxRetries < 0 {
		return fmt.Errorf("listonce.max_retries must not be negative")
	}

	if cfg.ListOnce.RateLimit < 0 {
		return fmt.Errorf("listonce.rate_limit must not be negative")
	}

	switch strings.ToLower(cfg.Cache.Backend) {
	case "", "none", "memory":
	case "sqlite":
		if cfg.Cache.SQLitePath == "" {
			return fmt.Errorf("cache.sqlite_path is required for the sqlite backend")
		}
	case "redis":
		if cfg.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid cache.backend: %s (must be none, memory, redis or sqlite)", cfg.Cache.Backend)
	}

	for name, expression := range cfg.Filters {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filters.%s has an empty expression", name)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	if !validFormats[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s", cfg.Output.Format)
	}

	return nil
}
