package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ListOnce: ListOnceConfig{
			APIKey:  "valid-api-key",
			BaseURL: "http://www.listonce.com.au",
		},
		Cache:   CacheConfig{Backend: "none"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Output:  OutputConfig{Format: "console"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		errContains string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "missing api key", modify: func(c *Config) { c.ListOnce.APIKey = "" }, errContains: "api_key"},
		{name: "placeholder api key", modify: func(c *Config) { c.ListOnce.APIKey = "your-api-key-here" }, errContains: "api_key"},
		{name: "missing base url", modify: func(c *Config) { c.ListOnce.BaseURL = "" }, errContains: "base_url"},
		{name: "negative retries", modify: func(c *Config) { c.ListOnce.MaxRetries = -1 }, errContains: "max_retries"},
		{name: "negative rate", modify: func(c *Config) { c.ListOnce.RateLimit = -2 }, errContains: "rate_limit"},
		{name: "memory cache", modify: func(c *Config) { c.Cache.Backend = "memory" }},
		{name: "sqlite without path", modify: func(c *Config) { c.Cache.Backend = "sqlite" }, errContains: "sqlite_path"},
		{name: "sqlite with path", modify: func(c *Config) {
			c.Cache.Backend = "sqlite"
			c.Cache.SQLitePath = "/tmp/listonce.db"
		}},
		{name: "redis without addr", modify: func(c *Config) { c.Cache.Backend = "redis" }, errContains: "cache.redis.addr"},
		{name: "unknown cache", modify: func(c *Config) { c.Cache.Backend = "memcached" }, errContains: "cache.backend"},
		{name: "empty filter", modify: func(c *Config) { c.Filters = FilterConfig{"cheap": " "} }, errContains: "filters.cheap"},
		{name: "bad level", modify: func(c *Config) { c.Logging.Level = "loud" }, errContains: "logging level"},
		{name: "bad format", modify: func(c *Config) { c.Logging.Format = "xml" }, errContains: "logging format"},
		{name: "bad output", modify: func(c *Config) { c.Output.Format = "csv" }, errContains: "output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := validate(cfg)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
listonce:
  api_key: file-key
  timeout: 5s
  rate_limit: 2.5
cache:
  backend: memory
  memory_entries: 64
filters:
  cheap: num(price) < 500000
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.ListOnce.APIKey)
	assert.Equal(t, "http://www.listonce.com.au", cfg.ListOnce.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.ListOnce.Timeout)
	assert.Equal(t, 2.5, cfg.ListOnce.RateLimit)
	assert.Equal(t, 1, cfg.ListOnce.Burst)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 64, cfg.Cache.MemoryEntries)
	assert.Equal(t, "listonce:", cfg.Cache.Redis.Prefix)
	assert.Equal(t, "num(price) < 500000", cfg.Filters["cheap"])
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Output.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "listonce:\n  api_key: file-key\n")
	t.Setenv("LISTONCE_API_KEY", "env-key")
	t.Setenv("LISTONCE_CACHE_BACKEND", "sqlite")
	t.Setenv("LISTONCE_CACHE_SQLITE_PATH", "/tmp/cache.db")
	t.Setenv("LISTONCE_LOGGING_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.ListOnce.APIKey)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, "/tmp/cache.db", cfg.Cache.SQLitePath)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, "listonce:\n  api_key: k\ncache:\n  backend: tape\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
