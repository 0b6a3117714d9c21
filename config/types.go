package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	ListOnce ListOnceConfig `mapstructure:"listonce"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Filters  FilterConfig   `mapstructure:"filters"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Output   OutputConfig   `mapstructure:"output"`
}

// ListOnceConfig holds API connection details
type ListOnceConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RateLimit  float64       `mapstructure:"rate_limit"`
	Burst      int           `mapstructure:"burst"`
	UserAgent  string        `mapstructure:"user_agent"`
}

// CacheConfig selects the response cache backend
type CacheConfig struct {
	Backend       string      `mapstructure:"backend"`
	MemoryEntries int         `mapstructure:"memory_entries"`
	SQLitePath    string      `mapstructure:"sqlite_path"`
	Redis         RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// FilterConfig contains named filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}
