// Package cache provides the response stores used by the ListOnce client:
// an in-process LRU, Redis and SQLite.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Backends accepted by Open.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Store is a closable response cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	MemoryEntries int
	SQLitePath    string
	Redis         RedisOptions
}

// Open builds the store named by opts.Backend. It returns a nil Store for
// BackendNone and the empty backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		return NewMemory(opts.MemoryEntries), nil
	case BackendRedis:
		r, err := NewRedis(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return r, nil
	case BackendSQLite:
		s, err := NewSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// hashKey keeps request URLs, which carry the API key, out of shared stores.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
