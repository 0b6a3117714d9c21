package cache

import (
	"bytes"
	"context"
)

// DefaultMemoryEntries bounds a Memory cache created with a non-positive size.
const DefaultMemoryEntries = 512

// Memory keeps response bodies in process memory.
type Memory struct {
	lru *LRU[[]byte]
}

// NewMemory returns a Memory cache holding at most entries bodies.
func NewMemory(entries int) *Memory {
	if entries <= 0 {
		entries = DefaultMemoryEntries
	}
	return &Memory{lru: NewLRU[[]byte](entries)}
}

// Get implements listonce.Cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

// Set implements listonce.Cache.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.lru.Put(key, bytes.Clone(value))
	return nil
}

// Len returns the number of cached bodies.
func (m *Memory) Len() int {
	return m.lru.Len()
}

// Close implements io.Closer.
func (m *Memory) Close() error {
	m.lru.Clear()
	return nil
}
