package persistence

import (
	"context"
	"sync"
)

// MemoryBackend keeps buckets in process memory. Nothing survives the
// process; it backs tests and throwaway sessions.
type MemoryBackend struct {
	mu      sync.RWMutex
	buckets map[string][]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{buckets: make(map[string][]string)}
}

func (b *MemoryBackend) Load(_ context.Context, bucket string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.buckets[bucket]...), nil
}

func (b *MemoryBackend) Save(_ context.Context, bucket string, lines []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buckets[bucket] = append([]string(nil), lines...)
	return nil
}

func (b *MemoryBackend) Close() error { return nil }
