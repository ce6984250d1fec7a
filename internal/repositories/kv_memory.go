package repositories

import (
	"context"
	"sync"
)

// MemoryBackend keeps state for the life of the process only.
type MemoryBackend struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) Load(ctx context.Context) (map[string][]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string][]byte, len(b.data))
	for k, v := range b.data {
		out[k] = append([]byte(nil), v...)
	}
	return out, nil
}

func (b *MemoryBackend) Save(ctx context.Context, puts map[string][]byte, deletes []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range puts {
		b.data[k] = append([]byte(nil), v...)
	}
	for _, k := range deletes {
		delete(b.data, k)
	}
	return nil
}

func (b *MemoryBackend) Ping(ctx context.Context) error { return nil }

func (b *MemoryBackend) Close() error { return nil }
