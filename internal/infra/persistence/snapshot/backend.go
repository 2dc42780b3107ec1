package snapshot

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Buckets holds the encoded payload of each named bucket.
type Buckets map[string][]byte

func (b Buckets) clone() Buckets {
	out := make(Buckets, len(b))
	for k, v := range b {
		out[k] = slices.Clone(v)
	}
	return out
}

// Backend makes snapshot contents durable. Load returns an empty (or nil)
// Buckets for a store that was never saved. Save replaces every bucket it is
// given in one step.
type Backend interface {
	Name() string
	Load(ctx context.Context) (Buckets, error)
	Save(ctx context.Context, buckets Buckets) error
	Close() error
}

// MemoryBackend keeps saved buckets in process memory only.
type MemoryBackend struct {
	mu      sync.Mutex
	buckets Buckets
	saves   int
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend { return &MemoryBackend{buckets: Buckets{}} }

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Load(context.Context) (Buckets, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buckets.clone(), nil
}

func (m *MemoryBackend) Save(_ context.Context, buckets Buckets) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	maps.Copy(m.buckets, buckets.clone())
	m.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (m *MemoryBackend) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryBackend) Close() error { return nil }
