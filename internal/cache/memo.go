package cache

import (
	"context"
	"sync"
)

// Memo holds one lazily computed value until it is invalidated.
type Memo[T any] struct {
	mu     sync.Mutex
	load   func(ctx context.Context) (T, error)
	value  T
	loaded bool
}

// NewMemo returns a Memo computing its value with load.
func NewMemo[T any](load func(ctx context.Context) (T, error)) *Memo[T] {
	return &Memo[T]{load: load}
}

// Get returns the cached value, loading it on first use or after Invalidate.
// Failed loads are not cached.
func (m *Memo[T]) Get(ctx context.Context) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return m.value, nil
	}
	v, err := m.load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	m.value, m.loaded = v, true
	return v, nil
}

// Invalidate drops the cached value.
func (m *Memo[T]) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	m.value, m.loaded = zero, false
}
