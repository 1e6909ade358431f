package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultStateTTL bounds how long an OAuth round trip may take.
const DefaultStateTTL = 10 * time.Minute

// StateStore remembers issued OAuth state values until the callback consumes them.
type StateStore interface {
	Save(ctx context.Context, state, provider string, ttl time.Duration) error
	// Consume returns the provider the state was issued for and deletes it.
	// ok is false for unknown or expired states.
	Consume(ctx context.Context, state string) (provider string, ok bool, err error)
}

// NewState returns a fresh unguessable state value.
func NewState() string {
	return uuid.NewString()
}

type memoryState struct {
	provider string
	expires  time.Time
}

// MemoryStateStore is a process-local StateStore used when Redis is not configured.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]memoryState
	now    func() time.Time
}

// NewMemoryStateStore returns an empty in-memory store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]memoryState), now: time.Now}
}

func (m *MemoryStateStore) Save(_ context.Context, state, provider string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, v := range m.states {
		if !v.expires.After(now) {
			delete(m.states, k)
		}
	}
	m.states[state] = memoryState{provider: provider, expires: now.Add(ttl)}
	return nil
}

func (m *MemoryStateStore) Consume(_ context.Context, state string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.states[state]
	if !ok {
		return "", false, nil
	}
	delete(m.states, state)
	if !s.expires.After(m.now()) {
		return "", false, nil
	}
	return s.provider, true, nil
}
