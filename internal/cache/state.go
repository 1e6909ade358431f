package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore keeps OAuth state values in Redis so any instance can finish a login.
type StateStore struct {
	client *redis.Client
}

// NewStateStore returns a Redis backed store.
func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

func (s *StateStore) Save(ctx context.Context, state, provider string, ttl time.Duration) error {
	return s.client.Set(ctx, OAuthStateKey(state), provider, ttl).Err()
}

// Consume reads and deletes state atomically.
func (s *StateStore) Consume(ctx context.Context, state string) (string, bool, error) {
	provider, err := s.client.GetDel(ctx, OAuthStateKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return provider, true, nil
}
