package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const inFlightMarker = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "idempotency:",
	}
}

func (s *IdempotencyStore) key(key string) string {
	return s.prefix + key
}

// CheckAndSet claims the key for the caller. A nil response claims it
// with an in-flight marker; if someone already holds the key, the stored
// value is returned instead.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	k := s.key(key)

	if response != nil {
		existing, err := s.client.Get(ctx, k).Bytes()
		if err == nil {
			return true, existing, nil
		}
		if err != redis.Nil {
			return false, nil, err
		}
		if err := s.client.Set(ctx, k, response, ttl).Err(); err != nil {
			return false, nil, err
		}
		return false, nil, nil
	}

	set, err := s.client.SetNX(ctx, k, inFlightMarker, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	// Lost the race: surface whatever the winner stored.
	existing, err := s.client.Get(ctx, k).Bytes()
	if err != nil && err != redis.Nil {
		return false, nil, err
	}
	return true, existing, nil
}

// Update replaces the claimed key with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(key), response, ttl).Err()
}
