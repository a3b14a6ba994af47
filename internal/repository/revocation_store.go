package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore is the durable blocklist of revoked token ids. Entries
// self-expire; the store is never enumerated or cleaned up explicitly.
type RevocationStore interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

const revocationKeyPrefix = "revoked:"

type revocationStore struct {
	client *redis.Client
}

// NewRevocationStore returns a Redis-backed blocklist. Only the token id is
// stored, never the token itself.
func NewRevocationStore(client *redis.Client) RevocationStore {
	return &revocationStore{client: client}
}

func (s *revocationStore) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, revocationKeyPrefix+tokenID, "", ttl).Err()
}

func (s *revocationStore) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revocationKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
