package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore is the token denylist backing logout. Tokens are stateless,
// so revocation is the one place a validation touches shared state: a key per
// revoked jti, expiring when the token itself would have expired.
// Key format: auth:revoked:<jti>
type RevocationStore struct {
	client *redis.Client
}

// NewRevocationStore creates a RevocationStore wrapping the given Redis client.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

// Revoke denylists a token id for ttl. After ttl the token is expired anyway
// and the entry is dropped by Redis.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id has been denylisted.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (s *RevocationStore) key(jti string) string {
	return "auth:revoked:" + jti
}
