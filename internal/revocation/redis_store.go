package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "revoked:"

// RedisStore keeps one key per fingerprint with a TTL that ends at the token's expiry.
type RedisStore struct {
	Client *redis.Client
	Prefix string
	Now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client, Prefix: defaultPrefix, Now: utcNow}
}

func (s *RedisStore) key(fingerprint string) string {
	return s.Prefix + fingerprint
}

func (s *RedisStore) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	n, err := s.Client.Exists(ctx, s.key(fingerprint)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) Revoke(ctx context.Context, fingerprint string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.Now())
	if ttl <= 0 {
		return nil
	}
	return s.Client.SetNX(ctx, s.key(fingerprint), expiresAt.UTC().Unix(), ttl).Err()
}

// Purge is a no-op: redis expires keys on its own.
func (s *RedisStore) Purge(context.Context) (int64, error) {
	return 0, nil
}
