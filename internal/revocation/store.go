package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store is a denylist of token fingerprints. Entries stop counting once expired.
type Store interface {
	IsRevoked(ctx context.Context, fingerprint string) (bool, error)
	// Revoke is idempotent. A second call for the same fingerprint keeps the first expiry.
	Revoke(ctx context.Context, fingerprint string, expiresAt time.Time) error
	// Purge drops expired entries and reports how many were removed.
	Purge(ctx context.Context) (int64, error)
}

// Fingerprint is the sha256 hex of the raw token, so raw tokens are never stored.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func utcNow() time.Time { return time.Now().UTC() }
