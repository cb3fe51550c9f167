package revocation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/models"
)

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("abc")
	assert.Len(t, fp, 64)
	assert.Equal(t, fp, Fingerprint("abc"))
	assert.NotEqual(t, fp, Fingerprint("abd"))
}

func TestGormStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	gdb := db.NewTestDB(t)
	s := &GormStore{DB: gdb, Now: func() time.Time { return now }}

	revoked, err := s.IsRevoked(ctx, "fp1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "fp1", now.Add(time.Hour)))
	require.NoError(t, s.Revoke(ctx, "fp1", now.Add(48*time.Hour)))

	var rows []models.RevokedAuthToken
	require.NoError(t, gdb.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].ExpiresAt.Equal(now.Add(time.Hour)))

	revoked, err = s.IsRevoked(ctx, "fp1")
	require.NoError(t, err)
	require.True(t, revoked)

	require.NoError(t, s.Revoke(ctx, "fp-old", now.Add(-time.Minute)))
	revoked, err = s.IsRevoked(ctx, "fp-old")
	require.NoError(t, err)
	require.False(t, revoked, "expired entries do not count")

	n, err := s.Purge(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var left int64
	require.NoError(t, gdb.Model(&models.RevokedAuthToken{}).Count(&left).Error)
	assert.EqualValues(t, 1, left)
}

func TestGormStore_ConcurrentRevokeOfOneToken(t *testing.T) {
	ctx := context.Background()
	gdb := db.NewTestDB(t)
	s := NewGormStore(gdb)
	exp := time.Now().UTC().Add(time.Hour)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Revoke(ctx, "same-token", exp)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	var n int64
	require.NoError(t, gdb.Model(&models.RevokedAuthToken{}).Where("fingerprint = ?", "same-token").Count(&n).Error)
	assert.EqualValues(t, 1, n)

	// A row the lookup would have missed still must not turn a repeat insert into an error.
	require.NoError(t, gdb.Create(&models.RevokedAuthToken{Fingerprint: "direct", ExpiresAt: exp}).Error)
	require.NoError(t, s.Revoke(ctx, "direct", exp.Add(time.Hour)))
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	now := time.Now().UTC()
	s := NewRedisStore(client)
	s.Now = func() time.Time { return now }

	require.NoError(t, s.Revoke(ctx, "fp1", now.Add(time.Hour)))
	require.NoError(t, s.Revoke(ctx, "fp1", now.Add(48*time.Hour)))

	revoked, err := s.IsRevoked(ctx, "fp1")
	require.NoError(t, err)
	require.True(t, revoked)
	assert.LessOrEqual(t, mr.TTL(defaultPrefix+"fp1"), time.Hour)

	require.NoError(t, s.Revoke(ctx, "fp-old", now.Add(-time.Second)))
	assert.False(t, mr.Exists(defaultPrefix+"fp-old"))

	mr.FastForward(time.Hour + time.Second)
	revoked, err = s.IsRevoked(ctx, "fp1")
	require.NoError(t, err)
	require.False(t, revoked)

	n, err := s.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStoresSatisfyInterface(t *testing.T) {
	var _ Store = (*GormStore)(nil)
	var _ Store = (*RedisStore)(nil)
}
