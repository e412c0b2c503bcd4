package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := testRedisStore(t, time.Minute)
	ctx := context.Background()

	sess := New("s1", "COLLECT_EMAIL", time.Minute)
	sess.Data["name"] = "Jane Doe"
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.FindByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "COLLECT_EMAIL", got.Step)
	require.Equal(t, "Jane Doe", got.Data["name"])
}

func TestRedisStoreUnknownIDReturnsNil(t *testing.T) {
	store, _ := testRedisStore(t, time.Minute)

	got, err := store.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisStoreKeyExpiresWithTTL(t *testing.T) {
	store, mr := testRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, New("s1", "START", time.Minute)))
	require.Equal(t, time.Minute, mr.TTL(sessionKey("s1")))

	mr.FastForward(2 * time.Minute)

	got, err := store.FindByID(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisStoreLogicallyExpiredReturnsNil(t *testing.T) {
	store, _ := testRedisStore(t, time.Hour)
	ctx := context.Background()

	// The key is still present but the session clock has run out.
	sess := New("s1", "START", time.Hour)
	sess.ExpiresAt = time.Now().UTC().Add(-time.Second)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.FindByID(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisStoreSaveResetsTTL(t *testing.T) {
	store, mr := testRedisStore(t, time.Minute)
	ctx := context.Background()

	sess := New("s1", "START", time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	mr.FastForward(30 * time.Second)
	sess.Touch(time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	require.Equal(t, time.Minute, mr.TTL(sessionKey("s1")))
}
