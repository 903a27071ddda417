package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/sirsim/pkg/adapters/redis"
	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/aretw0/sirsim/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	run := &domain.Run{ID: "run-ttl", Trace: domain.Trace{{Infected: 1}, {Recovered: 1}}}

	require.NoError(t, store.Save(ctx, run))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "run-ttl")

	// Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "run-ttl")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	// Index pruning is based on the wall clock, so wait past the TTL.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Run{ID: "my-run"}))

	assert.True(t, mr.Exists("custom:app:my-run"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	require.NoError(t, store.Delete(ctx, "my-run"))
	assert.False(t, mr.Exists("custom:app:my-run"))
}

func TestRedisStore_ConnectionError(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	mr.Close()

	err := store.Save(context.Background(), &domain.Run{ID: "x"})
	assert.Error(t, err)
	_, err = store.Load(context.Background(), "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRunNotFound)
}
