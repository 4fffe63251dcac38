package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, time.Hour), mr
}

func TestStore_BeginClaimsOnce(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	ok, err := store.Begin(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Begin(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Keys are scoped per owner
	ok, err = store.Begin(ctx, "u2", "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, time.Hour, mr.TTL("idempotency:u1:k1"))

	rec, err := store.Get(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.Equal(t, StatePending, rec.State)
}

func TestStore_CompleteAndGet(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Begin(ctx, "u1", "k1")
	require.NoError(t, err)
	require.NoError(t, store.Complete(ctx, "u1", "k1", Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"id":"o1"}`),
	}))

	rec, err := store.Get(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, rec.State)
	assert.Equal(t, 201, rec.StatusCode)
	assert.JSONEq(t, `{"id":"o1"}`, string(rec.Body))
}

func TestStore_Release(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Begin(ctx, "u1", "k1")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "u1", "k1"))

	_, err = store.Get(ctx, "u1", "k1")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	ok, err := store.Begin(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_KeysExpire(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Begin(ctx, "u1", "k1")
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)

	_, err = store.Get(ctx, "u1", "k1")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
