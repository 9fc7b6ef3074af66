package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyStore_CheckAndSetReturnsCachedResponse(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, store.prefix+"k1", `{"posting_id":"p1"}`, time.Minute).Err())

	exists, resp, err := store.CheckAndSet(ctx, "k1", nil, time.Minute)
	require.NoError(t, err)

	assert.True(t, exists)
	assert.Equal(t, `{"posting_id":"p1"}`, string(resp))
}

func TestIdempotencyStore_CheckAndSetClaimsNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "k2", nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, resp)

	val, err := client.Get(ctx, store.prefix+"k2").Result()
	require.NoError(t, err)
	assert.Equal(t, "processing", val, "fresh key must be claimed with a placeholder")
}

func TestIdempotencyStore_SecondClaimSeesPlaceholder(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	_, _, err := store.CheckAndSet(ctx, "k3", nil, time.Minute)
	require.NoError(t, err)

	exists, resp, err := store.CheckAndSet(ctx, "k3", nil, time.Minute)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "processing", string(resp))
}

func TestIdempotencyStore_Update(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "k4", []byte(`{"replayed":true}`), time.Minute))

	val, err := client.Get(ctx, store.prefix+"k4").Result()
	require.NoError(t, err)
	assert.Equal(t, `{"replayed":true}`, val)
}
