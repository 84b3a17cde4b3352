package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molsdg/internal/config"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/layout"
)

func newMiniredisClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(config.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewClient_Success(t *testing.T) {
	client, _ := newMiniredisClient(t)
	assert.NoError(t, client.GetUnderlyingClient().Ping(context.Background()).Err())
}

func TestNewClient_ConnectionFailed(t *testing.T) {
	client, err := NewClient(config.RedisConfig{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
	}, logging.NewNopLogger())
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeServiceUnavailable))
}

func TestClient_Close(t *testing.T) {
	client, _ := newMiniredisClient(t)

	assert.NoError(t, client.Close())
	assert.NoError(t, client.Close())

	err := client.Get(context.Background(), "foo").Err()
	assert.Equal(t, ErrClientClosed, err)
	assert.Equal(t, ErrClientClosed, client.Ping(context.Background()))
}

func TestLayoutCache_Miniredis(t *testing.T) {
	client, mr := newMiniredisClient(t)
	cache := NewLayoutCache(client, logging.NewNopLogger(), WithPrefix("it:"), WithDefaultTTL(time.Minute))
	ctx := context.Background()

	compute := func(context.Context) (*layout.Result, error) {
		return &layout.Result{SMILES: "c1ccccc1"}, nil
	}
	_, hit, err := cache.GetOrCompute(ctx, "layout:a", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, mr.Exists("it:layout:a"))

	got, hit, err := cache.GetOrCompute(ctx, "layout:a", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "c1ccccc1", got.SMILES)

	require.NoError(t, cache.Set(ctx, "layout:b", &layout.Result{SMILES: "CC"}))
	require.NoError(t, cache.Set(ctx, "other", &layout.Result{SMILES: "O"}))

	n, err := cache.DeleteByPrefix(ctx, "layout:")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.True(t, mr.Exists("it:other"))

	mr.FastForward(2 * time.Minute)
	_, err = cache.Get(ctx, "other")
	assert.Equal(t, ErrCacheMiss, err)
	assert.NoError(t, cache.Ping(ctx))
}

//Personal.AI order the ending
