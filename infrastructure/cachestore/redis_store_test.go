package cachestore

import (
	"context"
	"testing"
	"time"

	pkgerrors "storeadmin/pkg/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func unreachableStore(t *testing.T, cfg BreakerConfig) *RedisStore {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewRedisStoreFromClient(client, "test:", cfg, zap.NewNop())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisStore_UnreachableIsCacheUnavailable(t *testing.T) {
	ctx := context.Background()
	store := unreachableStore(t, DefaultBreakerConfig())

	_, _, err := store.Get(ctx, "product-1")
	assert.True(t, pkgerrors.IsCacheUnavailable(err))

	err = store.Set(ctx, "product-1", []byte("{}"), time.Minute)
	assert.True(t, pkgerrors.IsCacheUnavailable(err))

	err = store.Delete(ctx, "product-1", "product-2")
	assert.True(t, pkgerrors.IsCacheUnavailable(err))

	_, err = store.Has(ctx, "product-1")
	assert.True(t, pkgerrors.IsCacheUnavailable(err))
}

func TestRedisStore_BreakerOpens(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultBreakerConfig()
	cfg.MinRequests = 3
	store := unreachableStore(t, cfg)

	for i := 0; i < 3; i++ {
		_, _, _ = store.Get(ctx, "k")
	}
	require.Equal(t, gobreaker.StateOpen, store.State())

	_, _, err := store.Get(ctx, "k")
	assert.True(t, pkgerrors.IsCacheUnavailable(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestRedisStore_DeleteNothingSkipsRoundTrip(t *testing.T) {
	store := unreachableStore(t, DefaultBreakerConfig())

	assert.NoError(t, store.Delete(context.Background()))
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisOptions{URL: "not-a-url"}, zap.NewNop())
	assert.Error(t, err)
}

func inProcessStore(t *testing.T, cfg BreakerConfig) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	store := NewRedisStoreFromClient(client, "test:", cfg, zap.NewNop())
	t.Cleanup(func() { store.Close() })
	return store, server
}

func TestRedisStore_MissIsNotAnError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cfg := DefaultBreakerConfig()
	cfg.MinRequests = 3
	store, _ := inProcessStore(t, cfg)

	// Act
	var (
		value []byte
		found bool
		err   error
	)
	for i := 0; i < 5; i++ {
		value, found, err = store.Get(ctx, "product-missing")
	}
	has, hasErr := store.Has(ctx, "product-missing")

	// Assert
	require.NoError(t, err)
	require.NoError(t, hasErr)
	assert.False(t, found)
	assert.Nil(t, value)
	assert.False(t, has)
	assert.Equal(t, gobreaker.StateClosed, store.State(), "misses do not count as failures")
}

func TestRedisStore_SetGetRoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store, _ := inProcessStore(t, DefaultBreakerConfig())

	// Act
	require.NoError(t, store.Set(ctx, "product-1", []byte(`{"id":"1"}`), time.Minute))
	value, found, err := store.Get(ctx, "product-1")

	// Assert
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"id":"1"}`, string(value))
}

func TestRedisStore_ZeroTTLNeverExpires(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store, server := inProcessStore(t, DefaultBreakerConfig())

	// Act
	require.NoError(t, store.Set(ctx, "categories", []byte(`["a"]`), 0))
	server.FastForward(365 * 24 * time.Hour)
	found, err := store.Has(ctx, "categories")

	// Assert
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, time.Duration(0), server.TTL("test:categories"), "no expiry is set on the key")
}

func TestRedisStore_TTLExpires(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store, server := inProcessStore(t, DefaultBreakerConfig())
	require.NoError(t, store.Set(ctx, "admin-dashboard", []byte("{}"), time.Minute))
	require.Equal(t, time.Minute, server.TTL("test:admin-dashboard"))

	// Act
	server.FastForward(time.Minute)
	_, found, err := store.Get(ctx, "admin-dashboard")

	// Assert
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_PrefixAppliedToEveryOperation(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store, server := inProcessStore(t, DefaultBreakerConfig())
	require.NoError(t, server.Set("product-1", "foreign"))

	// Act
	require.NoError(t, store.Set(ctx, "product-1", []byte("ours"), 0))
	value, found, getErr := store.Get(ctx, "product-1")
	has, hasErr := store.Has(ctx, "product-1")
	delErr := store.Delete(ctx, "product-1")

	// Assert
	require.NoError(t, getErr)
	require.NoError(t, hasErr)
	require.NoError(t, delErr)
	assert.True(t, found)
	assert.Equal(t, "ours", string(value))
	assert.True(t, has)
	assert.False(t, server.Exists("test:product-1"))
	foreign, err := server.Get("product-1")
	require.NoError(t, err)
	assert.Equal(t, "foreign", foreign, "unprefixed keys are never touched")
}

func TestRedisStore_DeleteManyKeysInOnePipeline(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store, server := inProcessStore(t, DefaultBreakerConfig())
	for _, k := range []string{"order-o1", "order-o2", "my-orders-u1", "all-orders"} {
		require.NoError(t, store.Set(ctx, k, []byte("[]"), time.Minute))
	}

	// Act
	err := store.Delete(ctx, "order-o1", "order-o2", "my-orders-u1", "order-absent")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"test:all-orders"}, server.Keys())
}
