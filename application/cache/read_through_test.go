package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"storeadmin/infrastructure/cachestore"
	pkgerrors "storeadmin/pkg/errors"
	"storeadmin/pkg/observability"
	"storeadmin/tests/mocks"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type productView struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func newTestAccessor(t *testing.T) (*Accessor, *cachestore.MemoryStore, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	store := cachestore.NewMemoryStore(clock, 0)
	t.Cleanup(func() { store.Close() })
	return NewAccessor(store, zap.NewNop(), nil, observability.NewTracer("test", false)), store, clock
}

func TestThrough_LoaderCalledOnceAcrossTwoReads(t *testing.T) {
	// Arrange
	ctx := context.Background()
	accessor, _, _ := newTestAccessor(t)
	calls := 0
	load := func(context.Context) (productView, error) {
		calls++
		return productView{ID: "p1", Price: 12.5}, nil
	}

	// Act
	first, err1 := Through(ctx, accessor, ProductKey("p1"), 0, load)
	second, err2 := Through(ctx, accessor, ProductKey("p1"), 0, load)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, 12.5, second.Price)
}

func TestThrough_LoaderErrorIsNotCached(t *testing.T) {
	// Arrange
	ctx := context.Background()
	accessor, store, _ := newTestAccessor(t)
	loadErr := pkgerrors.NewNotFoundError("product")

	// Act
	_, err := Through(ctx, accessor, ProductKey("missing"), time.Hour, func(context.Context) (productView, error) {
		return productView{}, loadErr
	})

	// Assert
	assert.ErrorIs(t, err, loadErr)
	found, hasErr := store.Has(ctx, "product-missing")
	require.NoError(t, hasErr)
	assert.False(t, found)

	calls := 0
	_, err = Through(ctx, accessor, ProductKey("missing"), time.Hour, func(context.Context) (productView, error) {
		calls++
		return productView{ID: "missing"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestThrough_ExpiredEntryIsReloaded(t *testing.T) {
	// Arrange
	ctx := context.Background()
	accessor, _, clock := newTestAccessor(t)
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	// Act
	v1, _ := Through(ctx, accessor, DashboardKey, time.Hour, load)
	clock.Advance(59 * time.Minute)
	v2, _ := Through(ctx, accessor, DashboardKey, time.Hour, load)
	clock.Advance(2 * time.Minute)
	v3, _ := Through(ctx, accessor, DashboardKey, time.Hour, load)

	// Assert
	assert.Equal(t, 1, v1)
	assert.Equal(t, 1, v2)
	assert.Equal(t, 2, v3)
}

func TestThrough_UndecodableEntryIsAMiss(t *testing.T) {
	// Arrange
	ctx := context.Background()
	accessor, store, _ := newTestAccessor(t)
	require.NoError(t, store.Set(ctx, "categories", []byte("{not json"), 0))

	// Act
	got, err := Through(ctx, accessor, CategoriesKey, 0, func(context.Context) ([]string, error) {
		return []string{"apparel"}, nil
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"apparel"}, got)
	raw, found, _ := store.Get(ctx, "categories")
	assert.True(t, found)
	assert.JSONEq(t, `["apparel"]`, string(raw))
}

func TestThrough_StoreFailureIsCacheUnavailable(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := new(mocks.MockCache)
	store.On("Get", ctx, "all-orders").Return(nil, false, errors.New("connection refused"))
	accessor := NewAccessor(store, zap.NewNop(), nil, observability.NewTracer("test", false))
	called := false

	// Act
	_, err := Through(ctx, accessor, AllOrdersKey, 0, func(context.Context) ([]string, error) {
		called = true
		return nil, nil
	})

	// Assert
	assert.True(t, pkgerrors.IsCacheUnavailable(err))
	assert.False(t, called)
	store.AssertExpectations(t)
}

func TestThrough_SetFailureIsCacheUnavailable(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := new(mocks.MockCache)
	store.On("Get", ctx, "admin-users").Return(nil, false, nil)
	store.On("Set", ctx, "admin-users", mock.Anything, time.Duration(0)).Return(errors.New("timeout"))
	accessor := NewAccessor(store, zap.NewNop(), nil, observability.NewTracer("test", false))

	// Act
	_, err := Through(ctx, accessor, AdminUsersKey, 0, func(context.Context) ([]string, error) {
		return []string{"u1"}, nil
	})

	// Assert
	assert.True(t, pkgerrors.IsCacheUnavailable(err))
	store.AssertExpectations(t)
}
