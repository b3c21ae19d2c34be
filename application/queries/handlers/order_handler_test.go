package handlers

import (
	"context"
	"errors"
	"testing"

	"storeadmin/application/queries"
	"storeadmin/domain/core/entities"
	"storeadmin/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_MyOrdersCachedPerUser(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orders := new(mocks.MockOrderRepository)
	accessor, store := newTestAccessor(t)
	h := NewOrderHandler(orders, accessor)
	orders.On("ListByUser", mock.Anything, "u1").Return([]*entities.Order{{ID: "o1", UserID: "u1"}}, nil).Once()

	// Act
	_, err := h.MyOrders(ctx, queries.GetMyOrdersQuery{UserID: "u1"})
	require.NoError(t, err)
	mine, err := h.MyOrders(ctx, queries.GetMyOrdersQuery{UserID: "u1"})

	// Assert
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "o1", mine[0].ID)
	cached, err := store.Has(ctx, "my-orders-u1")
	require.NoError(t, err)
	assert.True(t, cached)
	orders.AssertExpectations(t)
}

func TestOrderHandler_AllOrdersAndSingleOrder(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orders := new(mocks.MockOrderRepository)
	accessor, store := newTestAccessor(t)
	h := NewOrderHandler(orders, accessor)
	orders.On("List", mock.Anything).Return([]*entities.Order{{ID: "o1"}, {ID: "o2"}}, nil).Once()
	orders.On("GetByID", mock.Anything, "o2").Return(&entities.Order{ID: "o2", Status: entities.OrderShipped}, nil).Once()

	// Act
	all, err := h.AllOrders(ctx, queries.GetAllOrdersQuery{})
	require.NoError(t, err)
	one, err := h.Order(ctx, queries.GetOrderQuery{OrderID: "o2"})
	require.NoError(t, err)
	again, err := h.Order(ctx, queries.GetOrderQuery{OrderID: "o2"})
	require.NoError(t, err)

	// Assert
	assert.Len(t, all, 2)
	assert.Equal(t, entities.OrderShipped, one.Status)
	assert.Equal(t, entities.OrderShipped, again.Status)
	for _, key := range []string{"all-orders", "order-o2"} {
		ok, err := store.Has(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, key)
	}
	orders.AssertExpectations(t)
}

func TestOrderHandler_LoaderFailureIsNotCached(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orders := new(mocks.MockOrderRepository)
	accessor, store := newTestAccessor(t)
	h := NewOrderHandler(orders, accessor)
	orders.On("List", mock.Anything).Return(nil, errors.New("table throttled")).Once()

	// Act
	_, err := h.AllOrders(ctx, queries.GetAllOrdersQuery{})

	// Assert
	require.Error(t, err)
	ok, hasErr := store.Has(ctx, "all-orders")
	require.NoError(t, hasErr)
	assert.False(t, ok)
}
