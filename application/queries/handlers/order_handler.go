package handlers

import (
	"context"

	"storeadmin/application/cache"
	"storeadmin/application/ports"
	"storeadmin/application/queries"
	"storeadmin/domain/core/entities"
)

// OrderHandler serves order reads through the cache
type OrderHandler struct {
	orders   ports.OrderRepository
	accessor *cache.Accessor
}

func NewOrderHandler(orders ports.OrderRepository, accessor *cache.Accessor) *OrderHandler {
	return &OrderHandler{orders: orders, accessor: accessor}
}

func (h *OrderHandler) MyOrders(ctx context.Context, q queries.GetMyOrdersQuery) ([]*entities.Order, error) {
	return cache.Through(ctx, h.accessor, cache.UserOrdersKey(q.UserID), 0, func(ctx context.Context) ([]*entities.Order, error) {
		return h.orders.ListByUser(ctx, q.UserID)
	})
}

func (h *OrderHandler) AllOrders(ctx context.Context, _ queries.GetAllOrdersQuery) ([]*entities.Order, error) {
	return cache.Through(ctx, h.accessor, cache.AllOrdersKey, 0, h.orders.List)
}

func (h *OrderHandler) Order(ctx context.Context, q queries.GetOrderQuery) (*entities.Order, error) {
	return cache.Through(ctx, h.accessor, cache.OrderKey(q.OrderID), 0, func(ctx context.Context) (*entities.Order, error) {
		return h.orders.GetByID(ctx, q.OrderID)
	})
}
