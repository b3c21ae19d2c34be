package memory

import (
	"context"
	"time"

	"storeadmin/application/ports"
	"storeadmin/domain/core/entities"
)

// OrderRepository keeps orders in memory
type OrderRepository struct {
	rows *table[entities.Order]
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{rows: newTable("order", cloneOrder)}
}

func cloneOrder(o *entities.Order) *entities.Order {
	c := *o
	if o.Items != nil {
		c.Items = append([]entities.OrderItem(nil), o.Items...)
	}
	return &c
}

func orderCreated(o *entities.Order) time.Time { return o.CreatedAt }
func orderID(o *entities.Order) string         { return o.ID }

func (r *OrderRepository) Save(_ context.Context, order *entities.Order) error {
	return r.rows.put(order.ID, order)
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*entities.Order, error) {
	return r.rows.get(id)
}

func (r *OrderRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}

func (r *OrderRepository) List(_ context.Context) ([]*entities.Order, error) {
	orders := r.rows.filter(nil)
	byTime(orders, orderCreated, orderID, false)
	return orders, nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]*entities.Order, error) {
	orders := r.rows.filter(func(o *entities.Order) bool { return o.UserID == userID })
	byTime(orders, orderCreated, orderID, true)
	return orders, nil
}

func (r *OrderRepository) ListRefs(_ context.Context) ([]ports.OrderRef, error) {
	orders := r.rows.filter(nil)
	byTime(orders, orderCreated, orderID, false)
	refs := make([]ports.OrderRef, 0, len(orders))
	for _, o := range orders {
		refs = append(refs, ports.OrderRef{ID: o.ID, UserID: o.UserID})
	}
	return refs, nil
}

func (r *OrderRepository) Latest(_ context.Context, n int) ([]*entities.Order, error) {
	orders := r.rows.filter(nil)
	byTime(orders, orderCreated, orderID, true)
	return limit(orders, n), nil
}

func (r *OrderRepository) CreatedBetween(_ context.Context, window ports.TimeRange) ([]*entities.Order, error) {
	orders := r.rows.filter(func(o *entities.Order) bool { return window.Contains(o.CreatedAt) })
	byTime(orders, orderCreated, orderID, false)
	return orders, nil
}
