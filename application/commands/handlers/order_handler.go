package handlers

import (
	"context"
	"sort"

	"storeadmin/application/cache"
	"storeadmin/application/commands"
	"storeadmin/application/ports"
	"storeadmin/domain/core/entities"
	"storeadmin/domain/events"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// placedOrderSignal is what placing an order invalidates
var placedOrderSignal = cache.Signal{Product: true, Order: true, Admin: true}

// OrderHandler handles order commands
type OrderHandler struct {
	orders      ports.OrderRepository
	products    ports.ProductRepository
	locker      ports.Locker
	invalidator Invalidator
	publisher   ports.EventPublisher
	clock       clockwork.Clock
	logger      *zap.Logger
}

func NewOrderHandler(
	orders ports.OrderRepository,
	products ports.ProductRepository,
	locker ports.Locker,
	invalidator Invalidator,
	publisher ports.EventPublisher,
	clock clockwork.Clock,
	logger *zap.Logger,
) *OrderHandler {
	return &OrderHandler{
		orders:      orders,
		products:    products,
		locker:      locker,
		invalidator: invalidator,
		publisher:   publisher,
		clock:       clock,
		logger:      logger,
	}
}

// PlaceOrder snapshots the requested products into a new order and takes
// the ordered quantities out of stock. The whole order is rejected when any
// product lacks stock. A write that fails after an earlier one landed still
// invalidates, so the cache never outlives the partial write.
func (h *OrderHandler) PlaceOrder(ctx context.Context, cmd commands.PlaceOrderCommand) (err error) {
	release, err := h.lockProducts(ctx, cmd.Items)
	if err != nil {
		return err
	}
	defer release()

	partial := false
	defer func() {
		if err == nil || !partial {
			return
		}
		if invErr := h.invalidator.Invalidate(context.WithoutCancel(ctx), placedOrderSignal); invErr != nil {
			h.logger.Error("Failed to invalidate after partial order write",
				zap.String("order_id", cmd.OrderID),
				zap.Error(invErr),
			)
		}
	}()

	now := h.clock.Now()

	reserved := make(map[string]*entities.Product)
	var touched []*entities.Product
	items := make([]entities.OrderItem, 0, len(cmd.Items))

	for _, line := range cmd.Items {
		product, ok := reserved[line.ProductID]
		if !ok {
			var err error
			product, err = h.products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			reserved[line.ProductID] = product
			touched = append(touched, product)
		}
		if err := product.ReserveStock(line.Quantity, now); err != nil {
			return err
		}

		item := entities.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Category:  product.Category,
		}
		if len(product.Photos) > 0 {
			item.Photo = product.Photos[0].URL
		}
		items = append(items, item)
	}

	order, err := entities.NewOrder(cmd.UserID, cmd.ShippingInfo, items, cmd.Amounts(), now)
	if err != nil {
		return err
	}
	order.ID = cmd.OrderID

	if err := h.orders.Save(ctx, order); err != nil {
		return err
	}
	partial = true
	for _, product := range touched {
		if err := h.products.Save(ctx, product); err != nil {
			return err
		}
	}
	partial = false

	if err := h.invalidator.Invalidate(ctx, placedOrderSignal); err != nil {
		return err
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total),
	)
	publish(ctx, h.publisher, h.logger, events.NewOrderPlaced(order.ID, order.UserID, order.Total, len(order.Items), now))
	return nil
}

// lockProducts takes a lease on every ordered product, in id order so two
// orders sharing products cannot deadlock. The returned func releases them.
func (h *OrderHandler) lockProducts(ctx context.Context, lines []commands.OrderLine) (func(), error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	sort.Strings(ids)

	held := make([]ports.Lock, 0, len(ids))
	release := func() {
		releaseCtx := context.WithoutCancel(ctx)
		for i := len(held) - 1; i >= 0; i-- {
			if err := held[i].Release(releaseCtx); err != nil {
				h.logger.Warn("Failed to release stock lock", zap.Error(err))
			}
		}
	}

	for _, id := range ids {
		lock, err := h.locker.Acquire(ctx, "product#"+id)
		if err != nil {
			release()
			return nil, err
		}
		held = append(held, lock)
	}
	return release, nil
}

// ProcessOrder advances the order's status. A delivered order is left as
// it is, but the order and admin caches are evicted either way.
func (h *OrderHandler) ProcessOrder(ctx context.Context, cmd commands.ProcessOrderCommand) error {
	order, err := h.orders.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return err
	}

	now := h.clock.Now()
	from, to := order.AdvanceStatus(now)
	if from != to {
		if err := h.orders.Save(ctx, order); err != nil {
			return err
		}
	}

	if err := h.invalidator.Invalidate(ctx, cache.Signal{Order: true, Admin: true}); err != nil {
		return err
	}

	if from != to {
		h.logger.Info("Order status changed",
			zap.String("order_id", order.ID),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		publish(ctx, h.publisher, h.logger, events.NewOrderStatusChanged(order.ID, order.UserID, string(from), string(to), now))
	}
	return nil
}

// DeleteOrder removes an order
func (h *OrderHandler) DeleteOrder(ctx context.Context, cmd commands.DeleteOrderCommand) error {
	order, err := h.orders.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if err := h.orders.Delete(ctx, order.ID); err != nil {
		return err
	}

	if err := h.invalidator.Invalidate(ctx, cache.Signal{Order: true, Admin: true}); err != nil {
		return err
	}
	if err := h.invalidator.Evict(ctx, cache.OrderKey(order.ID), cache.UserOrdersKey(order.UserID)); err != nil {
		return err
	}

	publish(ctx, h.publisher, h.logger, events.NewOrderDeleted(order.ID, order.UserID, h.clock.Now()))
	return nil
}
