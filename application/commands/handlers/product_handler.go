package handlers

import (
	"context"

	"storeadmin/application/cache"
	"storeadmin/application/commands"
	"storeadmin/application/ports"
	"storeadmin/domain/config"
	"storeadmin/domain/core/entities"
	"storeadmin/domain/events"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

var productSignal = cache.Signal{Product: true, Admin: true}

// ProductHandler handles catalog commands
type ProductHandler struct {
	products    ports.ProductRepository
	invalidator Invalidator
	publisher   ports.EventPublisher
	clock       clockwork.Clock
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

// NewProductHandler creates a new product command handler
func NewProductHandler(
	products ports.ProductRepository,
	invalidator Invalidator,
	publisher ports.EventPublisher,
	clock clockwork.Clock,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *ProductHandler {
	return &ProductHandler{
		products:    products,
		invalidator: invalidator,
		publisher:   publisher,
		clock:       clock,
		cfg:         cfg,
		logger:      logger,
	}
}

// CreateProduct stores a new product
func (h *ProductHandler) CreateProduct(ctx context.Context, cmd commands.CreateProductCommand) error {
	now := h.clock.Now()
	product, err := entities.NewProduct(h.cfg, cmd.Name, cmd.Description, cmd.Price, cmd.Stock, cmd.Category, cmd.Photos, now)
	if err != nil {
		return err
	}
	product.ID = cmd.ProductID

	if err := h.products.Save(ctx, product); err != nil {
		return err
	}
	if err := h.invalidator.Invalidate(ctx, productSignal); err != nil {
		return err
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID), zap.String("category", product.Category))
	publish(ctx, h.publisher, h.logger, events.NewProductChanged(events.TypeProductCreated, product.ID, product.Category, now))
	return nil
}

// UpdateProduct applies a partial update
func (h *ProductHandler) UpdateProduct(ctx context.Context, cmd commands.UpdateProductCommand) error {
	product, err := h.products.GetByID(ctx, cmd.ProductID)
	if err != nil {
		return err
	}

	now := h.clock.Now()
	if err := product.Apply(h.cfg, cmd.Update(), now); err != nil {
		return err
	}
	if err := h.products.Save(ctx, product); err != nil {
		return err
	}
	if err := h.invalidator.Invalidate(ctx, productSignal); err != nil {
		return err
	}

	publish(ctx, h.publisher, h.logger, events.NewProductChanged(events.TypeProductUpdated, product.ID, product.Category, now))
	return nil
}

// DeleteProduct removes a product and its cached detail and review list
func (h *ProductHandler) DeleteProduct(ctx context.Context, cmd commands.DeleteProductCommand) error {
	product, err := h.products.GetByID(ctx, cmd.ProductID)
	if err != nil {
		return err
	}
	if err := h.products.Delete(ctx, product.ID); err != nil {
		return err
	}

	if err := h.invalidator.Invalidate(ctx, productSignal); err != nil {
		return err
	}
	if err := h.invalidator.Evict(ctx, cache.ProductKey(product.ID), cache.ReviewsKey(product.ID)); err != nil {
		return err
	}

	h.logger.Info("Product deleted", zap.String("product_id", product.ID))
	publish(ctx, h.publisher, h.logger, events.NewProductChanged(events.TypeProductDeleted, product.ID, product.Category, h.clock.Now()))
	return nil
}
