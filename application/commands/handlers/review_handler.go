package handlers

import (
	"context"

	"storeadmin/application/cache"
	"storeadmin/application/commands"
	"storeadmin/application/ports"
	"storeadmin/domain/config"
	"storeadmin/domain/core/entities"
	"storeadmin/domain/events"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ReviewHandler handles review commands. Every change recomputes the
// product's rating and evicts the product's review list.
type ReviewHandler struct {
	reviews     ports.ReviewRepository
	products    ports.ProductRepository
	users       ports.UserRepository
	invalidator Invalidator
	publisher   ports.EventPublisher
	clock       clockwork.Clock
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

func NewReviewHandler(
	reviews ports.ReviewRepository,
	products ports.ProductRepository,
	users ports.UserRepository,
	invalidator Invalidator,
	publisher ports.EventPublisher,
	clock clockwork.Clock,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		reviews:     reviews,
		products:    products,
		users:       users,
		invalidator: invalidator,
		publisher:   publisher,
		clock:       clock,
		cfg:         cfg,
		logger:      logger,
	}
}

// SaveReview creates or revises the user's review of a product
func (h *ReviewHandler) SaveReview(ctx context.Context, cmd commands.SaveReviewCommand) error {
	product, err := h.products.GetByID(ctx, cmd.ProductID)
	if err != nil {
		return err
	}
	if _, err := h.users.GetByID(ctx, cmd.UserID); err != nil {
		return err
	}

	now := h.clock.Now()
	review, err := h.reviews.FindByProductAndUser(ctx, product.ID, cmd.UserID)
	switch {
	case pkgerrors.IsNotFound(err):
		review, err = entities.NewReview(h.cfg, product.ID, cmd.UserID, cmd.Rating, cmd.Comment, now)
		if err != nil {
			return err
		}
		review.ID = cmd.ReviewID
	case err != nil:
		return err
	default:
		if err := review.Revise(h.cfg, cmd.Rating, cmd.Comment, now); err != nil {
			return err
		}
	}

	if err := h.reviews.Save(ctx, review); err != nil {
		return err
	}
	if err := h.refreshRating(ctx, product); err != nil {
		return err
	}

	publish(ctx, h.publisher, h.logger, events.NewReviewChanged(events.TypeReviewSaved, review.ID, product.ID, review.UserID, review.Rating, now))
	return nil
}

// DeleteReview removes a review written by cmd.UserID
func (h *ReviewHandler) DeleteReview(ctx context.Context, cmd commands.DeleteReviewCommand) error {
	review, err := h.reviews.GetByID(ctx, cmd.ReviewID)
	if err != nil {
		return err
	}
	if review.UserID != cmd.UserID {
		return pkgerrors.NewForbiddenError("only the author can delete a review")
	}

	product, err := h.products.GetByID(ctx, review.ProductID)
	if err != nil {
		return err
	}
	if err := h.reviews.Delete(ctx, review.ID); err != nil {
		return err
	}
	if err := h.refreshRating(ctx, product); err != nil {
		return err
	}

	publish(ctx, h.publisher, h.logger, events.NewReviewChanged(events.TypeReviewDeleted, review.ID, product.ID, review.UserID, review.Rating, h.clock.Now()))
	return nil
}

func (h *ReviewHandler) refreshRating(ctx context.Context, product *entities.Product) error {
	reviews, err := h.reviews.ListByProduct(ctx, product.ID)
	if err != nil {
		return err
	}

	product.SetRating(entities.SummarizeRatings(reviews), h.clock.Now())
	if err := h.products.Save(ctx, product); err != nil {
		return err
	}

	return h.invalidator.Invalidate(ctx, cache.Signal{
		Product:   true,
		Review:    true,
		Admin:     true,
		ProductID: product.ID,
	})
}
