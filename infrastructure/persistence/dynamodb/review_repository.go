package dynamodb

import (
	"context"
	"sort"

	"storeadmin/domain/core/entities"
	pkgerrors "storeadmin/pkg/errors"

	"go.uber.org/zap"
)

const reviewType = "REVIEW"

// ReviewRepository keys reviews by product in the relation index, one
// sort key per author.
type ReviewRepository struct {
	store *entityStore[entities.Review]
}

func NewReviewRepository(client Client, tables TableConfig, logger *zap.Logger) *ReviewRepository {
	return &ReviewRepository{store: newEntityStore[entities.Review](client, tables, reviewType, "review", logger)}
}

func productReviewsPK(productID string) string {
	return "PRODUCT#" + productID + "#REVIEWS"
}

func authorSK(userID string) string {
	return "USER#" + userID
}

func (r *ReviewRepository) Save(ctx context.Context, review *entities.Review) error {
	rel := &relation{pk: productReviewsPK(review.ProductID), sk: authorSK(review.UserID)}
	return r.store.put(ctx, review.ID, r.store.wrap(review.ID, review.CreatedAt, rel, review))
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	return r.store.get(ctx, id)
}

func (r *ReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID string) (*entities.Review, error) {
	sk := authorSK(userID)
	reviews, err := r.store.byRelation(ctx, productReviewsPK(productID), &sk, false)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, pkgerrors.NewNotFoundError("review").
			WithDetail("product_id", productID).
			WithDetail("user_id", userID)
	}
	return reviews[0], nil
}

// ListByProduct orders by last update in memory; the relation sort key is
// the author, not a timestamp.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]*entities.Review, error) {
	reviews, err := r.store.byRelation(ctx, productReviewsPK(productID), nil, false)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		if !reviews[i].UpdatedAt.Equal(reviews[j].UpdatedAt) {
			return reviews[i].UpdatedAt.After(reviews[j].UpdatedAt)
		}
		return reviews[i].ID < reviews[j].ID
	})
	return reviews, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	return r.store.remove(ctx, id)
}
