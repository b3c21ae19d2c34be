package memory

import (
	"context"
	"time"

	"storeadmin/domain/core/entities"
	pkgerrors "storeadmin/pkg/errors"
)

// ReviewRepository keeps reviews in memory
type ReviewRepository struct {
	rows *table[entities.Review]
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{rows: newTable("review", func(r *entities.Review) *entities.Review {
		c := *r
		return &c
	})}
}

func (r *ReviewRepository) Save(_ context.Context, review *entities.Review) error {
	return r.rows.put(review.ID, review)
}

func (r *ReviewRepository) GetByID(_ context.Context, id string) (*entities.Review, error) {
	return r.rows.get(id)
}

func (r *ReviewRepository) FindByProductAndUser(_ context.Context, productID, userID string) (*entities.Review, error) {
	found := r.rows.filter(func(rv *entities.Review) bool {
		return rv.ProductID == productID && rv.UserID == userID
	})
	if len(found) == 0 {
		return nil, pkgerrors.NewNotFoundError("review").
			WithDetail("product_id", productID).
			WithDetail("user_id", userID)
	}
	return found[0], nil
}

func (r *ReviewRepository) ListByProduct(_ context.Context, productID string) ([]*entities.Review, error) {
	reviews := r.rows.filter(func(rv *entities.Review) bool { return rv.ProductID == productID })
	byTime(reviews,
		func(rv *entities.Review) time.Time { return rv.UpdatedAt },
		func(rv *entities.Review) string { return rv.ID },
		true)
	return reviews, nil
}

func (r *ReviewRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}
