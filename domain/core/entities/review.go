package entities

import (
	"fmt"
	"strings"
	"time"

	"storeadmin/domain/config"
	"storeadmin/domain/core/valueobjects"
	pkgerrors "storeadmin/pkg/errors"
)

// Review is one user's rating of one product. A user holds at most one
// review per product; writing again revises it.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RatingSummary is the derived rating shown on a product.
type RatingSummary struct {
	Average int
	Count   int
}

func checkRating(cfg *config.DomainConfig, rating int) error {
	if rating < cfg.MinRating || rating > cfg.MaxRating {
		return pkgerrors.NewValidationError(fmt.Sprintf("rating must be between %d and %d", cfg.MinRating, cfg.MaxRating))
	}
	return nil
}

func NewReview(cfg *config.DomainConfig, productID, userID string, rating int, comment string, now time.Time) (*Review, error) {
	if productID == "" || userID == "" {
		return nil, pkgerrors.NewValidationError("product and user are required")
	}
	if err := checkRating(cfg, rating); err != nil {
		return nil, err
	}
	return &Review{
		ID:        valueobjects.NewEntityID(),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Revise replaces the rating and comment of an existing review.
func (r *Review) Revise(cfg *config.DomainConfig, rating int, comment string, now time.Time) error {
	if err := checkRating(cfg, rating); err != nil {
		return err
	}
	r.Rating = rating
	r.Comment = strings.TrimSpace(comment)
	r.UpdatedAt = now
	return nil
}

// SummarizeRatings floors the mean rating; no reviews yields zero.
func SummarizeRatings(reviews []*Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{}
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return RatingSummary{Average: total / len(reviews), Count: len(reviews)}
}
