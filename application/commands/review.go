package commands

import "storeadmin/pkg/utils"

// SaveReviewCommand creates the user's review of a product, or revises it
// when one exists. ReviewID is only used for a new review.
type SaveReviewCommand struct {
	ReviewID  string `json:"-" validate:"required"`
	ProductID string `json:"-" validate:"required"`
	UserID    string `json:"-" validate:"required"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment" validate:"max=1000"`
}

func (c SaveReviewCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// DeleteReviewCommand removes a review. Only its author may delete it.
type DeleteReviewCommand struct {
	ReviewID string `validate:"required"`
	UserID   string `validate:"required"`
}

func (c DeleteReviewCommand) Validate() error {
	return utils.ValidateStruct(c)
}
