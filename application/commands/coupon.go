package commands

import (
	"time"

	"storeadmin/domain/core/entities"
	"storeadmin/pkg/utils"
)

// CouponFields are the admin-editable coupon attributes.
type CouponFields struct {
	Code                 string    `json:"code" validate:"required"`
	DiscountValue        float64   `json:"discountValue" validate:"gt=0"`
	DiscountType         string    `json:"discountType" validate:"required,oneof=percentage fixed"`
	ExpiresAt            time.Time `json:"expirationDate" validate:"required"`
	UsageLimit           int       `json:"usageLimit" validate:"gte=0"`
	ApplicableProducts   []string  `json:"applicableProducts"`
	ApplicableCategories []string  `json:"applicableCategories"`
}

// Spec converts the fields into the entity's coupon spec.
func (f CouponFields) Spec() entities.CouponSpec {
	return entities.CouponSpec{
		Code:                 f.Code,
		DiscountValue:        f.DiscountValue,
		DiscountType:         entities.DiscountType(f.DiscountType),
		ExpiresAt:            f.ExpiresAt,
		UsageLimit:           f.UsageLimit,
		ApplicableProducts:   f.ApplicableProducts,
		ApplicableCategories: f.ApplicableCategories,
	}
}

// CreateCouponCommand adds a coupon. Codes are unique regardless of case.
type CreateCouponCommand struct {
	CouponID string `json:"-" validate:"required"`
	CouponFields
}

func (c CreateCouponCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// UpdateCouponCommand replaces every attribute of a coupon.
type UpdateCouponCommand struct {
	CouponID string `json:"-" validate:"required"`
	CouponFields
}

func (c UpdateCouponCommand) Validate() error {
	return utils.ValidateStruct(c)
}

type DeleteCouponCommand struct {
	CouponID string `validate:"required"`
}

func (c DeleteCouponCommand) Validate() error {
	return utils.ValidateStruct(c)
}
