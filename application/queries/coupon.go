package queries

import (
	"storeadmin/domain/core/entities"
	pkgerrors "storeadmin/pkg/errors"
)

type ListCouponsQuery struct{}

func (ListCouponsQuery) Validate() error { return nil }

type GetCouponQuery struct {
	CouponID string
}

func (q GetCouponQuery) Validate() error {
	if q.CouponID == "" {
		return pkgerrors.NewValidationError("coupon ID is required")
	}
	return nil
}

// ApplyCouponQuery looks up the discount a code grants.
type ApplyCouponQuery struct {
	Code string
}

func (q ApplyCouponQuery) Validate() error {
	if q.Code == "" {
		return pkgerrors.NewValidationError("coupon code is required")
	}
	return nil
}

type DiscountResult struct {
	Code                 string                `json:"code"`
	Discount             float64               `json:"discount"`
	DiscountType         entities.DiscountType `json:"discountType"`
	ApplicableProducts   []string              `json:"applicableProducts"`
	ApplicableCategories []string              `json:"applicableCategories"`
}
