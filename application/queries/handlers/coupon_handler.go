package handlers

import (
	"context"

	"storeadmin/application/ports"
	"storeadmin/application/queries"
	"storeadmin/domain/core/entities"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/jonboulle/clockwork"
)

// CouponHandler serves coupon reads straight from the repository
type CouponHandler struct {
	coupons ports.CouponRepository
	clock   clockwork.Clock
}

func NewCouponHandler(coupons ports.CouponRepository, clock clockwork.Clock) *CouponHandler {
	return &CouponHandler{coupons: coupons, clock: clock}
}

func (h *CouponHandler) List(ctx context.Context, _ queries.ListCouponsQuery) ([]*entities.Coupon, error) {
	return h.coupons.List(ctx)
}

func (h *CouponHandler) Coupon(ctx context.Context, q queries.GetCouponQuery) (*entities.Coupon, error) {
	return h.coupons.GetByID(ctx, q.CouponID)
}

// Apply resolves a code to its discount. Unknown and expired codes are
// validation errors.
func (h *CouponHandler) Apply(ctx context.Context, q queries.ApplyCouponQuery) (*queries.DiscountResult, error) {
	coupon, err := h.coupons.GetByCode(ctx, entities.NormalizeCouponCode(q.Code))
	if pkgerrors.IsNotFound(err) {
		return nil, pkgerrors.NewValidationError("invalid coupon code")
	}
	if err != nil {
		return nil, err
	}
	if coupon.Expired(h.clock.Now()) {
		return nil, pkgerrors.NewValidationError("coupon has expired")
	}

	return &queries.DiscountResult{
		Code:                 coupon.Code,
		Discount:             coupon.DiscountValue,
		DiscountType:         coupon.DiscountType,
		ApplicableProducts:   coupon.ApplicableProducts,
		ApplicableCategories: coupon.ApplicableCategories,
	}, nil
}
