package memory

import (
	"context"
	"time"

	"storeadmin/domain/core/entities"
	pkgerrors "storeadmin/pkg/errors"
)

// CouponRepository keeps coupons in memory. Code uniqueness is enforced by
// the command handlers, not here.
type CouponRepository struct {
	rows *table[entities.Coupon]
}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{rows: newTable("coupon", func(c *entities.Coupon) *entities.Coupon {
		cp := *c
		cp.ApplicableProducts = copyStrings(c.ApplicableProducts)
		cp.ApplicableCategories = copyStrings(c.ApplicableCategories)
		return &cp
	})}
}

func (r *CouponRepository) Save(_ context.Context, coupon *entities.Coupon) error {
	return r.rows.put(coupon.ID, coupon)
}

func (r *CouponRepository) GetByID(_ context.Context, id string) (*entities.Coupon, error) {
	return r.rows.get(id)
}

func (r *CouponRepository) GetByCode(_ context.Context, code string) (*entities.Coupon, error) {
	found := r.rows.filter(func(c *entities.Coupon) bool { return c.Code == code })
	if len(found) == 0 {
		return nil, pkgerrors.NewNotFoundError("coupon").WithDetail("code", code)
	}
	return found[0], nil
}

func (r *CouponRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}

func (r *CouponRepository) List(_ context.Context) ([]*entities.Coupon, error) {
	coupons := r.rows.filter(nil)
	byTime(coupons,
		func(c *entities.Coupon) time.Time { return c.CreatedAt },
		func(c *entities.Coupon) string { return c.ID },
		false)
	return coupons, nil
}
