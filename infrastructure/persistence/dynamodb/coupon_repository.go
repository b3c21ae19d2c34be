package dynamodb

import (
	"context"

	"storeadmin/domain/core/entities"
	pkgerrors "storeadmin/pkg/errors"

	"go.uber.org/zap"
)

const couponType = "COUPON"

type CouponRepository struct {
	store *entityStore[entities.Coupon]
}

func NewCouponRepository(client Client, tables TableConfig, logger *zap.Logger) *CouponRepository {
	return &CouponRepository{store: newEntityStore[entities.Coupon](client, tables, couponType, "coupon", logger)}
}

func couponCodePK(code string) string {
	return "COUPON_CODE#" + code
}

func (r *CouponRepository) Save(ctx context.Context, coupon *entities.Coupon) error {
	rel := &relation{pk: couponCodePK(coupon.Code), sk: metadataSK}
	return r.store.put(ctx, coupon.ID, r.store.wrap(coupon.ID, coupon.CreatedAt, rel, coupon))
}

func (r *CouponRepository) GetByID(ctx context.Context, id string) (*entities.Coupon, error) {
	return r.store.get(ctx, id)
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*entities.Coupon, error) {
	coupons, err := r.store.byRelation(ctx, couponCodePK(code), nil, false)
	if err != nil {
		return nil, err
	}
	if len(coupons) == 0 {
		return nil, pkgerrors.NewNotFoundError("coupon").WithDetail("code", code)
	}
	return coupons[0], nil
}

func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	return r.store.remove(ctx, id)
}

func (r *CouponRepository) List(ctx context.Context) ([]*entities.Coupon, error) {
	return r.store.byCreation(ctx, creationQuery{})
}
