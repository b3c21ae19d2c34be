package handlers

import (
	"context"
	"testing"
	"time"

	"storeadmin/application/commands"
	"storeadmin/domain/config"
	"storeadmin/domain/core/entities"
	pkgerrors "storeadmin/pkg/errors"
	"storeadmin/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func couponFields(code string) commands.CouponFields {
	return commands.CouponFields{
		Code:          code,
		DiscountValue: 10,
		DiscountType:  "percentage",
		ExpiresAt:     testNow.Add(30 * 24 * time.Hour),
	}
}

func TestCouponHandler_CreateCoupon(t *testing.T) {
	// Arrange
	ctx := context.Background()
	coupons := new(mocks.MockCouponRepository)
	publisher := new(mocks.MockEventPublisher)

	coupons.On("GetByCode", ctx, "SAVE10").Return(nil, pkgerrors.NewNotFoundError("coupon"))
	coupons.On("Save", ctx, mock.MatchedBy(func(c *entities.Coupon) bool {
		return c.ID == "c1" && c.Code == "SAVE10" && c.UsageLimit == 1
	})).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	handler := NewCouponHandler(coupons, publisher, testClock(), config.DefaultDomainConfig(), zap.NewNop())

	// Act
	err := handler.CreateCoupon(ctx, commands.CreateCouponCommand{CouponID: "c1", CouponFields: couponFields("save10")})

	// Assert
	require.NoError(t, err)
	coupons.AssertExpectations(t)
}

func TestCouponHandler_CreateCoupon_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	coupons := new(mocks.MockCouponRepository)
	coupons.On("GetByCode", ctx, "SAVE10").Return(&entities.Coupon{ID: "c0", Code: "SAVE10"}, nil)

	handler := NewCouponHandler(coupons, new(mocks.MockEventPublisher), testClock(), config.DefaultDomainConfig(), zap.NewNop())

	err := handler.CreateCoupon(ctx, commands.CreateCouponCommand{CouponID: "c1", CouponFields: couponFields("Save10")})

	assert.True(t, pkgerrors.IsConflict(err))
}

func TestCouponHandler_UpdateCoupon_KeepsOwnCode(t *testing.T) {
	// Arrange
	ctx := context.Background()
	coupons := new(mocks.MockCouponRepository)
	publisher := new(mocks.MockEventPublisher)
	coupon := &entities.Coupon{ID: "c1", Code: "SAVE10", UsageLimit: 3}

	coupons.On("GetByID", ctx, "c1").Return(coupon, nil)
	coupons.On("GetByCode", ctx, "SAVE10").Return(coupon, nil)
	coupons.On("Save", ctx, coupon).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	handler := NewCouponHandler(coupons, publisher, testClock(), config.DefaultDomainConfig(), zap.NewNop())
	fields := couponFields("SAVE10")
	fields.DiscountValue = 15

	// Act
	err := handler.UpdateCoupon(ctx, commands.UpdateCouponCommand{CouponID: "c1", CouponFields: fields})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 15.0, coupon.DiscountValue)
	assert.Equal(t, 3, coupon.UsageLimit)
}
