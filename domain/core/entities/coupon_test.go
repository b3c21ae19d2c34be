package entities

import (
	"testing"
	"time"

	pkgerrors "storeadmin/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoupon(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c, err := NewCoupon(CouponSpec{
		Code:          " save10 ",
		DiscountValue: 10,
		DiscountType:  DiscountPercentage,
		ExpiresAt:     now.AddDate(0, 1, 0),
	}, 1, now)

	require.NoError(t, err)
	assert.Equal(t, "SAVE10", c.Code)
	assert.Equal(t, 1, c.UsageLimit)
	assert.Empty(t, c.ApplicableProducts)
	assert.False(t, c.Expired(now))
	assert.True(t, c.Expired(now.AddDate(0, 2, 0)))
}

func TestNewCoupon_Validation(t *testing.T) {
	now := time.Now()
	base := CouponSpec{Code: "X", DiscountValue: 5, DiscountType: DiscountFixed, ExpiresAt: now.Add(time.Hour)}

	bad := base
	bad.Code = ""
	_, err := NewCoupon(bad, 1, now)
	assert.True(t, pkgerrors.IsValidation(err))

	bad = base
	bad.DiscountType = "bogus"
	_, err = NewCoupon(bad, 1, now)
	assert.True(t, pkgerrors.IsValidation(err))

	bad = base
	bad.DiscountType = DiscountPercentage
	bad.DiscountValue = 150
	_, err = NewCoupon(bad, 1, now)
	assert.True(t, pkgerrors.IsValidation(err))

	bad = base
	bad.ExpiresAt = time.Time{}
	_, err = NewCoupon(bad, 1, now)
	assert.True(t, pkgerrors.IsValidation(err))
}
