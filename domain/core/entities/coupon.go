package entities

import (
	"strings"
	"time"

	"storeadmin/domain/core/valueobjects"
	pkgerrors "storeadmin/pkg/errors"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code.
type Coupon struct {
	ID                   string       `json:"id"`
	Code                 string       `json:"code"`
	DiscountValue        float64      `json:"discountValue"`
	DiscountType         DiscountType `json:"discountType"`
	ExpiresAt            time.Time    `json:"expirationDate"`
	UsageLimit           int          `json:"usageLimit"`
	ApplicableProducts   []string     `json:"applicableProducts"`
	ApplicableCategories []string     `json:"applicableCategories"`
	CreatedAt            time.Time    `json:"createdAt"`
	UpdatedAt            time.Time    `json:"updatedAt"`
}

// CouponSpec holds the admin-supplied coupon attributes.
type CouponSpec struct {
	Code                 string
	DiscountValue        float64
	DiscountType         DiscountType
	ExpiresAt            time.Time
	UsageLimit           int
	ApplicableProducts   []string
	ApplicableCategories []string
}

// NormalizeCouponCode upper-cases codes so lookups are case-insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s CouponSpec) validate() error {
	switch {
	case NormalizeCouponCode(s.Code) == "":
		return pkgerrors.NewValidationError("coupon code is required")
	case s.DiscountValue <= 0:
		return pkgerrors.NewValidationError("discount value must be positive")
	case s.DiscountType != DiscountPercentage && s.DiscountType != DiscountFixed:
		return pkgerrors.NewValidationError("discount type must be percentage or fixed")
	case s.DiscountType == DiscountPercentage && s.DiscountValue > 100:
		return pkgerrors.NewValidationError("a percentage discount cannot exceed 100")
	case s.ExpiresAt.IsZero():
		return pkgerrors.NewValidationError("expiration date is required")
	case s.UsageLimit < 0:
		return pkgerrors.NewValidationError("usage limit cannot be negative")
	}
	return nil
}

func NewCoupon(spec CouponSpec, defaultUsageLimit int, now time.Time) (*Coupon, error) {
	if spec.UsageLimit == 0 {
		spec.UsageLimit = defaultUsageLimit
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}
	c := &Coupon{ID: valueobjects.NewEntityID(), CreatedAt: now}
	c.assign(spec, now)
	return c, nil
}

// Replace overwrites every attribute except identity and creation time.
func (c *Coupon) Replace(spec CouponSpec, now time.Time) error {
	if spec.UsageLimit == 0 {
		spec.UsageLimit = c.UsageLimit
	}
	if err := spec.validate(); err != nil {
		return err
	}
	c.assign(spec, now)
	return nil
}

func (c *Coupon) assign(spec CouponSpec, now time.Time) {
	c.Code = NormalizeCouponCode(spec.Code)
	c.DiscountValue = spec.DiscountValue
	c.DiscountType = spec.DiscountType
	c.ExpiresAt = spec.ExpiresAt
	c.UsageLimit = spec.UsageLimit
	c.ApplicableProducts = nonNil(spec.ApplicableProducts)
	c.ApplicableCategories = nonNil(spec.ApplicableCategories)
	c.UpdatedAt = now
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (c *Coupon) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
