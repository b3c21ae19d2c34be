package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Catalog
	MaxPhotosPerProduct int
	LatestProductsLimit int
	SearchPageSize      int
	MaxProductNameLen   int

	// Reviews
	MinRating int
	MaxRating int

	// Analytics
	ReportTTL               time.Duration
	MarketingCostRate       float64
	LatestTransactionsLimit int
	SeriesMonths            int

	// Age bands, inclusive bounds in whole years
	TeenMinAge  int
	AdultMinAge int
	OldMinAge   int

	// Coupons
	DefaultCouponUsageLimit int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxPhotosPerProduct: 5,
		LatestProductsLimit: 5,
		SearchPageSize:      10,
		MaxProductNameLen:   100,

		MinRating: 1,
		MaxRating: 5,

		ReportTTL:               time.Hour,
		MarketingCostRate:       0.30,
		LatestTransactionsLimit: 4,
		SeriesMonths:            12,

		TeenMinAge:  13,
		AdultMinAge: 20,
		OldMinAge:   65,

		DefaultCouponUsageLimit: 1,
	}
}
