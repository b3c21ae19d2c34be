package queries

import (
	"storeadmin/application/ports"
	"storeadmin/domain/core/entities"
	pkgerrors "storeadmin/pkg/errors"
)

// GetLatestProductsQuery returns the newest products.
type GetLatestProductsQuery struct{}

func (GetLatestProductsQuery) Validate() error { return nil }

// GetCategoriesQuery returns every distinct category.
type GetCategoriesQuery struct{}

func (GetCategoriesQuery) Validate() error { return nil }

// GetAdminProductsQuery returns the whole catalog.
type GetAdminProductsQuery struct{}

func (GetAdminProductsQuery) Validate() error { return nil }

type GetProductQuery struct {
	ProductID string
}

func (q GetProductQuery) Validate() error {
	if q.ProductID == "" {
		return pkgerrors.NewValidationError("product ID is required")
	}
	return nil
}

// SearchProductsQuery filters the catalog. Results are never cached.
type SearchProductsQuery struct {
	Name     string
	Category string
	MaxPrice *float64
	Sort     ports.SortOrder
	Page     int
}

func (q SearchProductsQuery) Validate() error {
	switch q.Sort {
	case ports.SortNone, ports.SortPriceAsc, ports.SortPriceDesc:
	default:
		return pkgerrors.NewValidationError("sort must be asc or desc")
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return pkgerrors.NewValidationError("max price cannot be negative")
	}
	return nil
}

// SearchProductsResult is one page of search results.
type SearchProductsResult struct {
	Products  []*entities.Product `json:"products"`
	TotalPage int                 `json:"totalPage"`
	Total     int                 `json:"total"`
}

type GetProductReviewsQuery struct {
	ProductID string
}

func (q GetProductReviewsQuery) Validate() error {
	if q.ProductID == "" {
		return pkgerrors.NewValidationError("product ID is required")
	}
	return nil
}
