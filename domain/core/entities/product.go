package entities

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"storeadmin/domain/config"
	"storeadmin/domain/core/valueobjects"
	pkgerrors "storeadmin/pkg/errors"
)

// Photo is a product image reference. Uploading is handled elsewhere;
// the catalog only stores the resulting URL.
type Photo struct {
	URL       string `json:"url"`
	AltText   string `json:"altText,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
}

// Product is a catalog item.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	Category     string    `json:"category"`
	IsActive     bool      `json:"isActive"`
	Photos       []Photo   `json:"photos"`
	Ratings      int       `json:"ratings"`
	NumOfReviews int       `json:"numOfReviews"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProductUpdate carries the optional fields of a partial product update.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
	IsActive    *bool
	Photos      []Photo
}

// NewProduct creates an active product. Categories are stored lower case so
// grouping is stable regardless of how admins type them.
func NewProduct(cfg *config.DomainConfig, name, description string, price float64, stock int, category string, photos []Photo, now time.Time) (*Product, error) {
	p := &Product{
		ID:          valueobjects.NewEntityID(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       price,
		Stock:       stock,
		Category:    NormalizeCategory(category),
		IsActive:    true,
		Photos:      photos,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Photos == nil {
		p.Photos = []Photo{}
	}
	if err := p.validate(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// NormalizeCategory trims and lower-cases a category name.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

func (p *Product) validate(cfg *config.DomainConfig) error {
	switch {
	case p.Name == "":
		return pkgerrors.NewValidationError("product name is required")
	case utf8.RuneCountInString(p.Name) > cfg.MaxProductNameLen:
		return pkgerrors.NewValidationError(fmt.Sprintf("product name cannot exceed %d characters", cfg.MaxProductNameLen))
	case p.Price < 0:
		return pkgerrors.NewValidationError("price cannot be negative")
	case p.Stock < 0:
		return pkgerrors.NewValidationError("stock cannot be negative")
	case p.Category == "":
		return pkgerrors.NewValidationError("category is required")
	case len(p.Photos) > cfg.MaxPhotosPerProduct:
		return pkgerrors.NewValidationError(fmt.Sprintf("a product can have at most %d photos", cfg.MaxPhotosPerProduct))
	}
	return nil
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// Apply merges a partial update and revalidates.
func (p *Product) Apply(cfg *config.DomainConfig, u ProductUpdate, now time.Time) error {
	next := *p
	if u.Name != nil {
		next.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		next.Description = strings.TrimSpace(*u.Description)
	}
	if u.Price != nil {
		next.Price = *u.Price
	}
	if u.Stock != nil {
		next.Stock = *u.Stock
	}
	if u.Category != nil {
		next.Category = NormalizeCategory(*u.Category)
	}
	if u.IsActive != nil {
		next.IsActive = *u.IsActive
	}
	if u.Photos != nil {
		next.Photos = u.Photos
	}
	if err := next.validate(cfg); err != nil {
		return err
	}
	next.UpdatedAt = now
	*p = next
	return nil
}

// ReserveStock removes qty units from stock.
func (p *Product) ReserveStock(qty int, now time.Time) error {
	if qty <= 0 {
		return pkgerrors.NewValidationError("quantity must be positive")
	}
	if p.Stock < qty {
		return pkgerrors.NewConflictError(fmt.Sprintf("insufficient stock for %q: %d available, %d requested", p.Name, p.Stock, qty))
	}
	p.Stock -= qty
	p.UpdatedAt = now
	return nil
}

// SetRating stores a recomputed review summary.
func (p *Product) SetRating(summary RatingSummary, now time.Time) {
	p.Ratings = summary.Average
	p.NumOfReviews = summary.Count
	p.UpdatedAt = now
}
