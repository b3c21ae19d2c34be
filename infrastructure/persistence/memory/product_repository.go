package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"storeadmin/application/ports"
	"storeadmin/domain/core/entities"
	"storeadmin/pkg/common"
)

// ProductRepository keeps products in memory
type ProductRepository struct {
	rows *table[entities.Product]
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{rows: newTable("product", cloneProduct)}
}

func cloneProduct(p *entities.Product) *entities.Product {
	c := *p
	if p.Photos != nil {
		c.Photos = append([]entities.Photo(nil), p.Photos...)
	}
	return &c
}

func productCreated(p *entities.Product) time.Time { return p.CreatedAt }
func productID(p *entities.Product) string         { return p.ID }

func (r *ProductRepository) Save(_ context.Context, product *entities.Product) error {
	return r.rows.put(product.ID, product)
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entities.Product, error) {
	return r.rows.get(id)
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}

func (r *ProductRepository) List(_ context.Context) ([]*entities.Product, error) {
	products := r.rows.filter(nil)
	byTime(products, productCreated, productID, false)
	return products, nil
}

func (r *ProductRepository) ListIDs(_ context.Context) ([]string, error) {
	return r.rows.ids(), nil
}

func (r *ProductRepository) Latest(_ context.Context, n int) ([]*entities.Product, error) {
	products := r.rows.filter(nil)
	byTime(products, productCreated, productID, true)
	return limit(products, n), nil
}

func (r *ProductRepository) Categories(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for _, p := range r.rows.filter(nil) {
		seen[p.Category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

// Search matches name as a case-insensitive substring, category exactly and
// price at or below MaxPrice, then pages the sorted matches.
func (r *ProductRepository) Search(_ context.Context, search ports.ProductSearch) ([]*entities.Product, int, error) {
	name := strings.ToLower(search.Name)
	matches := r.rows.filter(func(p *entities.Product) bool {
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			return false
		}
		if search.Category != "" && p.Category != search.Category {
			return false
		}
		if search.MaxPrice != nil && p.Price > *search.MaxPrice {
			return false
		}
		return true
	})

	byTime(matches, productCreated, productID, false)
	switch search.Sort {
	case ports.SortPriceAsc:
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Price < matches[j].Price })
	case ports.SortPriceDesc:
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Price > matches[j].Price })
	}

	return common.Page(matches, search.Page, search.PageSize), len(matches), nil
}

func (r *ProductRepository) CreatedBetween(_ context.Context, window ports.TimeRange) ([]*entities.Product, error) {
	products := r.rows.filter(func(p *entities.Product) bool { return window.Contains(p.CreatedAt) })
	byTime(products, productCreated, productID, false)
	return products, nil
}
