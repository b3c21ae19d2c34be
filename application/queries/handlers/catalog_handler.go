package handlers

import (
	"context"

	"storeadmin/application/cache"
	"storeadmin/application/ports"
	"storeadmin/application/queries"
	"storeadmin/domain/config"
	"storeadmin/domain/core/entities"
	"storeadmin/pkg/common"

	"go.uber.org/zap"
)

// CatalogHandler serves product and review reads through the cache
type CatalogHandler struct {
	products ports.ProductRepository
	reviews  ports.ReviewRepository
	accessor *cache.Accessor
	cfg      *config.DomainConfig
	logger   *zap.Logger
}

// NewCatalogHandler creates a new catalog query handler
func NewCatalogHandler(
	products ports.ProductRepository,
	reviews ports.ReviewRepository,
	accessor *cache.Accessor,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		products: products,
		reviews:  reviews,
		accessor: accessor,
		cfg:      cfg,
		logger:   logger,
	}
}

func (h *CatalogHandler) LatestProducts(ctx context.Context, _ queries.GetLatestProductsQuery) ([]*entities.Product, error) {
	return cache.Through(ctx, h.accessor, cache.LatestProductsKey, 0, func(ctx context.Context) ([]*entities.Product, error) {
		return h.products.Latest(ctx, h.cfg.LatestProductsLimit)
	})
}

func (h *CatalogHandler) Categories(ctx context.Context, _ queries.GetCategoriesQuery) ([]string, error) {
	return cache.Through(ctx, h.accessor, cache.CategoriesKey, 0, h.products.Categories)
}

func (h *CatalogHandler) AdminProducts(ctx context.Context, _ queries.GetAdminProductsQuery) ([]*entities.Product, error) {
	return cache.Through(ctx, h.accessor, cache.AdminProductsKey, 0, h.products.List)
}

func (h *CatalogHandler) Product(ctx context.Context, q queries.GetProductQuery) (*entities.Product, error) {
	return cache.Through(ctx, h.accessor, cache.ProductKey(q.ProductID), 0, func(ctx context.Context) (*entities.Product, error) {
		return h.products.GetByID(ctx, q.ProductID)
	})
}

// Search runs an uncached catalog search
func (h *CatalogHandler) Search(ctx context.Context, q queries.SearchProductsQuery) (*queries.SearchProductsResult, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	products, total, err := h.products.Search(ctx, ports.ProductSearch{
		Name:     q.Name,
		Category: entities.NormalizeCategory(q.Category),
		MaxPrice: q.MaxPrice,
		Sort:     q.Sort,
		Page:     page,
		PageSize: h.cfg.SearchPageSize,
	})
	if err != nil {
		return nil, err
	}

	return &queries.SearchProductsResult{
		Products:  products,
		TotalPage: common.CalculateTotalPages(total, h.cfg.SearchPageSize),
		Total:     total,
	}, nil
}

// Reviews lists a product's reviews, newest update first
func (h *CatalogHandler) Reviews(ctx context.Context, q queries.GetProductReviewsQuery) ([]*entities.Review, error) {
	return cache.Through(ctx, h.accessor, cache.ReviewsKey(q.ProductID), 0, func(ctx context.Context) ([]*entities.Review, error) {
		return h.reviews.ListByProduct(ctx, q.ProductID)
	})
}
