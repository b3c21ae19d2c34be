package handlers

import (
	"context"
	"testing"

	"storeadmin/application/cache"
	"storeadmin/application/ports"
	"storeadmin/application/queries"
	"storeadmin/domain/config"
	"storeadmin/domain/core/entities"
	"storeadmin/infrastructure/cachestore"
	"storeadmin/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalogHandler(t *testing.T) (*CatalogHandler, *mocks.MockProductRepository, *mocks.MockReviewRepository, *cachestore.MemoryStore) {
	products := new(mocks.MockProductRepository)
	reviews := new(mocks.MockReviewRepository)
	accessor, store := newTestAccessor(t)
	h := NewCatalogHandler(products, reviews, accessor, config.DefaultDomainConfig(), zap.NewNop())
	return h, products, reviews, store
}

func TestCatalogHandler_LatestProductsServedFromCache(t *testing.T) {
	// Arrange
	ctx := context.Background()
	h, products, _, _ := newCatalogHandler(t)
	latest := []*entities.Product{{ID: "p2", Name: "Kettle"}, {ID: "p1", Name: "Mug"}}
	products.On("Latest", mock.Anything, 5).Return(latest, nil).Once()

	// Act
	first, err := h.LatestProducts(ctx, queries.GetLatestProductsQuery{})
	require.NoError(t, err)
	second, err := h.LatestProducts(ctx, queries.GetLatestProductsQuery{})
	require.NoError(t, err)

	// Assert
	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, "p2", second[0].ID)
	products.AssertExpectations(t)
}

func TestCatalogHandler_ProductReloadsAfterInvalidation(t *testing.T) {
	// Arrange
	ctx := context.Background()
	h, products, _, store := newCatalogHandler(t)
	products.On("GetByID", mock.Anything, "p1").Return(&entities.Product{ID: "p1", Stock: 3}, nil).Once()
	products.On("GetByID", mock.Anything, "p1").Return(&entities.Product{ID: "p1", Stock: 2}, nil).Once()

	first, err := h.Product(ctx, queries.GetProductQuery{ProductID: "p1"})
	require.NoError(t, err)

	// Act
	require.NoError(t, store.Delete(ctx, cache.ProductKey("p1").String()))
	second, err := h.Product(ctx, queries.GetProductQuery{ProductID: "p1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, first.Stock)
	assert.Equal(t, 2, second.Stock)
	products.AssertExpectations(t)
}

func TestCatalogHandler_CategoriesAndAdminProducts(t *testing.T) {
	// Arrange
	ctx := context.Background()
	h, products, _, _ := newCatalogHandler(t)
	products.On("Categories", mock.Anything).Return([]string{"apparel", "kitchen"}, nil).Once()
	products.On("List", mock.Anything).Return([]*entities.Product{{ID: "p1"}}, nil).Once()

	// Act
	categories, err := h.Categories(ctx, queries.GetCategoriesQuery{})
	require.NoError(t, err)
	_, err = h.Categories(ctx, queries.GetCategoriesQuery{})
	require.NoError(t, err)
	all, err := h.AdminProducts(ctx, queries.GetAdminProductsQuery{})
	require.NoError(t, err)
	_, err = h.AdminProducts(ctx, queries.GetAdminProductsQuery{})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, []string{"apparel", "kitchen"}, categories)
	assert.Len(t, all, 1)
	products.AssertExpectations(t)
}

func TestCatalogHandler_SearchIsNotCached(t *testing.T) {
	// Arrange
	ctx := context.Background()
	h, products, _, _ := newCatalogHandler(t)
	maxPrice := 50.0
	expected := ports.ProductSearch{
		Name:     "mug",
		Category: "kitchen",
		MaxPrice: &maxPrice,
		Sort:     ports.SortPriceAsc,
		Page:     1,
		PageSize: 10,
	}
	products.On("Search", mock.Anything, expected).
		Return([]*entities.Product{{ID: "p1"}}, 23, nil).Twice()

	query := queries.SearchProductsQuery{Name: "mug", Category: " Kitchen ", MaxPrice: &maxPrice, Sort: ports.SortPriceAsc}

	// Act
	_, err := h.Search(ctx, query)
	require.NoError(t, err)
	result, err := h.Search(ctx, query)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 23, result.Total)
	assert.Equal(t, 3, result.TotalPage)
	assert.Len(t, result.Products, 1)
	products.AssertExpectations(t)
}

func TestCatalogHandler_ReviewsCachedPerProduct(t *testing.T) {
	// Arrange
	ctx := context.Background()
	h, _, reviews, _ := newCatalogHandler(t)
	reviews.On("ListByProduct", mock.Anything, "p1").Return([]*entities.Review{{ID: "r1"}}, nil).Once()
	reviews.On("ListByProduct", mock.Anything, "p2").Return([]*entities.Review{}, nil).Once()

	// Act
	for i := 0; i < 2; i++ {
		_, err := h.Reviews(ctx, queries.GetProductReviewsQuery{ProductID: "p1"})
		require.NoError(t, err)
		_, err = h.Reviews(ctx, queries.GetProductReviewsQuery{ProductID: "p2"})
		require.NoError(t, err)
	}

	// Assert
	reviews.AssertExpectations(t)
}
