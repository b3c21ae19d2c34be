package entities

import (
	"strings"
	"testing"
	"time"

	"storeadmin/domain/config"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	p, err := NewProduct(cfg, "  Laptop ", "fast", 999.5, 3, " Electronics ", nil, now)

	require.NoError(t, err)
	assert.Equal(t, "Laptop", p.Name)
	assert.Equal(t, "electronics", p.Category)
	assert.True(t, p.IsActive)
	assert.True(t, p.InStock())
	assert.NotNil(t, p.Photos)
	assert.Equal(t, now, p.CreatedAt)
}

func TestNewProduct_Validation(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	now := time.Now()
	tooMany := make([]Photo, cfg.MaxPhotosPerProduct+1)

	tests := []struct {
		name     string
		pname    string
		price    float64
		stock    int
		category string
		photos   []Photo
	}{
		{"missing name", "", 1, 1, "c", nil},
		{"negative price", "x", -1, 1, "c", nil},
		{"negative stock", "x", 1, -1, "c", nil},
		{"missing category", "x", 1, 1, " ", nil},
		{"too many photos", "x", 1, 1, "c", tooMany},
		{"name too long", strings.Repeat("a", cfg.MaxProductNameLen+1), 1, 1, "c", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(cfg, tt.pname, "", tt.price, tt.stock, tt.category, tt.photos, now)
			assert.True(t, pkgerrors.IsValidation(err))
		})
	}
}

func TestNewProduct_NameLimitCountsCharacters(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	name := strings.Repeat("é", cfg.MaxProductNameLen)

	p, err := NewProduct(cfg, name, "", 1, 1, "c", nil, time.Now())

	require.NoError(t, err, "a name of exactly the limit in multi-byte characters is accepted")
	assert.Equal(t, name, p.Name)

	_, err = NewProduct(cfg, name+"é", "", 1, 1, "c", nil, time.Now())
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestProduct_Apply(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	now := time.Now()
	p, err := NewProduct(cfg, "Desk", "", 100, 2, "furniture", nil, now)
	require.NoError(t, err)

	price := 80.0
	category := "Office"
	require.NoError(t, p.Apply(cfg, ProductUpdate{Price: &price, Category: &category}, now.Add(time.Minute)))
	assert.Equal(t, 80.0, p.Price)
	assert.Equal(t, "office", p.Category)
	assert.Equal(t, "Desk", p.Name)

	negative := -5
	err = p.Apply(cfg, ProductUpdate{Stock: &negative}, now)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, 2, p.Stock, "a rejected update leaves the product unchanged")
}

func TestProduct_ReserveStock(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	p, err := NewProduct(cfg, "Pen", "", 1, 3, "stationery", nil, time.Now())
	require.NoError(t, err)

	require.NoError(t, p.ReserveStock(2, time.Now()))
	assert.Equal(t, 1, p.Stock)

	err = p.ReserveStock(2, time.Now())
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, 1, p.Stock)

	require.NoError(t, p.ReserveStock(1, time.Now()))
	assert.False(t, p.InStock())
}
