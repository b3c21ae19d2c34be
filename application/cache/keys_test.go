package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyConstructors(t *testing.T) {
	assert.Equal(t, "product-42", ProductKey("42").String())
	assert.Equal(t, "reviews-42", ReviewsKey("42").String())
	assert.Equal(t, "order-7", OrderKey("7").String())
	assert.Equal(t, "my-orders-u1", UserOrdersKey("u1").String())
	assert.Equal(t, "admin-dashboard", DashboardKey.String())
}

func TestKey_Family(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{ProductKey("abc"), "product"},
		{ReviewsKey("abc"), "reviews"},
		{OrderKey("abc"), "order"},
		{UserOrdersKey("abc"), "my-orders"},
		{LatestProductsKey, "latest-product"},
		{AllOrdersKey, "all-orders"},
		{BarChartsKey, "admin-bar-charts"},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.Family())
		})
	}
}

