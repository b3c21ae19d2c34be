package cache

import "strings"

// Key is a cache key. Values can only be obtained from the constructors and
// variables in this file, so every key in use is one the invalidation
// rules know how to reach.
type Key struct {
	name string
}

func (k Key) String() string { return k.name }

// Family is the key without its entity id, used as a low cardinality label.
func (k Key) Family() string {
	for _, prefix := range perEntityPrefixes {
		if strings.HasPrefix(k.name, prefix) {
			return strings.TrimSuffix(prefix, "-")
		}
	}
	return k.name
}

const (
	productPrefix  = "product-"
	reviewsPrefix  = "reviews-"
	orderPrefix    = "order-"
	myOrdersPrefix = "my-orders-"
)

var perEntityPrefixes = []string{productPrefix, reviewsPrefix, orderPrefix, myOrdersPrefix}

// Fixed keys.
var (
	LatestProductsKey = Key{"latest-product"}
	CategoriesKey     = Key{"categories"}
	AdminProductsKey  = Key{"admin-products"}
	AllOrdersKey      = Key{"all-orders"}
	DashboardKey      = Key{"admin-dashboard"}
	AdminUsersKey     = Key{"admin-users"}
	BarChartsKey      = Key{"admin-bar-charts"}
	LineChartsKey     = Key{"admin-line-charts"}
)

// ProductKey caches a single product.
func ProductKey(productID string) Key { return Key{productPrefix + productID} }

// ReviewsKey caches the review list of a product.
func ReviewsKey(productID string) Key { return Key{reviewsPrefix + productID} }

// OrderKey caches a single order.
func OrderKey(orderID string) Key { return Key{orderPrefix + orderID} }

// UserOrdersKey caches the order list of one user.
func UserOrdersKey(userID string) Key { return Key{myOrdersPrefix + userID} }
