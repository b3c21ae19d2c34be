package analytics

import (
	"time"

	"storeadmin/domain/core/entities"
)

// CategoryStats counts the products in a category and the orders that
// contain at least one item from it.
type CategoryStats struct {
	TotalProducts int `json:"totalProducts"`
	TotalOrders   int `json:"totalOrders"`
}

type PeriodCount struct {
	Count int `json:"count"`
}

type PeriodTotal struct {
	Total float64 `json:"total"`
}

type UserStats struct {
	Male             int         `json:"male"`
	Female           int         `json:"female"`
	ThisMonth        PeriodCount `json:"thisMonth"`
	LastMonth        PeriodCount `json:"lastMonth"`
	PercentageChange int         `json:"percentageChange"`
}

type OrderStats struct {
	ThisMonth        PeriodCount `json:"thisMonth"`
	LastMonth        PeriodCount `json:"lastMonth"`
	PercentageChange int         `json:"percentageChange"`
}

type RevenueStats struct {
	ThisMonth        PeriodTotal `json:"thisMonth"`
	LastMonth        PeriodTotal `json:"lastMonth"`
	PercentageChange int         `json:"percentageChange"`
}

// Transaction is one row of the dashboard's latest orders. Quantity is the
// number of line items, not the number of units.
type Transaction struct {
	OrderID   string               `json:"orderId"`
	Quantity  int                  `json:"quantity"`
	Discount  float64              `json:"discount"`
	Amount    float64              `json:"amount"`
	Status    entities.OrderStatus `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
}

// DashboardStats is the admin landing page rollup.
type DashboardStats struct {
	Categories         map[string]CategoryStats `json:"categories"`
	Users              UserStats                `json:"users"`
	Orders             OrderStats               `json:"orders"`
	Revenue            RevenueStats             `json:"revenue"`
	LatestTransactions []Transaction            `json:"latestTransactions"`
}

type OrderFulfillment struct {
	Processing int `json:"processing"`
	Shipped    int `json:"shipped"`
	Delivered  int `json:"delivered"`
}

type StockAvailability struct {
	InStock    int `json:"inStock"`
	OutOfStock int `json:"outOfStock"`
}

// RevenueShare is an amount and its share of gross revenue, formatted like
// "52.00%".
type RevenueShare struct {
	Amount float64 `json:"amount"`
	Ratio  string  `json:"ratio"`
}

type RevenueDistribution struct {
	TotalRevenue   float64      `json:"totalRevenue"`
	NetMargin      RevenueShare `json:"netMargin"`
	Discount       RevenueShare `json:"discount"`
	ProductionCost RevenueShare `json:"productionCost"`
	Burnt          RevenueShare `json:"burnt"`
	MarketingCost  RevenueShare `json:"marketingCost"`
}

type AgeGroups struct {
	Teen  int `json:"teen"`
	Adult int `json:"adult"`
	Old   int `json:"old"`
}

type AdminCustomer struct {
	Admin    int `json:"admin"`
	Customer int `json:"customer"`
}

// PieCharts is recomputed on every request.
type PieCharts struct {
	OrderFulfillment    OrderFulfillment    `json:"orderFulfillment"`
	ProductCategories   []map[string]int    `json:"productCategories"`
	StockAvailability   StockAvailability   `json:"stockAvailability"`
	RevenueDistribution RevenueDistribution `json:"revenueDistribution"`
	UsersAgeGroup       AgeGroups           `json:"usersAgeGroup"`
	AdminCustomer       AdminCustomer       `json:"adminCustomer"`
}

type MonthlyOrders struct {
	Month        int     `json:"month"`
	TotalOrders  int     `json:"totalOrders"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type MonthlySales struct {
	Month         int     `json:"month"`
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalDiscount float64 `json:"totalDiscount"`
}

type MonthlyUsers struct {
	Month      int `json:"month"`
	TotalUsers int `json:"totalUsers"`
}

type MonthlyProducts struct {
	Month         int `json:"month"`
	TotalProducts int `json:"totalProducts"`
}

type MonthlyDiscount struct {
	Month         int     `json:"month"`
	TotalDiscount float64 `json:"totalDiscount"`
}

// BarCharts holds twelve calendar-month buckets for the trailing year.
type BarCharts struct {
	OrdersByMonth   []MonthlyOrders   `json:"ordersByMonth"`
	UsersByMonth    []MonthlyUsers    `json:"usersByMonth"`
	ProductsByMonth []MonthlyProducts `json:"productsByMonth"`
}

// LineCharts holds twelve calendar-month buckets for the trailing year,
// with the window aligned to whole days.
type LineCharts struct {
	OrdersByMonth    []MonthlySales    `json:"ordersByMonth"`
	UsersByMonth     []MonthlyUsers    `json:"usersByMonth"`
	ProductsByMonth  []MonthlyProducts `json:"productsByMonth"`
	DiscountsByMonth []MonthlyDiscount `json:"discountsByMonth"`
}
