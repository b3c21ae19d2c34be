package analytics

import (
	"math"
	"sort"
	"time"

	"storeadmin/domain/config"
	"storeadmin/domain/core/entities"

	"github.com/shopspring/decimal"
)

const monthsPerYear = 12

// PercentChange is the change from previous to current in whole percent.
// The divisor is at least one, so growth from nothing stays finite.
func PercentChange(current, previous float64) int {
	return int(math.Round((current - previous) / math.Max(previous, 1) * 100))
}

// monthIndex maps t to its calendar-month bucket, 0 for January.
func monthIndex(t time.Time) int {
	return int(t.Month()) - 1
}

func emptyOrderBuckets() []MonthlyOrders {
	out := make([]MonthlyOrders, monthsPerYear)
	for i := range out {
		out[i].Month = i + 1
	}
	return out
}

func emptySalesBuckets() []MonthlySales {
	out := make([]MonthlySales, monthsPerYear)
	for i := range out {
		out[i].Month = i + 1
	}
	return out
}

func emptyDiscountBuckets() []MonthlyDiscount {
	out := make([]MonthlyDiscount, monthsPerYear)
	for i := range out {
		out[i].Month = i + 1
	}
	return out
}

// UsersByMonth counts users by the calendar month they registered in.
func UsersByMonth(users []*entities.User) []MonthlyUsers {
	out := make([]MonthlyUsers, monthsPerYear)
	for i := range out {
		out[i].Month = i + 1
	}
	for _, u := range users {
		out[monthIndex(u.CreatedAt)].TotalUsers++
	}
	return out
}

// ProductsByMonth counts products by the calendar month they were created in.
func ProductsByMonth(products []*entities.Product) []MonthlyProducts {
	out := make([]MonthlyProducts, monthsPerYear)
	for i := range out {
		out[i].Month = i + 1
	}
	for _, p := range products {
		out[monthIndex(p.CreatedAt)].TotalProducts++
	}
	return out
}

// OrdersByMonth buckets order counts and revenue by calendar month.
func OrdersByMonth(orders []*entities.Order) []MonthlyOrders {
	out := emptyOrderBuckets()
	sums := make([]decimal.Decimal, monthsPerYear)
	for _, o := range orders {
		i := monthIndex(o.CreatedAt)
		out[i].TotalOrders++
		sums[i] = sums[i].Add(decimal.NewFromFloat(o.Total))
	}
	for i := range out {
		out[i].TotalRevenue = sums[i].InexactFloat64()
	}
	return out
}

// SalesByMonth is OrdersByMonth plus the discount given each month.
func SalesByMonth(orders []*entities.Order) []MonthlySales {
	out := emptySalesBuckets()
	revenue := make([]decimal.Decimal, monthsPerYear)
	discount := make([]decimal.Decimal, monthsPerYear)
	for _, o := range orders {
		i := monthIndex(o.CreatedAt)
		out[i].TotalOrders++
		revenue[i] = revenue[i].Add(decimal.NewFromFloat(o.Total))
		discount[i] = discount[i].Add(decimal.NewFromFloat(o.Discount))
	}
	for i := range out {
		out[i].TotalRevenue = revenue[i].InexactFloat64()
		out[i].TotalDiscount = discount[i].InexactFloat64()
	}
	return out
}

func DiscountsByMonth(orders []*entities.Order) []MonthlyDiscount {
	out := emptyDiscountBuckets()
	sums := make([]decimal.Decimal, monthsPerYear)
	for _, o := range orders {
		i := monthIndex(o.CreatedAt)
		sums[i] = sums[i].Add(decimal.NewFromFloat(o.Discount))
	}
	for i := range out {
		out[i].TotalDiscount = sums[i].InexactFloat64()
	}
	return out
}

// Revenue sums order totals.
func Revenue(orders []*entities.Order) float64 {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(decimal.NewFromFloat(o.Total))
	}
	return sum.InexactFloat64()
}

// RevenueBreakdown decomposes gross revenue into net margin and the four
// cost components. Marketing is a flat share of gross, rounded to a whole
// amount.
func RevenueBreakdown(orders []*entities.Order, marketingRate float64) RevenueDistribution {
	var gross, discount, production, burnt decimal.Decimal
	for _, o := range orders {
		gross = gross.Add(decimal.NewFromFloat(o.Total))
		discount = discount.Add(decimal.NewFromFloat(o.Discount))
		production = production.Add(decimal.NewFromFloat(o.ShippingCharges))
		burnt = burnt.Add(decimal.NewFromFloat(o.Tax))
	}
	marketing := gross.Mul(decimal.NewFromFloat(marketingRate)).Round(0)
	net := gross.Sub(discount).Sub(production).Sub(burnt).Sub(marketing)

	share := func(amount decimal.Decimal) RevenueShare {
		return RevenueShare{Amount: amount.InexactFloat64(), Ratio: ratio(amount, gross)}
	}

	return RevenueDistribution{
		TotalRevenue:   gross.InexactFloat64(),
		NetMargin:      share(net),
		Discount:       share(discount),
		ProductionCost: share(production),
		Burnt:          share(burnt),
		MarketingCost:  share(marketing),
	}
}

func ratio(amount, gross decimal.Decimal) string {
	if !gross.IsPositive() {
		return "0%"
	}
	return amount.Div(gross).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// CategoryBreakdown counts products and orders per product category.
func CategoryBreakdown(products []*entities.Product, orders []*entities.Order) map[string]CategoryStats {
	stats := make(map[string]CategoryStats)
	for _, p := range products {
		s := stats[p.Category]
		s.TotalProducts++
		stats[p.Category] = s
	}
	for _, o := range orders {
		for _, category := range o.Categories() {
			s, ok := stats[category]
			if !ok {
				continue
			}
			s.TotalOrders++
			stats[category] = s
		}
	}
	return stats
}

// CategoryShares gives each category's share of the catalog in whole
// percent, sorted by category name.
func CategoryShares(products []*entities.Product) []map[string]int {
	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]map[string]int, 0, len(names))
	for _, name := range names {
		pct := int(math.Round(float64(counts[name]) / float64(len(products)) * 100))
		out = append(out, map[string]int{name: pct})
	}
	return out
}

func Stock(products []*entities.Product) StockAvailability {
	var s StockAvailability
	for _, p := range products {
		if p.Stock == 0 {
			s.OutOfStock++
		}
	}
	s.InStock = len(products) - s.OutOfStock
	return s
}

func Fulfillment(orders []*entities.Order) OrderFulfillment {
	var f OrderFulfillment
	for _, o := range orders {
		switch o.Status {
		case entities.OrderProcessing:
			f.Processing++
		case entities.OrderShipped:
			f.Shipped++
		case entities.OrderDelivered:
			f.Delivered++
		}
	}
	return f
}

// Demographics places users into age bands at now. Users younger than the
// teen band or without a date of birth are not counted.
func Demographics(cfg *config.DomainConfig, users []*entities.User, now time.Time) AgeGroups {
	var g AgeGroups
	for _, u := range users {
		age, ok := u.AgeAt(now)
		if !ok {
			continue
		}
		switch {
		case age >= cfg.OldMinAge:
			g.Old++
		case age >= cfg.AdultMinAge:
			g.Adult++
		case age >= cfg.TeenMinAge:
			g.Teen++
		}
	}
	return g
}

// Roles counts administrators; every other user is a customer.
func Roles(users []*entities.User) AdminCustomer {
	var rc AdminCustomer
	for _, u := range users {
		if u.IsAdmin() {
			rc.Admin++
		} else {
			rc.Customer++
		}
	}
	return rc
}

func Genders(users []*entities.User) (male, female int) {
	for _, u := range users {
		switch u.Gender {
		case entities.GenderMale:
			male++
		case entities.GenderFemale:
			female++
		}
	}
	return male, female
}

// Transactions summarizes orders for the latest transactions table.
func Transactions(orders []*entities.Order) []Transaction {
	out := make([]Transaction, 0, len(orders))
	for _, o := range orders {
		out = append(out, Transaction{
			OrderID:   o.ID,
			Quantity:  len(o.Items),
			Discount:  o.Discount,
			Amount:    o.Total,
			Status:    o.Status,
			CreatedAt: o.CreatedAt,
		})
	}
	return out
}
