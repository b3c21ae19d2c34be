package analytics

import (
	"context"
	"time"

	"storeadmin/application/cache"
	"storeadmin/application/ports"
	"storeadmin/domain/config"
	"storeadmin/domain/core/entities"
	pkgerrors "storeadmin/pkg/errors"
	"storeadmin/pkg/observability"
	"storeadmin/pkg/utils"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	reportDashboard = "dashboard"
	reportPie       = "pie"
	reportBar       = "bar"
	reportLine      = "line"
)

// Aggregator builds the admin dashboard reports from the current state of
// the product, order and user collections. Dashboard, bar and line reports
// are cached for cfg.ReportTTL; the pie report is always recomputed.
type Aggregator struct {
	products ports.ProductRepository
	orders   ports.OrderRepository
	users    ports.UserRepository
	accessor *cache.Accessor
	clock    clockwork.Clock
	cfg      *config.DomainConfig
	logger   *zap.Logger
	metrics  observability.Metrics
	tracer   *observability.Tracer
}

// NewAggregator creates a report aggregator.
func NewAggregator(
	products ports.ProductRepository,
	orders ports.OrderRepository,
	users ports.UserRepository,
	accessor *cache.Accessor,
	clock clockwork.Clock,
	cfg *config.DomainConfig,
	logger *zap.Logger,
	metrics observability.Metrics,
	tracer *observability.Tracer,
) *Aggregator {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Aggregator{
		products: products,
		orders:   orders,
		users:    users,
		accessor: accessor,
		clock:    clock,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}
}

// Dashboard returns category, user, order and revenue stats for the current
// and previous calendar month, plus the latest orders.
func (a *Aggregator) Dashboard(ctx context.Context) (*DashboardStats, error) {
	return cache.Through(ctx, a.accessor, cache.DashboardKey, a.cfg.ReportTTL, func(ctx context.Context) (*DashboardStats, error) {
		return build(ctx, a, reportDashboard, a.buildDashboard)
	})
}

// Pie returns the categorical breakdowns.
func (a *Aggregator) Pie(ctx context.Context) (*PieCharts, error) {
	return build(ctx, a, reportPie, a.buildPie)
}

// Bar returns monthly order, user and product counts for the past twelve months.
func (a *Aggregator) Bar(ctx context.Context) (*BarCharts, error) {
	return cache.Through(ctx, a.accessor, cache.BarChartsKey, a.cfg.ReportTTL, func(ctx context.Context) (*BarCharts, error) {
		return build(ctx, a, reportBar, a.buildBar)
	})
}

// Line returns monthly series for the past year, including discounts.
func (a *Aggregator) Line(ctx context.Context) (*LineCharts, error) {
	return cache.Through(ctx, a.accessor, cache.LineChartsKey, a.cfg.ReportTTL, func(ctx context.Context) (*LineCharts, error) {
		return build(ctx, a, reportLine, a.buildLine)
	})
}

// build runs fn under a trace segment, records its duration and turns any
// failure into AGGREGATION_FAILURE.
func build[T any](ctx context.Context, a *Aggregator, report string, fn func(context.Context, time.Time) (*T, error)) (*T, error) {
	start := time.Now()
	var out *T
	err := a.tracer.TraceFunction(ctx, "analytics."+report, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx, a.clock.Now())
		return err
	})
	a.metrics.RecordReport(report, time.Since(start), err)

	if err != nil {
		a.logger.Error("Failed to build report", zap.String("report", report), zap.Error(err))
		return nil, pkgerrors.NewAggregationError(report, err)
	}
	a.logger.Debug("Report built", zap.String("report", report), zap.Duration("duration", time.Since(start)))
	return out, nil
}

func (a *Aggregator) buildDashboard(ctx context.Context, now time.Time) (*DashboardStats, error) {
	thisMonth := ports.TimeRange{Start: utils.StartOfMonth(now), End: utils.EndOfMonth(now)}
	prev := now.AddDate(0, 0, -now.Day())
	lastMonth := ports.TimeRange{Start: utils.StartOfMonth(prev), End: utils.EndOfMonth(prev)}

	var (
		products                       []*entities.Product
		orders, ordersThis, ordersPrev []*entities.Order
		latest                         []*entities.Order
		users, usersThis, usersPrev    []*entities.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { products, err = a.products.List(gctx); return })
	g.Go(func() (err error) { orders, err = a.orders.List(gctx); return })
	g.Go(func() (err error) { ordersThis, err = a.orders.CreatedBetween(gctx, thisMonth); return })
	g.Go(func() (err error) { ordersPrev, err = a.orders.CreatedBetween(gctx, lastMonth); return })
	g.Go(func() (err error) { latest, err = a.orders.Latest(gctx, a.cfg.LatestTransactionsLimit); return })
	g.Go(func() (err error) { users, err = a.users.List(gctx); return })
	g.Go(func() (err error) { usersThis, err = a.users.CreatedBetween(gctx, thisMonth); return })
	g.Go(func() (err error) { usersPrev, err = a.users.CreatedBetween(gctx, lastMonth); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	male, female := Genders(users)
	revenueThis, revenuePrev := Revenue(ordersThis), Revenue(ordersPrev)

	return &DashboardStats{
		Categories: CategoryBreakdown(products, orders),
		Users: UserStats{
			Male:             male,
			Female:           female,
			ThisMonth:        PeriodCount{Count: len(usersThis)},
			LastMonth:        PeriodCount{Count: len(usersPrev)},
			PercentageChange: PercentChange(float64(len(usersThis)), float64(len(usersPrev))),
		},
		Orders: OrderStats{
			ThisMonth:        PeriodCount{Count: len(ordersThis)},
			LastMonth:        PeriodCount{Count: len(ordersPrev)},
			PercentageChange: PercentChange(float64(len(ordersThis)), float64(len(ordersPrev))),
		},
		Revenue: RevenueStats{
			ThisMonth:        PeriodTotal{Total: revenueThis},
			LastMonth:        PeriodTotal{Total: revenuePrev},
			PercentageChange: PercentChange(revenueThis, revenuePrev),
		},
		LatestTransactions: Transactions(latest),
	}, nil
}

func (a *Aggregator) buildPie(ctx context.Context, now time.Time) (*PieCharts, error) {
	var (
		products []*entities.Product
		orders   []*entities.Order
		users    []*entities.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { products, err = a.products.List(gctx); return })
	g.Go(func() (err error) { orders, err = a.orders.List(gctx); return })
	g.Go(func() (err error) { users, err = a.users.List(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &PieCharts{
		OrderFulfillment:    Fulfillment(orders),
		ProductCategories:   CategoryShares(products),
		StockAvailability:   Stock(products),
		RevenueDistribution: RevenueBreakdown(orders, a.cfg.MarketingCostRate),
		UsersAgeGroup:       Demographics(a.cfg, users, now),
		AdminCustomer:       Roles(users),
	}, nil
}

func (a *Aggregator) buildBar(ctx context.Context, now time.Time) (*BarCharts, error) {
	window := ports.TimeRange{Start: now.AddDate(0, -a.cfg.SeriesMonths, 0), End: now}

	products, orders, users, err := a.createdBetween(ctx, window)
	if err != nil {
		return nil, err
	}

	return &BarCharts{
		OrdersByMonth:   OrdersByMonth(orders),
		UsersByMonth:    UsersByMonth(users),
		ProductsByMonth: ProductsByMonth(products),
	}, nil
}

func (a *Aggregator) buildLine(ctx context.Context, now time.Time) (*LineCharts, error) {
	window := ports.TimeRange{
		Start: utils.StartOfDay(now.AddDate(0, -a.cfg.SeriesMonths, 0)),
		End:   utils.EndOfDay(now),
	}

	products, orders, users, err := a.createdBetween(ctx, window)
	if err != nil {
		return nil, err
	}

	return &LineCharts{
		OrdersByMonth:    SalesByMonth(orders),
		UsersByMonth:     UsersByMonth(users),
		ProductsByMonth:  ProductsByMonth(products),
		DiscountsByMonth: DiscountsByMonth(orders),
	}, nil
}

func (a *Aggregator) createdBetween(ctx context.Context, window ports.TimeRange) ([]*entities.Product, []*entities.Order, []*entities.User, error) {
	var (
		products []*entities.Product
		orders   []*entities.Order
		users    []*entities.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { products, err = a.products.CreatedBetween(gctx, window); return })
	g.Go(func() (err error) { orders, err = a.orders.CreatedBetween(gctx, window); return })
	g.Go(func() (err error) { users, err = a.users.CreatedBetween(gctx, window); return })
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return products, orders, users, nil
}
