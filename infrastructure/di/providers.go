package di

import (
	"context"
	"fmt"
	"time"

	"storeadmin/application/analytics"
	"storeadmin/application/cache"
	"storeadmin/application/commands"
	"storeadmin/application/commands/bus"
	commandhandlers "storeadmin/application/commands/handlers"
	"storeadmin/application/ports"
	"storeadmin/application/queries"
	querybus "storeadmin/application/queries/bus"
	queryhandlers "storeadmin/application/queries/handlers"
	domainconfig "storeadmin/domain/config"
	"storeadmin/infrastructure/cachestore"
	"storeadmin/infrastructure/config"
	"storeadmin/infrastructure/messaging/eventbridge"
	"storeadmin/infrastructure/messaging/local"
	"storeadmin/infrastructure/persistence/dynamodb"
	"storeadmin/infrastructure/persistence/memory"
	"storeadmin/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/google/wire"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// slowQueryThreshold marks query bus calls worth a warning
const slowQueryThreshold = 500 * time.Millisecond

// recentEventsKept bounds the local publisher's history
const recentEventsKept = 100

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideClock,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideTableConfig,
	ProvideProductRepository,
	ProvideOrderRepository,
	ProvideUserRepository,
	ProvideReviewRepository,
	ProvideCouponRepository,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideTracer,
	ProvideCacheStore,
	ProvideLocker,
	ProvideAccessor,
	ProvideDirector,
	ProvideAggregator,
	wire.Bind(new(commandhandlers.Invalidator), new(*cache.Director)),
	ProvideProductHandler,
	ProvideOrderHandler,
	ProvideReviewHandler,
	ProvideUserHandler,
	ProvideCouponHandler,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zcfg.Build()
}

func ProvideDomainConfig() *domainconfig.DomainConfig {
	return domainconfig.DefaultDomainConfig()
}

func ProvideClock() clockwork.Clock {
	return clockwork.NewRealClock()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

func ProvideTableConfig(cfg *config.Config) dynamodb.TableConfig {
	return dynamodb.TableConfig{
		Table:         cfg.DynamoDBTable,
		EntityIndex:   cfg.EntityIndex,
		RelationIndex: cfg.RelationIndex,
	}
}

func useDynamoDB(cfg *config.Config) bool {
	return cfg.StoreBackend == config.BackendDynamoDB
}

// ProvideProductRepository creates a product repository for the configured backend
func ProvideProductRepository(cfg *config.Config, client *awsdynamodb.Client, tables dynamodb.TableConfig, logger *zap.Logger) ports.ProductRepository {
	if useDynamoDB(cfg) {
		return dynamodb.NewProductRepository(client, tables, logger)
	}
	return memory.NewProductRepository()
}

func ProvideOrderRepository(cfg *config.Config, client *awsdynamodb.Client, tables dynamodb.TableConfig, logger *zap.Logger) ports.OrderRepository {
	if useDynamoDB(cfg) {
		return dynamodb.NewOrderRepository(client, tables, logger)
	}
	return memory.NewOrderRepository()
}

func ProvideUserRepository(cfg *config.Config, client *awsdynamodb.Client, tables dynamodb.TableConfig, logger *zap.Logger) ports.UserRepository {
	if useDynamoDB(cfg) {
		return dynamodb.NewUserRepository(client, tables, logger)
	}
	return memory.NewUserRepository()
}

func ProvideReviewRepository(cfg *config.Config, client *awsdynamodb.Client, tables dynamodb.TableConfig, logger *zap.Logger) ports.ReviewRepository {
	if useDynamoDB(cfg) {
		return dynamodb.NewReviewRepository(client, tables, logger)
	}
	return memory.NewReviewRepository()
}

func ProvideCouponRepository(cfg *config.Config, client *awsdynamodb.Client, tables dynamodb.TableConfig, logger *zap.Logger) ports.CouponRepository {
	if useDynamoDB(cfg) {
		return dynamodb.NewCouponRepository(client, tables, logger)
	}
	return memory.NewCouponRepository()
}

// ProvideEventPublisher publishes to EventBridge alongside the DynamoDB
// store and logs locally otherwise.
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if useDynamoDB(cfg) && cfg.EventBusName != "" {
		return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
	}
	return local.NewPublisher(recentEventsKept, logger)
}

// ProvideMetrics selects the metrics backend
func ProvideMetrics(cfg *config.Config, client *awscloudwatch.Client) observability.Metrics {
	switch cfg.MetricsBackend {
	case config.BackendCloudWatch:
		return observability.NewCloudWatchMetrics(client, cfg.MetricsNamespace)
	case config.BackendPrometheus:
		return observability.NewPrometheusMetrics(cfg.MetricsNamespace)
	default:
		return observability.NoopMetrics{}
	}
}

func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("storeadmin", cfg.EnableTracing)
}

// ProvideCacheStore creates the cache backend. The redis store pings on
// construction so a bad URL fails startup.
func ProvideCacheStore(ctx context.Context, cfg *config.Config, clock clockwork.Clock, logger *zap.Logger) (ports.Cache, error) {
	switch cfg.CacheBackend {
	case config.BackendRedis:
		store, err := cachestore.NewRedisStore(ctx, cachestore.RedisOptions{
			URL:     cfg.RedisURL,
			Prefix:  cfg.CachePrefix,
			Breaker: cachestore.DefaultBreakerConfig(),
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis cache: %w", err)
		}
		return store, nil
	case config.BackendMemory:
		return cachestore.NewMemoryStore(clock, cfg.CacheSweepInterval), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// ProvideLocker serializes stock reservation. Leases live in the DynamoDB
// table so they hold across Lambda instances.
func ProvideLocker(cfg *config.Config, client *awsdynamodb.Client, clock clockwork.Clock, logger *zap.Logger) ports.Locker {
	if useDynamoDB(cfg) {
		return dynamodb.NewDistributedLock(client, cfg.DynamoDBTable, dynamodb.DefaultLockLease, dynamodb.DefaultLockWait, clock, logger)
	}
	return memory.NewLocker()
}

func ProvideAccessor(store ports.Cache, logger *zap.Logger, metrics observability.Metrics, tracer *observability.Tracer) *cache.Accessor {
	return cache.NewAccessor(store, logger, metrics, tracer)
}

func ProvideDirector(
	store ports.Cache,
	products ports.ProductRepository,
	orders ports.OrderRepository,
	logger *zap.Logger,
	metrics observability.Metrics,
	tracer *observability.Tracer,
) *cache.Director {
	return cache.NewDirector(store, products, orders, logger, metrics, tracer)
}

func ProvideAggregator(
	products ports.ProductRepository,
	orders ports.OrderRepository,
	users ports.UserRepository,
	accessor *cache.Accessor,
	clock clockwork.Clock,
	cfg *domainconfig.DomainConfig,
	logger *zap.Logger,
	metrics observability.Metrics,
	tracer *observability.Tracer,
) *analytics.Aggregator {
	return analytics.NewAggregator(products, orders, users, accessor, clock, cfg, logger, metrics, tracer)
}

func ProvideProductHandler(
	products ports.ProductRepository,
	invalidator commandhandlers.Invalidator,
	publisher ports.EventPublisher,
	clock clockwork.Clock,
	cfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *commandhandlers.ProductHandler {
	return commandhandlers.NewProductHandler(products, invalidator, publisher, clock, cfg, logger)
}

func ProvideOrderHandler(
	orders ports.OrderRepository,
	products ports.ProductRepository,
	locker ports.Locker,
	invalidator commandhandlers.Invalidator,
	publisher ports.EventPublisher,
	clock clockwork.Clock,
	logger *zap.Logger,
) *commandhandlers.OrderHandler {
	return commandhandlers.NewOrderHandler(orders, products, locker, invalidator, publisher, clock, logger)
}

func ProvideReviewHandler(
	reviews ports.ReviewRepository,
	products ports.ProductRepository,
	users ports.UserRepository,
	invalidator commandhandlers.Invalidator,
	publisher ports.EventPublisher,
	clock clockwork.Clock,
	cfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *commandhandlers.ReviewHandler {
	return commandhandlers.NewReviewHandler(reviews, products, users, invalidator, publisher, clock, cfg, logger)
}

func ProvideUserHandler(
	users ports.UserRepository,
	invalidator commandhandlers.Invalidator,
	publisher ports.EventPublisher,
	clock clockwork.Clock,
	logger *zap.Logger,
) *commandhandlers.UserHandler {
	return commandhandlers.NewUserHandler(users, invalidator, publisher, clock, logger)
}

func ProvideCouponHandler(
	coupons ports.CouponRepository,
	publisher ports.EventPublisher,
	clock clockwork.Clock,
	cfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *commandhandlers.CouponHandler {
	return commandhandlers.NewCouponHandler(coupons, publisher, clock, cfg, logger)
}

type commandRegistration struct {
	command bus.Command
	handler bus.CommandHandler
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	products *commandhandlers.ProductHandler,
	orders *commandhandlers.OrderHandler,
	reviews *commandhandlers.ReviewHandler,
	users *commandhandlers.UserHandler,
	coupons *commandhandlers.CouponHandler,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger))

	registrations := []commandRegistration{
		{commands.CreateProductCommand{}, bus.HandlerFor(products.CreateProduct)},
		{commands.UpdateProductCommand{}, bus.HandlerFor(products.UpdateProduct)},
		{commands.DeleteProductCommand{}, bus.HandlerFor(products.DeleteProduct)},

		{commands.PlaceOrderCommand{}, bus.HandlerFor(orders.PlaceOrder)},
		{commands.ProcessOrderCommand{}, bus.HandlerFor(orders.ProcessOrder)},
		{commands.DeleteOrderCommand{}, bus.HandlerFor(orders.DeleteOrder)},

		{commands.SaveReviewCommand{}, bus.HandlerFor(reviews.SaveReview)},
		{commands.DeleteReviewCommand{}, bus.HandlerFor(reviews.DeleteReview)},

		{commands.RegisterUserCommand{}, bus.HandlerFor(users.RegisterUser)},
		{commands.DeleteUserCommand{}, bus.HandlerFor(users.DeleteUser)},

		{commands.CreateCouponCommand{}, bus.HandlerFor(coupons.CreateCoupon)},
		{commands.UpdateCouponCommand{}, bus.HandlerFor(coupons.UpdateCoupon)},
		{commands.DeleteCouponCommand{}, bus.HandlerFor(coupons.DeleteCoupon)},
	}
	for _, r := range registrations {
		if err := commandBus.Register(r.command, r.handler); err != nil {
			return nil, err
		}
	}

	return commandBus, nil
}

type queryRegistration struct {
	query   querybus.Query
	handler querybus.QueryHandler
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	products ports.ProductRepository,
	orders ports.OrderRepository,
	users ports.UserRepository,
	reviews ports.ReviewRepository,
	coupons ports.CouponRepository,
	accessor *cache.Accessor,
	aggregator *analytics.Aggregator,
	clock clockwork.Clock,
	cfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(querybus.LoggingMiddleware(logger, slowQueryThreshold))

	catalog := queryhandlers.NewCatalogHandler(products, reviews, accessor, cfg, logger)
	orderQueries := queryhandlers.NewOrderHandler(orders, accessor)
	userQueries := queryhandlers.NewUserHandler(users, accessor)
	couponQueries := queryhandlers.NewCouponHandler(coupons, clock)
	dashboard := queryhandlers.NewDashboardHandler(aggregator)

	registrations := []queryRegistration{
		{queries.GetLatestProductsQuery{}, querybus.HandlerFor(catalog.LatestProducts)},
		{queries.GetCategoriesQuery{}, querybus.HandlerFor(catalog.Categories)},
		{queries.GetAdminProductsQuery{}, querybus.HandlerFor(catalog.AdminProducts)},
		{queries.GetProductQuery{}, querybus.HandlerFor(catalog.Product)},
		{queries.SearchProductsQuery{}, querybus.HandlerFor(catalog.Search)},
		{queries.GetProductReviewsQuery{}, querybus.HandlerFor(catalog.Reviews)},

		{queries.GetMyOrdersQuery{}, querybus.HandlerFor(orderQueries.MyOrders)},
		{queries.GetAllOrdersQuery{}, querybus.HandlerFor(orderQueries.AllOrders)},
		{queries.GetOrderQuery{}, querybus.HandlerFor(orderQueries.Order)},

		{queries.GetAllUsersQuery{}, querybus.HandlerFor(userQueries.AllUsers)},
		{queries.GetUserQuery{}, querybus.HandlerFor(userQueries.User)},

		{queries.ListCouponsQuery{}, querybus.HandlerFor(couponQueries.List)},
		{queries.GetCouponQuery{}, querybus.HandlerFor(couponQueries.Coupon)},
		{queries.ApplyCouponQuery{}, querybus.HandlerFor(couponQueries.Apply)},

		{queries.GetDashboardStatsQuery{}, querybus.HandlerFor(dashboard.Stats)},
		{queries.GetPieChartsQuery{}, querybus.HandlerFor(dashboard.Pie)},
		{queries.GetBarChartsQuery{}, querybus.HandlerFor(dashboard.Bar)},
		{queries.GetLineChartsQuery{}, querybus.HandlerFor(dashboard.Line)},
	}
	for _, r := range registrations {
		if err := queryBus.Register(r.query, r.handler); err != nil {
			return nil, err
		}
	}

	return queryBus, nil
}
