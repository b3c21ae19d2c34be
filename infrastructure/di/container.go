package di

import (
	"storeadmin/application/analytics"
	"storeadmin/application/cache"
	"storeadmin/application/commands/bus"
	"storeadmin/application/ports"
	querybus "storeadmin/application/queries/bus"
	domainconfig "storeadmin/domain/config"
	"storeadmin/infrastructure/config"
	"storeadmin/pkg/observability"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	DomainConfig *domainconfig.DomainConfig
	Logger       *zap.Logger
	Clock        clockwork.Clock

	Cache      ports.Cache
	Accessor   *cache.Accessor
	Director   *cache.Director
	Aggregator *analytics.Aggregator

	Products ports.ProductRepository
	Orders   ports.OrderRepository
	Users    ports.UserRepository
	Reviews  ports.ReviewRepository
	Coupons  ports.CouponRepository

	Publisher  ports.EventPublisher
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
	Metrics    observability.Metrics
	Tracer     *observability.Tracer
}

// Close stops the cache store and flushes the logger.
func (c *Container) Close() error {
	err := c.Cache.Close()
	_ = c.Logger.Sync()
	return err
}
