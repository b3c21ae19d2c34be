package cache

import (
	"context"
	"strings"

	"storeadmin/application/ports"
	pkgerrors "storeadmin/pkg/errors"
	"storeadmin/pkg/observability"

	"go.uber.org/zap"
)

// Signal names the entity kinds a mutation touched. ProductID is required
// when both Review and Product are set.
type Signal struct {
	Product   bool
	Order     bool
	Admin     bool
	Review    bool
	ProductID string
}

// Empty reports whether the signal would evict nothing.
func (s Signal) Empty() bool {
	return !s.Product && !s.Order && !s.Admin
}

// String lists the set flags, e.g. "product,order".
func (s Signal) String() string {
	var kinds []string
	for _, k := range []struct {
		set  bool
		name string
	}{{s.Review && s.Product, "review"}, {s.Product, "product"}, {s.Order, "order"}, {s.Admin, "admin"}} {
		if k.set {
			kinds = append(kinds, k.name)
		}
	}
	return strings.Join(kinds, ",")
}

// ProductIDLister enumerates live products.
type ProductIDLister interface {
	ListIDs(ctx context.Context) ([]string, error)
}

// OrderRefLister enumerates live orders with their owners.
type OrderRefLister interface {
	ListRefs(ctx context.Context) ([]ports.OrderRef, error)
}

// Director turns invalidation signals into evictions. Product and order
// signals evict the detail key of every live entity, not just the one that
// changed.
type Director struct {
	store    ports.Cache
	products ProductIDLister
	orders   OrderRefLister
	logger   *zap.Logger
	metrics  observability.Metrics
	tracer   *observability.Tracer
}

// NewDirector creates an invalidation director.
func NewDirector(store ports.Cache, products ProductIDLister, orders OrderRefLister, logger *zap.Logger, metrics observability.Metrics, tracer *observability.Tracer) *Director {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Director{
		store:    store,
		products: products,
		orders:   orders,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}
}

// Invalidate evicts, in order: the product's review list, the product
// keys, the order keys and the admin rollups. Steps run one after another;
// a failed enumeration stops the run and returns ENUMERATION_FAILURE, with
// earlier steps already applied.
func (d *Director) Invalidate(ctx context.Context, sig Signal) error {
	if sig.Review && sig.Product && sig.ProductID == "" {
		return pkgerrors.NewValidationError("review invalidation needs a product id")
	}
	if sig.Empty() {
		return nil
	}

	evicted := 0
	err := d.tracer.TraceFunction(ctx, "cache.invalidate", func(ctx context.Context) error {
		d.tracer.AddAnnotation(ctx, "signal", sig.String())
		steps := []struct {
			enabled bool
			keys    func(context.Context) ([]Key, error)
		}{
			{sig.Review && sig.Product, func(context.Context) ([]Key, error) { return []Key{ReviewsKey(sig.ProductID)}, nil }},
			{sig.Product, d.productKeys},
			{sig.Order, d.orderKeys},
			{sig.Admin, func(context.Context) ([]Key, error) { return []Key{DashboardKey, AdminUsersKey}, nil }},
		}

		for _, step := range steps {
			if !step.enabled {
				continue
			}
			keys, err := step.keys(ctx)
			if err != nil {
				return err
			}
			if err := d.evict(ctx, keys); err != nil {
				return err
			}
			evicted += len(keys)
		}
		return nil
	})

	d.metrics.RecordInvalidation(evicted, err)
	if err != nil {
		d.logger.Error("Cache invalidation incomplete",
			zap.Bool("product", sig.Product),
			zap.Bool("order", sig.Order),
			zap.Bool("admin", sig.Admin),
			zap.Bool("review", sig.Review),
			zap.Int("evicted", evicted),
			zap.Error(err),
		)
		return err
	}

	d.logger.Info("Cache invalidated",
		zap.Bool("product", sig.Product),
		zap.Bool("order", sig.Order),
		zap.Bool("admin", sig.Admin),
		zap.Bool("review", sig.Review),
		zap.Int("evicted", evicted),
	)
	return nil
}

func (d *Director) productKeys(ctx context.Context) ([]Key, error) {
	ids, err := d.products.ListIDs(ctx)
	if err != nil {
		return nil, pkgerrors.NewEnumerationError("products", err)
	}

	keys := make([]Key, 0, len(ids)+3)
	keys = append(keys, LatestProductsKey, CategoriesKey, AdminProductsKey)
	for _, id := range ids {
		keys = append(keys, ProductKey(id))
	}
	return keys, nil
}

func (d *Director) orderKeys(ctx context.Context) ([]Key, error) {
	refs, err := d.orders.ListRefs(ctx)
	if err != nil {
		return nil, pkgerrors.NewEnumerationError("orders", err)
	}

	keys := make([]Key, 0, 2*len(refs)+1)
	keys = append(keys, AllOrdersKey)
	users := make(map[string]struct{})
	for _, ref := range refs {
		keys = append(keys, OrderKey(ref.ID))
		if ref.UserID == "" {
			continue
		}
		if _, seen := users[ref.UserID]; !seen {
			users[ref.UserID] = struct{}{}
			keys = append(keys, UserOrdersKey(ref.UserID))
		}
	}
	return keys, nil
}

func (d *Director) evict(ctx context.Context, keys []Key) error {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	if err := d.store.Delete(ctx, names...); err != nil {
		d.metrics.RecordCacheError("delete")
		return cacheUnavailable("delete", err)
	}
	return nil
}

// Evict removes specific keys. Deletions use it for the entity's own keys,
// which the enumeration in Invalidate no longer reaches once the entity is
// gone.
func (d *Director) Evict(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	if err := d.evict(ctx, keys); err != nil {
		return err
	}
	d.metrics.RecordInvalidation(len(keys), nil)
	d.logger.Debug("Cache keys evicted", zap.Int("evicted", len(keys)))
	return nil
}
