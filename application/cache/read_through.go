package cache

import (
	"context"
	"encoding/json"
	"time"

	"storeadmin/application/ports"
	pkgerrors "storeadmin/pkg/errors"
	"storeadmin/pkg/observability"

	"go.uber.org/zap"
)

// Loader produces the authoritative value for a key on a cache miss.
type Loader[T any] func(ctx context.Context) (T, error)

// Accessor serves compute-if-absent reads on top of a Cache. Values are
// stored as JSON. Concurrent misses on one key are not coalesced; each
// caller runs its own loader and the last Set wins.
type Accessor struct {
	store   ports.Cache
	logger  *zap.Logger
	metrics observability.Metrics
	tracer  *observability.Tracer
}

// NewAccessor creates a read-through accessor over store.
func NewAccessor(store ports.Cache, logger *zap.Logger, metrics observability.Metrics, tracer *observability.Tracer) *Accessor {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Accessor{store: store, logger: logger, metrics: metrics, tracer: tracer}
}

// Through returns the cached value for key, or runs load, stores its result
// under key for ttl and returns it. A zero ttl stores without expiry.
// Loader errors are returned unchanged and nothing is written. An entry
// that no longer decodes into T is treated as a miss and overwritten.
func Through[T any](ctx context.Context, a *Accessor, key Key, ttl time.Duration, load Loader[T]) (T, error) {
	var zero T

	raw, found, err := a.store.Get(ctx, key.String())
	if err != nil {
		a.metrics.RecordCacheError("get")
		return zero, cacheUnavailable("get", err)
	}

	if found {
		var cached T
		decodeErr := json.Unmarshal(raw, &cached)
		if decodeErr == nil {
			a.metrics.RecordCacheLookup(key.Family(), true)
			a.logger.Debug("Cache hit", zap.String("key", key.String()))
			return cached, nil
		}
		a.logger.Warn("Discarding undecodable cache entry",
			zap.String("key", key.String()),
			zap.Error(decodeErr),
		)
	}

	a.metrics.RecordCacheLookup(key.Family(), false)
	a.logger.Debug("Cache miss", zap.String("key", key.String()))

	var value T
	err = a.tracer.TraceFunction(ctx, "cache.load."+key.Family(), func(ctx context.Context) error {
		var loadErr error
		value, loadErr = load(ctx)
		return loadErr
	})
	if err != nil {
		return zero, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return zero, pkgerrors.NewInternalError("failed to encode value for cache key " + key.String()).WithCause(err)
	}

	if err := a.store.Set(ctx, key.String(), encoded, ttl); err != nil {
		a.metrics.RecordCacheError("set")
		return zero, cacheUnavailable("set", err)
	}

	return value, nil
}

func cacheUnavailable(op string, err error) error {
	if pkgerrors.IsCacheUnavailable(err) {
		return err
	}
	return pkgerrors.NewCacheUnavailableError(op, err)
}
