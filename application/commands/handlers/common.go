package handlers

import (
	"context"

	"storeadmin/application/cache"
	"storeadmin/application/ports"
	"storeadmin/domain/events"

	"go.uber.org/zap"
)

// Invalidator evicts cache entries made stale by a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, sig cache.Signal) error
	Evict(ctx context.Context, keys ...cache.Key) error
}

// publish sends event on a best-effort basis. The mutation has already been
// stored, so a publishing failure is logged and not returned.
func publish(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, event events.DomainEvent) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("event_type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}
