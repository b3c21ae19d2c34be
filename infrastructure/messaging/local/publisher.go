// Package local provides an in-process event publisher for development.
package local

import (
	"context"
	"sync"

	"storeadmin/domain/events"

	"go.uber.org/zap"
)

// Publisher logs every event and keeps the most recent ones in memory.
type Publisher struct {
	mu     sync.Mutex
	recent []events.DomainEvent
	keep   int
	logger *zap.Logger
}

func NewPublisher(keep int, logger *zap.Logger) *Publisher {
	return &Publisher{keep: keep, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

func (p *Publisher) PublishBatch(_ context.Context, domainEvents []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, event := range domainEvents {
		p.logger.Info("Domain event",
			zap.String("eventType", event.GetEventType()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Time("timestamp", event.GetTimestamp()),
		)
		p.recent = append(p.recent, event)
	}
	if p.keep > 0 && len(p.recent) > p.keep {
		p.recent = append([]events.DomainEvent(nil), p.recent[len(p.recent)-p.keep:]...)
	}
	return nil
}

// Recent returns the retained events, oldest first.
func (p *Publisher) Recent() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.DomainEvent(nil), p.recent...)
}
