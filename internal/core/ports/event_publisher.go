package ports

import (
	"context"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// EventPublisher delivers a product event to the outside world (Kafka, log).
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ProductEvent) error
}

// EventQueue accepts events for asynchronous publishing. Enqueue never blocks
// the request path.
type EventQueue interface {
	Enqueue(event domain.ProductEvent)
}
