package messaging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// LogPublisher records product events in the application log. It is used when
// no Kafka brokers are configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.ProductEvent) error {
	p.log.Info().
		Str("type", string(event.Type)).
		Int64("product_id", event.ProductID).
		Str("name", event.Name).
		Int64("version", event.Version).
		Str("actor", event.Actor).
		Time("occurred_at", event.OccurredAt).
		Msg("product event")
	return nil
}
