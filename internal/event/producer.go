// Package event publishes cart domain events.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// Topics for cart events.
var (
	TopicCartUpdated    = pkgkafka.Topic("cart", "updated")
	TopicCartCleared    = pkgkafka.Topic("cart", "cleared")
	TopicCartCheckedOut = pkgkafka.Topic("cart", "checked_out")
)

// AggregateTypeCart is the aggregate type of cart events.
const AggregateTypeCart = "cart"

// SourceStorefront identifies events emitted by this service.
const SourceStorefront = "storefront"

// Publisher sends an event to a topic. *pkgkafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// CartData is the payload of every cart event.
type CartData struct {
	SessionID string            `json:"session_id"`
	Items     []domain.LineItem `json:"items"`
	Summary   domain.Summary    `json:"summary"`
}

// Producer turns cart changes into Kafka events. It implements cart.Listener.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a cart event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// OnCartChange publishes the change to the topic matching its kind.
func (p *Producer) OnCartChange(ctx context.Context, change cart.Change) error {
	topic := topicFor(change.Kind)

	data := CartData{
		SessionID: change.Session,
		Items:     change.Cart.Items,
		Summary:   change.Cart.Summary(),
	}
	if data.Items == nil {
		data.Items = []domain.LineItem{}
	}

	evt, err := pkgkafka.NewEvent("cart."+string(change.Kind), change.Session, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart event: %w", err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "cart event published",
		slog.String("topic", topic),
		slog.String("session_id", change.Session),
		slog.String("event_id", evt.EventID),
	)
	return nil
}

func topicFor(kind cart.ChangeKind) string {
	switch kind {
	case cart.ChangeCleared:
		return TopicCartCleared
	case cart.ChangeCheckedOut:
		return TopicCartCheckedOut
	default:
		return TopicCartUpdated
	}
}
