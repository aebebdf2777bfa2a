package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const publishTimeout = 10 * time.Second

// Channel is the subset of *amqp.Channel the broker publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// BrokerPublisher forwards bus events to a RabbitMQ topic exchange, using the
// event type as routing key.
type BrokerPublisher struct {
	channel  Channel
	exchange string
	logger   *zerolog.Logger
}

// DialBroker connects to RabbitMQ and returns a publisher bound to exchange.
// The returned close function releases the connection.
func DialBroker(url, exchange string, logger *zerolog.Logger) (*BrokerPublisher, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	pub, err := NewBrokerPublisher(ch, exchange, logger)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	closeFn := func() error {
		_ = pub.channel.Close()
		return conn.Close()
	}
	return pub, closeFn, nil
}

// NewBrokerPublisher declares a durable topic exchange on ch.
func NewBrokerPublisher(ch Channel, exchange string, logger *zerolog.Logger) (*BrokerPublisher, error) {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &BrokerPublisher{channel: ch, exchange: exchange, logger: logger}, nil
}

// Handle is an EventHandler that publishes the event to the exchange.
func (p *BrokerPublisher) Handle(event *Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	correlationID := uuid.NewString()
	err := p.channel.PublishWithContext(ctx, p.exchange, event.Type, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: correlationID,
		DeliveryMode:  amqp.Persistent,
		Timestamp:     event.CreatedAt,
		Body:          event.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	if p.logger != nil {
		p.logger.Debug().Str("event", event.Type).Str("correlation_id", correlationID).Msg("event forwarded to broker")
	}
	return nil
}

// Attach subscribes the publisher to every booking event type on bus.
func (p *BrokerPublisher) Attach(bus *EventBus) {
	for _, t := range BookingTypes {
		bus.Subscribe(t, p.Handle)
	}
}
