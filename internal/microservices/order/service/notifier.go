package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"walkup-counter/internal/connections/rabbitmq"
	"walkup-counter/internal/domain"
)

// Notifier announces finished orders to whoever listens.
type Notifier interface {
	OrderReady(ctx context.Context, r domain.Receipt) error
}

// Publisher is the part of the RabbitMQ client the notifier uses.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
}

type RabbitNotifier struct {
	pub Publisher
}

func NewRabbitNotifier(pub Publisher) *RabbitNotifier {
	return &RabbitNotifier{pub: pub}
}

func (n *RabbitNotifier) OrderReady(ctx context.Context, r domain.Receipt) error {
	body, err := json.Marshal(domain.OrderReadyMessage{
		CustomerID: r.CustomerID,
		Items:      r.ItemNames(),
		Result:     r.Result,
		Timestamp:  r.PreparedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order ready: %w", err)
	}

	return n.pub.Publish(ctx, rabbitmq.NotificationsExchange, "", amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		MessageId:     uuid.NewString(),
		CorrelationId: fmt.Sprintf("customer-%d", r.CustomerID),
		Timestamp:     time.Now().UTC(),
		Headers:       amqp.Table{"x-source": "counter"},
		Body:          body,
	})
}

type NopNotifier struct{}

func (NopNotifier) OrderReady(context.Context, domain.Receipt) error { return nil }
