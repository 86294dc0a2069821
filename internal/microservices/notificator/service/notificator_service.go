package service

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"

	"walkup-counter/internal/common/logger"
	"walkup-counter/internal/connections/rabbitmq"
	"walkup-counter/internal/domain"
)

var ErrBadMessage = errors.New("bad notification")

// Consumer is the part of the RabbitMQ client the notificator uses.
type Consumer interface {
	Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error)
}

type NotificatorService struct {
	consumer Consumer
	lg       *logger.Logger
}

func NewNotificatorService(c Consumer, lg *logger.Logger) *NotificatorService {
	if lg == nil {
		lg = logger.Nop()
	}
	return &NotificatorService{consumer: c, lg: lg}
}

// Notify consumes order-ready messages until ctx is done or the channel
// closes, announcing each one.
func (ns *NotificatorService) Notify(ctx context.Context) error {
	msgs, err := ns.consumer.Consume(rabbitmq.NotificationsQueue, "notificator", 10)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			ns.handle(d)
		}
	}
}

func (ns *NotificatorService) handle(d amqp.Delivery) {
	msg, err := Decode(d.Body)
	if err != nil {
		ns.lg.Error("notification_rejected", err, map[string]any{"message_id": d.MessageId})
		_ = d.Nack(false, false)
		return
	}
	ns.lg.Info("order_ready", map[string]any{
		"customer_id": msg.CustomerID,
		"items":       msg.Items,
		"result":      msg.Result,
		"message_id":  d.MessageId,
	})
	_ = d.Ack(false)
}

func Decode(body []byte) (domain.OrderReadyMessage, error) {
	var msg domain.OrderReadyMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return msg, errors.Join(ErrBadMessage, err)
	}
	if msg.CustomerID <= 0 {
		return msg, ErrBadMessage
	}
	return msg, nil
}
