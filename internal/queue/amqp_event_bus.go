package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"league-core/internal/model"
	"league-core/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPEventBus 以 topic exchange 發布，routing key 即事件種類
type AMQPEventBus struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	queue    string
	log      *zap.Logger
}

var leagueRoutingKeys = []string{
	string(model.LeagueEventTicketSold),
	string(model.LeagueEventTicketRefunded),
	string(model.LeagueEventMatchCompleted),
}

func NewAMQPEventBus(url, exchange, queueName string) (*AMQPEventBus, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	bus := &AMQPEventBus{conn: conn, ch: ch, exchange: exchange, log: logger.WithComponent("mq")}
	if err := bus.declare(queueName); err != nil {
		_ = bus.Close()
		return nil, err
	}
	return bus, nil
}

func (b *AMQPEventBus) declare(queueName string) error {
	if err := b.ch.ExchangeDeclare(b.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	q, err := b.ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	for _, rk := range leagueRoutingKeys {
		if err := b.ch.QueueBind(q.Name, rk, b.exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s: %w", rk, err)
		}
	}
	b.queue = q.Name
	return nil
}

func (b *AMQPEventBus) Publish(ctx context.Context, event *model.LeagueEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal league event: %w", err)
	}
	return b.ch.PublishWithContext(ctx, b.exchange, event.RoutingKey(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	})
}

func (b *AMQPEventBus) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	msgs, err := b.ch.ConsumeWithContext(ctx, b.queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				d, ok := b.toDelivery(msg)
				if !ok {
					continue
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// toDelivery 無法解析的訊息直接 Nack 丟棄
func (b *AMQPEventBus) toDelivery(msg amqp.Delivery) (Delivery, bool) {
	var event model.LeagueEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		b.log.Warn("unmarshal league event failed", zap.String("message_id", msg.MessageId), zap.Error(err))
		_ = msg.Nack(false, false)
		return Delivery{}, false
	}
	return Delivery{
		Data: &event,
		Ack: func() {
			if err := msg.Ack(false); err != nil {
				b.log.Error("amqp ack failed", zap.String("message_id", msg.MessageId), zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			if err := msg.Nack(false, requeue); err != nil {
				b.log.Error("amqp nack failed", zap.String("message_id", msg.MessageId), zap.Error(err))
			}
		},
	}, true
}

func (b *AMQPEventBus) Close() error {
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
