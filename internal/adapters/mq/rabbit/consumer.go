package rabbit

import (
	"context"
	"encoding/json"
	"fmt"

	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/events"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler procesa un evento; si devuelve error el mensaje se descarta (nack sin requeue).
type Handler func(ctx context.Context, e events.Event) error

type Consumer struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	queue    string
	log      logger.Logger
	prefetch int
}

// NewConsumer declara exchange + cola durable y la bindea a todas las keys.
func NewConsumer(url, exchange, queue string, keys []string, log logger.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	for _, rk := range keys {
		if err := ch.QueueBind(q.Name, rk, exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("bind %s: %w", rk, err)
		}
	}
	prefetch := 8
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}
	return &Consumer{conn: conn, ch: ch, queue: q.Name, log: log, prefetch: prefetch}, nil
}

// Run consume hasta que ctx se cancele o se cierre el canal.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("rabbitmq: deliveries channel closed")
			}
			c.handle(ctx, d, h)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery, h Handler) {
	var e events.Event
	if err := json.Unmarshal(d.Body, &e); err != nil {
		c.log.Warn("discarding malformed event", map[string]any{"error": err, "routing_key": d.RoutingKey})
		_ = d.Nack(false, false)
		return
	}
	if err := h(ctx, e); err != nil {
		c.log.Error("event handler failed", map[string]any{"error": err, "event_id": e.ID, "type": string(e.Type)})
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (c *Consumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
