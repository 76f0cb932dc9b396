package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"orders-api/config"
	"orders-api/models"
)

// RabbitMQ publishes order lifecycle events to a durable topic exchange.
type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Cfg     *config.Config

	mu sync.Mutex
}

func NewRabbitMQ(cfg *config.Config) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &RabbitMQ{
		Conn:    conn,
		Channel: ch,
		Cfg:     cfg,
	}, nil
}

// SetupQueues declares the events exchange and the audit queue bound to every
// routing key on it.
func (r *RabbitMQ) SetupQueues() error {
	if err := r.Channel.ExchangeDeclare(
		r.Cfg.OrderExchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", r.Cfg.OrderExchange, err)
	}

	if _, err := r.Channel.QueueDeclare(
		r.Cfg.AuditQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-queue-type": "classic"},
	); err != nil {
		return fmt.Errorf("declare queue %s: %w", r.Cfg.AuditQueue, err)
	}

	if err := r.Channel.QueueBind(r.Cfg.AuditQueue, "#", r.Cfg.OrderExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", r.Cfg.AuditQueue, err)
	}
	return nil
}

func (r *RabbitMQ) PublishOrderEvent(ctx context.Context, event models.OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		ContentType:  "application/json",
		Type:         event.RoutingKey(),
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishing.
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Channel.PublishWithContext(ctx,
		r.Cfg.OrderExchange,
		event.RoutingKey(),
		false, // mandatory
		false, // immediate
		msg,
	)
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		_ = r.Channel.Close()
	}
	if r.Conn != nil {
		_ = r.Conn.Close()
	}
}
