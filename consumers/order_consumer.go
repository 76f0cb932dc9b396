package consumers

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"orders-api/models"
)

// StartAuditConsumer logs every lifecycle event delivered to queue until ctx
// is cancelled or the channel closes.
func StartAuditConsumer(ctx context.Context, ch *amqp.Channel, queue string) error {
	msgs, err := ch.Consume(
		queue,
		"orders-api-audit", // consumer tag
		false,              // auto-ack
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer on %s: %w", queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			processAuditMessage(msg)
		}
	}
}

func processAuditMessage(msg amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("recovered from panic in audit consumer")
		}
	}()

	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.Entity == "" || event.Type == "" {
		log.WithField("body", string(msg.Body)).Warn("dropping malformed order event")
		_ = msg.Nack(false, false)
		return
	}

	log.WithFields(log.Fields{
		"entity":   event.Entity,
		"type":     event.Type,
		"id":       event.ID,
		"occurred": event.Occurred,
	}).Info("order event")

	if err := msg.Ack(false); err != nil {
		log.WithError(err).Warn("failed to ack order event")
	}
}
