package models

import (
	"time"
)

const (
	EntityOrder     = "order"
	EntityOrderItem = "order_item"

	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// OrderEvent is published after a committed write.
type OrderEvent struct {
	Entity   string    `json:"entity"`
	Type     string    `json:"type"` // created, updated, deleted
	ID       int       `json:"id"`
	Occurred time.Time `json:"occurred"`
}

// RoutingKey is the topic key the event is published under, e.g. "order.created".
func (e OrderEvent) RoutingKey() string {
	return e.Entity + "." + e.Type
}
