package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"orders-api/middlewares"
	"orders-api/models"
	"orders-api/repository"
)

const defaultListLimit = 10

type OrderStore interface {
	List(ctx context.Context, limit int) ([]models.Order, error)
	Create(ctx context.Context, order models.Order) error
	Get(ctx context.Context, orderID int) (models.Order, error)
	Update(ctx context.Context, order models.Order) error
	Delete(ctx context.Context, orderID int) error
}

type OrderItemStore interface {
	List(ctx context.Context, limit int) ([]models.OrderItem, error)
	Get(ctx context.Context, orderItemID int) (models.OrderItem, error)
	Create(ctx context.Context, item models.OrderItem) (int, error)
	Update(ctx context.Context, item models.OrderItem) error
	Delete(ctx context.Context, orderItemID int) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

// Controller serves the /orders and /order_items resources. Events is
// optional.
type Controller struct {
	Orders     OrderStore
	OrderItems OrderItemStore
	Events     EventPublisher
}

func (ctl *Controller) RegisterRoutes(r gin.IRouter) {
	r.GET("/orders", ctl.ListOrders)
	r.POST("/orders", ctl.CreateOrder)
	r.GET("/orders/:id", ctl.GetOrder)
	r.PUT("/orders/:id", ctl.UpdateOrder)
	r.DELETE("/orders/:id", ctl.DeleteOrder)

	r.GET("/order_items", ctl.ListOrderItems)
	r.POST("/order_items", ctl.CreateOrderItem)
	r.GET("/order_items/:id", ctl.GetOrderItem)
	r.PUT("/order_items/:id", ctl.UpdateOrderItem)
	r.DELETE("/order_items/:id", ctl.DeleteOrderItem)
}

// parseLimit reads ?limit=N, defaulting to 10. It writes a 400 and returns
// false for anything but a positive integer.
func parseLimit(c *gin.Context) (int, bool) {
	raw, ok := c.GetQuery("limit")
	if !ok {
		return defaultListLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return limit, true
}

func parseID(c *gin.Context, what string) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID"})
		return 0, false
	}
	return id, true
}

// respondError maps a store error onto the HTTP error taxonomy.
func respondError(c *gin.Context, err error, notFound string) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// publish emits a lifecycle event after a committed write. Failures are
// logged only.
func (ctl *Controller) publish(c *gin.Context, entity, eventType string, id int) {
	if ctl.Events == nil {
		return
	}
	event := models.OrderEvent{Entity: entity, Type: eventType, ID: id, Occurred: time.Now().UTC()}
	if err := ctl.Events.PublishOrderEvent(c.Request.Context(), event); err != nil {
		middlewares.LoggerFrom(c).WithError(err).WithField("event", event.RoutingKey()).Warn("failed to publish order event")
	}
}
