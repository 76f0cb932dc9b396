package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"orders-api/middlewares"
	"orders-api/models"
)

func (ctl *Controller) ListOrders(c *gin.Context) {
	defer middlewares.RecordOperation(c, models.EntityOrder, "list")

	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	orders, err := ctl.Orders.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (ctl *Controller) CreateOrder(c *gin.Context) {
	defer middlewares.RecordOperation(c, models.EntityOrder, "create")

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := req.ToOrder()
	if err := ctl.Orders.Create(c.Request.Context(), order); err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order inserted successfully", "order_id": order.OrderID})
	ctl.publish(c, models.EntityOrder, models.EventCreated, order.OrderID)
}

func (ctl *Controller) GetOrder(c *gin.Context) {
	defer middlewares.RecordOperation(c, models.EntityOrder, "get")

	orderID, ok := parseID(c, "order")
	if !ok {
		return
	}

	order, err := ctl.Orders.Get(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err, "Order not found")
		return
	}

	items := order.Items
	if items == nil {
		items = []models.OrderItem{}
	}
	c.JSON(http.StatusOK, models.OrderWithItems{Order: order, Items: items})
}

func (ctl *Controller) UpdateOrder(c *gin.Context) {
	defer middlewares.RecordOperation(c, models.EntityOrder, "update")

	orderID, ok := parseID(c, "order")
	if !ok {
		return
	}

	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.Orders.Update(c.Request.Context(), req.ToOrder(orderID)); err != nil {
		respondError(c, err, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully", "order_id": orderID})
	ctl.publish(c, models.EntityOrder, models.EventUpdated, orderID)
}

func (ctl *Controller) DeleteOrder(c *gin.Context) {
	defer middlewares.RecordOperation(c, models.EntityOrder, "delete")

	orderID, ok := parseID(c, "order")
	if !ok {
		return
	}

	if err := ctl.Orders.Delete(c.Request.Context(), orderID); err != nil {
		respondError(c, err, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Order %d deleted successfully", orderID)})
	ctl.publish(c, models.EntityOrder, models.EventDeleted, orderID)
}
