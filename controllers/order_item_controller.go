package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"orders-api/middlewares"
	"orders-api/models"
)

func (ctl *Controller) ListOrderItems(c *gin.Context) {
	defer middlewares.RecordOperation(c, models.EntityOrderItem, "list")

	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	items, err := ctl.OrderItems.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (ctl *Controller) GetOrderItem(c *gin.Context) {
	defer middlewares.RecordOperation(c, models.EntityOrderItem, "get")

	itemID, ok := parseID(c, "order item")
	if !ok {
		return
	}

	item, err := ctl.OrderItems.Get(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, err, "Order item not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ctl *Controller) CreateOrderItem(c *gin.Context) {
	defer middlewares.RecordOperation(c, models.EntityOrderItem, "create")

	var req models.OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	itemID, err := ctl.OrderItems.Create(c.Request.Context(), req.ToOrderItem(0))
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order item inserted successfully", "order_item_id": itemID})
	ctl.publish(c, models.EntityOrderItem, models.EventCreated, itemID)
}

func (ctl *Controller) UpdateOrderItem(c *gin.Context) {
	defer middlewares.RecordOperation(c, models.EntityOrderItem, "update")

	itemID, ok := parseID(c, "order item")
	if !ok {
		return
	}

	var req models.OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.OrderItems.Update(c.Request.Context(), req.ToOrderItem(itemID)); err != nil {
		respondError(c, err, "Order item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order item updated successfully", "order_item_id": itemID})
	ctl.publish(c, models.EntityOrderItem, models.EventUpdated, itemID)
}

func (ctl *Controller) DeleteOrderItem(c *gin.Context) {
	defer middlewares.RecordOperation(c, models.EntityOrderItem, "delete")

	itemID, ok := parseID(c, "order item")
	if !ok {
		return
	}

	if err := ctl.OrderItems.Delete(c.Request.Context(), itemID); err != nil {
		respondError(c, err, "Order item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Order item %d deleted successfully", itemID)})
	ctl.publish(c, models.EntityOrderItem, models.EventDeleted, itemID)
}
