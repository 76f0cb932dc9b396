package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	OrderID       int                      `json:"order_id" binding:"required,min=1"`
	CustomerID    int                      `json:"customer_id" binding:"required"`
	OrderTotal    *decimal.Decimal         `json:"order_total" binding:"required"`
	OrderStatus   string                   `json:"order_status"`
	PaymentStatus string                   `json:"payment_status"`
	CreatedAt     *time.Time               `json:"created_at"`
	Items         []CreateOrderItemRequest `json:"items" binding:"required,dive"`
}

// CreateOrderItemRequest is one line supplied with a new order. Any
// order_item_id in the payload is dropped by the decoder.
type CreateOrderItemRequest struct {
	ProductID int              `json:"product_id" binding:"required"`
	SKU       string           `json:"sku" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateOrderRequest carries the mutable header fields. Items are ignored.
type UpdateOrderRequest struct {
	CustomerID    int              `json:"customer_id" binding:"required"`
	OrderTotal    *decimal.Decimal `json:"order_total" binding:"required"`
	OrderStatus   string           `json:"order_status"`
	PaymentStatus string           `json:"payment_status"`
}

// OrderItemRequest is the body of POST and PUT /order_items.
type OrderItemRequest struct {
	OrderID   *int             `json:"order_id"`
	ProductID int              `json:"product_id" binding:"required"`
	SKU       string           `json:"sku" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"required"`
}

// ToOrder converts the payload into a header plus items, applying status
// defaults and pinning every item to the header's order_id.
func (r CreateOrderRequest) ToOrder() Order {
	order := Order{
		OrderID:       r.OrderID,
		CustomerID:    r.CustomerID,
		OrderStatus:   statusOrDefault(r.OrderStatus, DefaultOrderStatus),
		PaymentStatus: statusOrDefault(r.PaymentStatus, DefaultPaymentStatus),
		OrderTotal:    *r.OrderTotal,
		CreatedAt:     r.CreatedAt,
		Items:         make([]OrderItem, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		orderID := r.OrderID
		order.Items = append(order.Items, OrderItem{
			OrderID:   &orderID,
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			UnitPrice: *it.UnitPrice,
		})
	}
	return order
}

func (r UpdateOrderRequest) ToOrder(orderID int) Order {
	return Order{
		OrderID:       orderID,
		CustomerID:    r.CustomerID,
		OrderStatus:   statusOrDefault(r.OrderStatus, DefaultOrderStatus),
		PaymentStatus: statusOrDefault(r.PaymentStatus, DefaultPaymentStatus),
		OrderTotal:    *r.OrderTotal,
	}
}

func (r OrderItemRequest) ToOrderItem(orderItemID int) OrderItem {
	return OrderItem{
		OrderItemID: orderItemID,
		OrderID:     r.OrderID,
		ProductID:   r.ProductID,
		SKU:         r.SKU,
		Quantity:    r.Quantity,
		UnitPrice:   *r.UnitPrice,
	}
}

func statusOrDefault(status, def string) string {
	if status == "" {
		return def
	}
	return status
}
