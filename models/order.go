package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultOrderStatus   = "PENDING"
	DefaultPaymentStatus = "UNPAID"
)

func init() {
	// Money travels as a JSON number, matching the DECIMAL(10,2) columns.
	decimal.MarshalJSONWithoutQuotes = true
}

// Order is a row of the Orders table. Items is assembled on read.
type Order struct {
	OrderID       int             `json:"order_id" db:"order_id"`
	CustomerID    int             `json:"customer_id" db:"customer_id"`
	OrderStatus   string          `json:"order_status" db:"order_status"`
	PaymentStatus string          `json:"payment_status" db:"payment_status"`
	OrderTotal    decimal.Decimal `json:"order_total" db:"order_total"`
	CreatedAt     *time.Time      `json:"created_at" db:"created_at"`
	Items         []OrderItem     `json:"items,omitempty" db:"-"`
}

// OrderItem is a row of the Order_Items table.
type OrderItem struct {
	OrderItemID int             `json:"order_item_id" db:"order_item_id"`
	OrderID     *int            `json:"order_id" db:"order_id"`
	ProductID   int             `json:"product_id" db:"product_id"`
	SKU         string          `json:"sku" db:"sku"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// OrderWithItems is the response body of GET /orders/:id; items is always
// present, even when empty.
type OrderWithItems struct {
	Order
	Items []OrderItem `json:"items"`
}
