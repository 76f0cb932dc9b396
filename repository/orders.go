package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"orders-api/models"
)

const orderColumns = `order_id, customer_id, order_status, payment_status, order_total, created_at`

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) List(ctx context.Context, limit int) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.SelectContext(ctx, &orders, `SELECT `+orderColumns+` FROM Orders LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Create inserts the header and its items in one transaction. created_at
// falls back to the server clock when not supplied.
func (r *OrderRepository) Create(ctx context.Context, order models.Order) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO Orders (order_id, customer_id, order_status, payment_status, order_total, created_at)
			VALUES (?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP))
		`, order.OrderID, order.CustomerID, order.OrderStatus, order.PaymentStatus, order.OrderTotal, order.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order %d: %w", order.OrderID, classify(err))
		}

		for _, item := range order.Items {
			if _, err := insertOrderItem(ctx, tx, item); err != nil {
				return fmt.Errorf("insert item of order %d: %w", order.OrderID, classify(err))
			}
		}
		return nil
	})
}

// Get returns the header with its items attached; Items is never nil.
func (r *OrderRepository) Get(ctx context.Context, orderID int) (models.Order, error) {
	var order models.Order
	err := r.db.GetContext(ctx, &order, `SELECT `+orderColumns+` FROM Orders WHERE order_id = ?`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Order{}, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return models.Order{}, fmt.Errorf("get order %d: %w", orderID, err)
	}

	order.Items = []models.OrderItem{}
	err = r.db.SelectContext(ctx, &order.Items,
		`SELECT `+orderItemColumns+` FROM Order_Items WHERE order_id = ? ORDER BY order_item_id`, orderID)
	if err != nil {
		return models.Order{}, fmt.Errorf("get items of order %d: %w", orderID, err)
	}
	return order, nil
}

// Update rewrites the mutable header fields. Items are left untouched.
func (r *OrderRepository) Update(ctx context.Context, order models.Order) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE Orders
		SET customer_id = ?, order_status = ?, payment_status = ?, order_total = ?
		WHERE order_id = ?
	`, order.CustomerID, order.OrderStatus, order.PaymentStatus, order.OrderTotal, order.OrderID)
	if err != nil {
		return fmt.Errorf("update order %d: %w", order.OrderID, classify(err))
	}
	if err := affectedOrNotFound(res); err != nil {
		return fmt.Errorf("update order %d: %w", order.OrderID, err)
	}
	return nil
}

// Delete removes the items and then the header in one transaction. A missing
// header rolls the item delete back.
func (r *OrderRepository) Delete(ctx context.Context, orderID int) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM Order_Items WHERE order_id = ?`, orderID); err != nil {
			return fmt.Errorf("delete items of order %d: %w", orderID, err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM Orders WHERE order_id = ?`, orderID)
		if err != nil {
			return fmt.Errorf("delete order %d: %w", orderID, classify(err))
		}
		if err := affectedOrNotFound(res); err != nil {
			return fmt.Errorf("delete order %d: %w", orderID, err)
		}
		return nil
	})
}
