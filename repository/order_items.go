package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"orders-api/models"
)

const orderItemColumns = `order_item_id, order_id, product_id, sku, quantity, unit_price`

type OrderItemRepository struct {
	db *sqlx.DB
}

func NewOrderItemRepository(db *sqlx.DB) *OrderItemRepository {
	return &OrderItemRepository{db: db}
}

func (r *OrderItemRepository) List(ctx context.Context, limit int) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	err := r.db.SelectContext(ctx, &items, `SELECT `+orderItemColumns+` FROM Order_Items LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return items, nil
}

func (r *OrderItemRepository) Get(ctx context.Context, orderItemID int) (models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.GetContext(ctx, &item, `SELECT `+orderItemColumns+` FROM Order_Items WHERE order_item_id = ?`, orderItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OrderItem{}, fmt.Errorf("order item %d: %w", orderItemID, ErrNotFound)
		}
		return models.OrderItem{}, fmt.Errorf("get order item %d: %w", orderItemID, err)
	}
	return item, nil
}

// Create inserts item and returns the id assigned by storage. item.OrderItemID
// is ignored.
func (r *OrderItemRepository) Create(ctx context.Context, item models.OrderItem) (int, error) {
	id, err := insertOrderItem(ctx, r.db, item)
	if err != nil {
		return 0, fmt.Errorf("insert order item: %w", classify(err))
	}
	return id, nil
}

func (r *OrderItemRepository) Update(ctx context.Context, item models.OrderItem) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE Order_Items
		SET order_id = ?, product_id = ?, sku = ?, quantity = ?, unit_price = ?
		WHERE order_item_id = ?
	`, item.OrderID, item.ProductID, item.SKU, item.Quantity, item.UnitPrice, item.OrderItemID)
	if err != nil {
		return fmt.Errorf("update order item %d: %w", item.OrderItemID, classify(err))
	}
	if err := affectedOrNotFound(res); err != nil {
		return fmt.Errorf("update order item %d: %w", item.OrderItemID, err)
	}
	return nil
}

func (r *OrderItemRepository) Delete(ctx context.Context, orderItemID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM Order_Items WHERE order_item_id = ?`, orderItemID)
	if err != nil {
		return fmt.Errorf("delete order item %d: %w", orderItemID, err)
	}
	if err := affectedOrNotFound(res); err != nil {
		return fmt.Errorf("delete order item %d: %w", orderItemID, err)
	}
	return nil
}

func insertOrderItem(ctx context.Context, ex sqlx.ExecerContext, item models.OrderItem) (int, error) {
	res, err := ex.ExecContext(ctx, `
		INSERT INTO Order_Items (order_id, product_id, sku, quantity, unit_price)
		VALUES (?, ?, ?, ?, ?)
	`, item.OrderID, item.ProductID, item.SKU, item.Quantity, item.UnitPrice)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}
