package setup

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

const (
	OrdersTable     = "Orders"
	OrderItemsTable = "Order_Items"
)

// Column sets accepted in seed files, in table order.
var tableColumns = map[string][]string{
	OrdersTable:     {"order_id", "customer_id", "order_status", "payment_status", "order_total", "created_at"},
	OrderItemsTable: {"order_item_id", "order_id", "product_id", "sku", "quantity", "unit_price"},
}

var createTableStatements = []string{
	`CREATE TABLE IF NOT EXISTS Orders (
		order_id       INT PRIMARY KEY,
		customer_id    INT NOT NULL,
		order_status   VARCHAR(50) DEFAULT 'PENDING',
		payment_status VARCHAR(50) DEFAULT 'UNPAID',
		order_total    DECIMAL(10,2) NOT NULL,
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS Order_Items (
		order_item_id INT AUTO_INCREMENT PRIMARY KEY,
		order_id      INT NULL,
		product_id    INT NOT NULL,
		sku           VARCHAR(100) NOT NULL,
		quantity      INT NOT NULL,
		unit_price    DECIMAL(10,2) NOT NULL,
		KEY idx_order_items_order_id (order_id),
		CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES Orders (order_id)
	)`,
}

// CreateDatabase creates name on a server-level connection if it is absent.
func CreateDatabase(ctx context.Context, db *sqlx.DB, name string) error {
	if _, err := db.ExecContext(ctx, "CREATE DATABASE IF NOT EXISTS "+quoteIdent(name)); err != nil {
		return fmt.Errorf("create database %s: %w", name, err)
	}
	log.WithField("database", name).Info("database ready")
	return nil
}

// CreateTables creates Orders and Order_Items if they are absent. Orders goes
// first because Order_Items references it.
func CreateTables(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range createTableStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	log.Info("tables ready")
	return nil
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
