package setup

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetOutput(io.Discard)
}

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlx.NewDb(db, "mysql"), mock
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCreateDatabase(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE DATABASE IF NOT EXISTS `order_db`")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, CreateDatabase(context.Background(), db, "order_db"))
}

func TestCreateTables_OrdersFirst(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS Orders (")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS Order_Items (")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, CreateTables(context.Background(), db))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, "`order_db`", quoteIdent("order_db"))
	assert.Equal(t, "`odd``name`", quoteIdent("odd`name"))
}

func TestSeedSources(t *testing.T) {
	sources := SeedSources("/data")
	require.Len(t, sources, 2)
	assert.Equal(t, Source{Path: "/data/Orders.csv", Table: "Orders"}, sources[0])
	assert.Equal(t, Source{Path: "/data/Order_Items.csv", Table: "Order_Items"}, sources[1])
}

func TestLoadCSV_CommitsOncePerFile(t *testing.T) {
	db, mock := newMock(t)
	path := writeFile(t, t.TempDir(), "Orders.csv",
		"\ufefforder_id,customer_id,order_status,payment_status,order_total,created_at\n"+
			"1,10,PENDING,UNPAID,12.50,2024-05-01 10:00:00\n"+
			"2,11,SHIPPED,PAID,99.99,\n")

	insert := regexp.QuoteMeta("INSERT INTO Orders (order_id, customer_id, order_status, payment_status, order_total, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	mock.ExpectBegin()
	mock.ExpectExec(insert).
		WithArgs("1", "10", "PENDING", "UNPAID", "12.50", "2024-05-01 10:00:00").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insert).
		WithArgs("2", "11", "SHIPPED", "PAID", "99.99", nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	n, err := LoadCSV(context.Background(), db, Source{Path: path, Table: OrdersTable})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLoadCSV_RowFailureRollsBack(t *testing.T) {
	db, mock := newMock(t)
	path := writeFile(t, t.TempDir(), "Order_Items.csv",
		"order_item_id,order_id,product_id,sku,quantity,unit_price\n"+
			"1,1,100,SKU-100,2,5.00\n"+
			"1,1,101,SKU-101,1,7.00\n")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Order_Items")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Order_Items")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := LoadCSV(context.Background(), db, Source{Path: path, Table: OrderItemsTable})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert row 2")
}

func TestLoadCSV_RejectsUnknownColumn(t *testing.T) {
	db, _ := newMock(t)
	path := writeFile(t, t.TempDir(), "Orders.csv", "order_id,customer_id,drop_table\n1,2,3\n")

	_, err := LoadCSV(context.Background(), db, Source{Path: path, Table: OrdersTable})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown column "drop_table"`)
}

func TestLoadCSV_InvalidSource(t *testing.T) {
	db, _ := newMock(t)

	_, err := LoadCSV(context.Background(), db, Source{Path: filepath.Join(t.TempDir(), "missing.csv"), Table: OrdersTable})
	assert.Error(t, err)

	path := writeFile(t, t.TempDir(), "Users.csv", "id\n1\n")
	_, err = LoadCSV(context.Background(), db, Source{Path: path, Table: "Users"})
	assert.Error(t, err)
}

func TestNormalizeHeader(t *testing.T) {
	cols, err := normalizeHeader([]string{" order_item_id", "order_id ", "sku"}, OrderItemsTable)
	require.NoError(t, err)
	assert.Equal(t, []string{"order_item_id", "order_id", "sku"}, cols)

	_, err = normalizeHeader([]string{"sku", "sku"}, OrderItemsTable)
	assert.Error(t, err)
}
