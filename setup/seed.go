package setup

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

var validate = validator.New()

// Source is one seed file and the table it loads into. The CSV header row
// names the columns.
type Source struct {
	Path  string `validate:"required,file"`
	Table string `validate:"required,oneof=Orders Order_Items"`
}

// SeedSources lists the seed files under dir in load order.
func SeedSources(dir string) []Source {
	return []Source{
		{Path: filepath.Join(dir, OrdersTable+".csv"), Table: OrdersTable},
		{Path: filepath.Join(dir, OrderItemsTable+".csv"), Table: OrderItemsTable},
	}
}

// LoadCSV inserts every row of src.Path one statement at a time and commits
// once at the end of the file. Empty cells are stored as NULL. Rows already
// present are not skipped, so reloading the same file conflicts.
func LoadCSV(ctx context.Context, db *sqlx.DB, src Source) (int, error) {
	if err := validate.Struct(src); err != nil {
		return 0, fmt.Errorf("seed source %s: %w", src.Path, err)
	}

	f, err := os.Open(src.Path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header of %s: %w", src.Path, err)
	}
	columns, err := normalizeHeader(header, src.Table)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", src.Path, err)
	}

	placeholders := lo.Map(columns, func(string, int) string { return "?" })
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		src.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", src.Path, err)
		}

		args := lo.Map(record, func(v string, _ int) any {
			if v == "" {
				return nil
			}
			return v
		})
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return 0, fmt.Errorf("insert row %d of %s: %w", inserted+1, src.Path, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", src.Path, err)
	}

	log.WithFields(log.Fields{"file": filepath.Base(src.Path), "table": src.Table, "rows": inserted}).Info("seed file loaded")
	return inserted, nil
}

// normalizeHeader trims the header cells and rejects columns the table does
// not have.
func normalizeHeader(header []string, table string) ([]string, error) {
	known := tableColumns[table]
	columns := make([]string, 0, len(header))
	for i, h := range header {
		col := strings.TrimSpace(h)
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		if !lo.Contains(known, col) {
			return nil, fmt.Errorf("unknown column %q for table %s", col, table)
		}
		columns = append(columns, col)
	}
	if len(lo.Uniq(columns)) != len(columns) {
		return nil, fmt.Errorf("duplicate column in header for table %s", table)
	}
	return columns, nil
}
