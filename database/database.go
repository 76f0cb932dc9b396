package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"orders-api/config"
)

const (
	errDuplicateEntry   = 1062
	errRowIsReferenced  = 1451
	errNoReferencedRow  = 1452
	errRowIsReferenced2 = 1217
	errNoReferencedRow2 = 1216
)

// DSN builds a go-sql-driver DSN for dbName. An empty dbName connects to the
// server without selecting a schema.
func DSN(cfg *config.Config, dbName string) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, strconv.Itoa(cfg.DBPort))
	mc.DBName = dbName
	mc.ParseTime = true
	// UPDATE reports matched rows, so rewriting identical values is not a miss.
	mc.ClientFoundRows = true
	return mc.FormatDSN()
}

// Open returns a pooled handle to dbName and verifies it with a ping.
func Open(ctx context.Context, cfg *config.Config, dbName string) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", DSN(cfg, dbName))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s:%d: %w", cfg.DBHost, cfg.DBPort, err)
	}

	log.WithFields(log.Fields{
		"host":     cfg.DBHost,
		"port":     cfg.DBPort,
		"database": dbName,
	}).Info("database connection pool established")
	return db, nil
}

// ErrHostUnreachable is returned by WaitForHost when the deadline elapses.
var ErrHostUnreachable = errors.New("database host not reachable")

// WaitForHost polls host:port over TCP once per interval until it accepts a
// connection or timeout elapses.
func WaitForHost(ctx context.Context, host string, port int, timeout, interval time.Duration) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	deadline := time.Now().Add(timeout)
	dialer := net.Dialer{Timeout: 5 * time.Second}

	for attempt := 1; ; attempt++ {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			_ = conn.Close()
			log.WithField("addr", addr).Info("database reachable")
			return nil
		}
		log.WithFields(log.Fields{"addr": addr, "attempt": attempt}).WithError(err).Info("waiting for database")

		if !time.Now().Add(interval).Before(deadline) {
			return fmt.Errorf("%w at %s", ErrHostUnreachable, addr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// IsDuplicateKey reports whether err is a primary/unique key violation.
func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}

// IsForeignKeyViolation reports whether err is raised by a foreign key check.
func IsForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	switch me.Number {
	case errRowIsReferenced, errNoReferencedRow, errRowIsReferenced2, errNoReferencedRow2:
		return true
	}
	return false
}
