// Package database opens the MySQL store behind materials and plans and migrates its schema.
package database

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net"
	"strconv"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/studyplan/internal/config"
)

// MySQL error numbers of transactions that lost a row lock.
const (
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

const (
	txAttempts = 3
	txDelay    = 20 * time.Millisecond
)

// DSN builds the driver DSN for cfg.
// Plan dates are UTC midnights, so both the driver and the session use UTC.
func DSN(cfg config.DatabaseConfig) string {
	c := mysql.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.Database
	c.ParseTime = true
	c.Loc = time.UTC
	// migration files hold several statements each
	c.MultiStatements = true
	c.Params = map[string]string{"time_zone": "'+00:00'"}
	maps.Copy(c.Params, cfg.Params)
	if cfg.TLS {
		c.TLSConfig = "true"
	}
	return c.FormatDSN()
}

// Open returns a connection pool for cfg. No connection is made until first use.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	return db, nil
}

// RunInTx runs fn in a transaction and commits when fn succeeds.
// Two plan replacements for one material can deadlock on the same index gap; a transaction
// that loses a lock is rolled back and run again from the start.
func RunInTx(ctx context.Context, db *sqlx.DB, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	return retry.Do(
		func() error {
			return runOnce(ctx, db, fn)
		},
		retry.Context(ctx),
		retry.Attempts(txAttempts),
		retry.Delay(txDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsLockConflict),
	)
}

func runOnce(ctx context.Context, db *sqlx.DB, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// IsLockConflict reports whether err is a MySQL deadlock or lock wait timeout.
func IsLockConflict(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == errDeadlock || mysqlErr.Number == errLockWaitTimeout
}
