// Package db opens and migrates the embedded SQLite store.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Open connects to the on-disk store at path, creating it when missing,
// and applies the schema. A single writer connection keeps SQLite's
// locking out of the picture at this system's scale.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("platform/db: open: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("platform/db: ping: %w", err)
	}

	if err := Migrate(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// Schema versioning is additive only: new columns and tables may be
// appended, existing ones are never rewritten.
const schema = `
CREATE TABLE IF NOT EXISTS products (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	code           TEXT NOT NULL,
	title          TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	size           TEXT NOT NULL DEFAULT '',
	color          TEXT NOT NULL DEFAULT '',
	purchase_price REAL NOT NULL DEFAULT 0,
	shipping_cost  REAL NOT NULL DEFAULT 0,
	list_price     REAL NOT NULL DEFAULT 0,
	notes          TEXT NOT NULL DEFAULT '',
	tags           TEXT NOT NULL DEFAULT '',
	photo          BLOB,
	created_at     TEXT NOT NULL DEFAULT '',
	updated_at     TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_code ON products(code);

CREATE TABLE IF NOT EXISTS sales (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	code          TEXT NOT NULL,
	selling_price REAL NOT NULL DEFAULT 0,
	profit        REAL NOT NULL DEFAULT 0,
	sold_at       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sales_code ON sales(code);
CREATE INDEX IF NOT EXISTS idx_sales_sold_at ON sales(sold_at);

CREATE TABLE IF NOT EXISTS expenses (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL DEFAULT '',
	amount     REAL NOT NULL DEFAULT 0,
	category   TEXT NOT NULL DEFAULT '',
	note       TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_expenses_created_at ON expenses(created_at);

CREATE TABLE IF NOT EXISTS settings (
	id              INTEGER PRIMARY KEY CHECK (id = 1),
	store_id        TEXT NOT NULL,
	display_name    TEXT NOT NULL DEFAULT '',
	currency_symbol TEXT NOT NULL DEFAULT '$',
	currency_code   TEXT NOT NULL DEFAULT 'USD',
	label_style     TEXT NOT NULL DEFAULT 'symbol'
);
`

// Migrate applies the additive schema.
func Migrate(ctx context.Context, conn *sqlx.DB) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("platform/db: migrate: %w", err)
	}
	return nil
}

// WithTx executes a function within a transaction.
func WithTx(ctx context.Context, conn *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", err)
	}

	return nil
}

// IsUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func IsUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
