package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shopledger/shopledger/internal/platform/db"
	"github.com/shopledger/shopledger/internal/shared"
)

// Repository persists sale events in the embedded store.
type Repository struct {
	conn *sqlx.DB
}

// NewRepository constructs Repository.
func NewRepository(conn *sqlx.DB) *Repository {
	return &Repository{conn: conn}
}

// TxRepository exposes the transactional operations used when recording
// a sale: the product read and the sale insert happen in one transaction
// so the cost snapshot and the written profit cannot drift apart.
type TxRepository interface {
	GetProductCosts(ctx context.Context, code string) (ProductCosts, error)
	InsertSale(ctx context.Context, sale *Sale) error
}

type txRepo struct {
	tx *sqlx.Tx
}

func (r *txRepo) GetProductCosts(ctx context.Context, code string) (ProductCosts, error) {
	var costs ProductCosts
	err := r.tx.GetContext(ctx, &costs, `SELECT purchase_price, shipping_cost FROM products WHERE code = ?`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return ProductCosts{}, fmt.Errorf("sales: code %q: %w", code, shared.ErrNotFound)
	}
	if err != nil {
		return ProductCosts{}, fmt.Errorf("sales: get product costs: %w", err)
	}
	return costs, nil
}

func (r *txRepo) InsertSale(ctx context.Context, sale *Sale) error {
	res, err := r.tx.ExecContext(ctx,
		`INSERT INTO sales (code, selling_price, profit, sold_at) VALUES (?, ?, ?, ?)`,
		sale.Code, sale.SellingPrice, sale.Profit, sale.SoldAt)
	if err != nil {
		return fmt.Errorf("sales: insert sale: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sales: insert sale id: %w", err)
	}
	sale.ID = id
	return nil
}

// WithTx executes the callback inside one store transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.conn, func(tx *sqlx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

// Delete removes a sale record. It reports false, with no error, when
// the id does not exist.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("sales: delete sale: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sales: delete sale: %w", err)
	}
	return affected > 0, nil
}

// List returns sales ordered oldest first, optionally restricted to an
// inclusive [start, end] range compared lexicographically on the stored
// RFC3339 string.
func (r *Repository) List(ctx context.Context, rng *shared.Range) ([]Sale, error) {
	query := `SELECT id, code, selling_price, profit, sold_at FROM sales`
	var args []any
	if rng != nil && !rng.IsZero() {
		query += ` WHERE sold_at >= ? AND sold_at <= ?`
		args = append(args, rng.Start, rng.End)
	}
	query += ` ORDER BY sold_at ASC, id ASC`

	var out []Sale
	if err := r.conn.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("sales: list sales: %w", err)
	}
	return out, nil
}

// SoldCodes materialises the distinct set of codes with at least one sale.
func (r *Repository) SoldCodes(ctx context.Context) (map[string]struct{}, error) {
	var codes []string
	if err := r.conn.SelectContext(ctx, &codes, `SELECT DISTINCT code FROM sales`); err != nil {
		return nil, fmt.Errorf("sales: distinct codes: %w", err)
	}
	out := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		out[c] = struct{}{}
	}
	return out, nil
}
