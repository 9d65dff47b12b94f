package interchange

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shopledger/shopledger/internal/expenses"
	"github.com/shopledger/shopledger/internal/inventory"
	"github.com/shopledger/shopledger/internal/platform/db"
	"github.com/shopledger/shopledger/internal/sales"
	"github.com/shopledger/shopledger/internal/shared"
)

// Repository performs the whole-store reads and writes behind backup
// and restore.
type Repository struct {
	conn *sqlx.DB
}

// NewRepository constructs Repository.
func NewRepository(conn *sqlx.DB) *Repository {
	return &Repository{conn: conn}
}

// TxRepository exposes the transactional operations of a restore. A
// restore wipes and reinserts every collection inside one transaction
// so a failure cannot leave the store half-wiped.
type TxRepository interface {
	WipeAll(ctx context.Context) error
	InsertProduct(ctx context.Context, p *inventory.Product) error
	InsertSale(ctx context.Context, s *sales.Sale) error
	InsertExpense(ctx context.Context, e *expenses.Expense) error
}

type txRepo struct {
	tx *sqlx.Tx
}

func (r *txRepo) WipeAll(ctx context.Context) error {
	for _, table := range []string{"products", "sales", "expenses"} {
		if _, err := r.tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("interchange: wipe %s: %w", table, err)
		}
	}
	return nil
}

func (r *txRepo) InsertProduct(ctx context.Context, p *inventory.Product) error {
	res, err := r.tx.ExecContext(ctx, `
		INSERT INTO products (code, title, category, size, color, purchase_price, shipping_cost, list_price, notes, tags, photo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Code, p.Title, p.Category, p.Size, p.Color, p.PurchasePrice, p.ShippingCost, p.ListPrice, p.Notes, inventory.EncodeTags(p.Tags), p.Photo, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("interchange: code %q: %w", p.Code, shared.ErrDuplicate)
		}
		return fmt.Errorf("interchange: insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("interchange: insert product id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *txRepo) InsertSale(ctx context.Context, s *sales.Sale) error {
	res, err := r.tx.ExecContext(ctx,
		`INSERT INTO sales (code, selling_price, profit, sold_at) VALUES (?, ?, ?, ?)`,
		s.Code, s.SellingPrice, s.Profit, s.SoldAt)
	if err != nil {
		return fmt.Errorf("interchange: insert sale: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("interchange: insert sale id: %w", err)
	}
	s.ID = id
	return nil
}

func (r *txRepo) InsertExpense(ctx context.Context, e *expenses.Expense) error {
	res, err := r.tx.ExecContext(ctx,
		`INSERT INTO expenses (title, amount, category, note, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.Title, e.Amount, e.Category, e.Note, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("interchange: insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("interchange: insert expense id: %w", err)
	}
	e.ID = id
	return nil
}

// WithTx executes the callback inside one store transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.conn, func(tx *sqlx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}
