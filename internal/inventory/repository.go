package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shopledger/shopledger/internal/platform/db"
	"github.com/shopledger/shopledger/internal/shared"
)

// Repository persists products in the embedded store.
type Repository struct {
	conn *sqlx.DB
}

// NewRepository constructs Repository.
func NewRepository(conn *sqlx.DB) *Repository {
	return &Repository{conn: conn}
}

type productRow struct {
	ID            int64   `db:"id"`
	Code          string  `db:"code"`
	Title         string  `db:"title"`
	Category      string  `db:"category"`
	Size          string  `db:"size"`
	Color         string  `db:"color"`
	PurchasePrice float64 `db:"purchase_price"`
	ShippingCost  float64 `db:"shipping_cost"`
	ListPrice     float64 `db:"list_price"`
	Notes         string  `db:"notes"`
	Tags          string  `db:"tags"`
	Photo         []byte  `db:"photo"`
	CreatedAt     string  `db:"created_at"`
	UpdatedAt     string  `db:"updated_at"`
}

func (r productRow) toProduct() Product {
	return Product{
		ID:            r.ID,
		Code:          r.Code,
		Title:         r.Title,
		Category:      r.Category,
		Size:          r.Size,
		Color:         r.Color,
		PurchasePrice: r.PurchasePrice,
		ShippingCost:  r.ShippingCost,
		ListPrice:     r.ListPrice,
		Notes:         r.Notes,
		Tags:          DecodeTags(r.Tags),
		Photo:         r.Photo,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// Upsert inserts the product when it carries no identity, otherwise
// overwrites the existing record. CreatedAt is set once on first insert;
// UpdatedAt is refreshed on every write. A code held by another product
// fails with shared.ErrDuplicate.
func (r *Repository) Upsert(ctx context.Context, p *Product) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if p.ID == 0 {
		if p.CreatedAt == "" {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		res, err := r.conn.ExecContext(ctx, `
			INSERT INTO products (code, title, category, size, color, purchase_price, shipping_cost, list_price, notes, tags, photo, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Code, p.Title, p.Category, p.Size, p.Color, p.PurchasePrice, p.ShippingCost, p.ListPrice, p.Notes, EncodeTags(p.Tags), p.Photo, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return fmt.Errorf("inventory: code %q: %w", p.Code, shared.ErrDuplicate)
			}
			return fmt.Errorf("inventory: insert product: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("inventory: insert product id: %w", err)
		}
		p.ID = id
		return nil
	}

	p.UpdatedAt = now
	res, err := r.conn.ExecContext(ctx, `
		UPDATE products
		SET code = ?, title = ?, category = ?, size = ?, color = ?, purchase_price = ?, shipping_cost = ?, list_price = ?, notes = ?, tags = ?, photo = ?, updated_at = ?
		WHERE id = ?`,
		p.Code, p.Title, p.Category, p.Size, p.Color, p.PurchasePrice, p.ShippingCost, p.ListPrice, p.Notes, EncodeTags(p.Tags), p.Photo, p.UpdatedAt, p.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("inventory: code %q: %w", p.Code, shared.ErrDuplicate)
		}
		return fmt.Errorf("inventory: update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inventory: update product: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("inventory: product %d: %w", p.ID, shared.ErrNotFound)
	}
	var existing string
	if err := r.conn.GetContext(ctx, &existing, `SELECT created_at FROM products WHERE id = ?`, p.ID); err == nil {
		p.CreatedAt = existing
	}
	return nil
}

// GetByCode resolves a product through the unique code index.
func (r *Repository) GetByCode(ctx context.Context, code string) (Product, error) {
	var row productRow
	err := r.conn.GetContext(ctx, &row, `SELECT * FROM products WHERE code = ?`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("inventory: code %q: %w", code, shared.ErrNotFound)
	}
	if err != nil {
		return Product{}, fmt.Errorf("inventory: get by code: %w", err)
	}
	return row.toProduct(), nil
}

// List enumerates every product, most recently created first. Products
// with a missing created_at sort as the empty string, i.e. last.
func (r *Repository) List(ctx context.Context) ([]Product, error) {
	var rows []productRow
	if err := r.conn.SelectContext(ctx, &rows, `SELECT * FROM products ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("inventory: list products: %w", err)
	}
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toProduct())
	}
	return out, nil
}
