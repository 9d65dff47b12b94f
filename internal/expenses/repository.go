package expenses

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shopledger/shopledger/internal/shared"
)

// Repository persists expense entries in the embedded store.
type Repository struct {
	conn *sqlx.DB
}

// NewRepository constructs Repository.
func NewRepository(conn *sqlx.DB) *Repository {
	return &Repository{conn: conn}
}

// Insert stores the expense and assigns its identity.
func (r *Repository) Insert(ctx context.Context, e *Expense) error {
	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO expenses (title, amount, category, note, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.Title, e.Amount, e.Category, e.Note, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("expenses: insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("expenses: insert expense id: %w", err)
	}
	e.ID = id
	return nil
}

// List returns expenses ordered oldest first, optionally restricted to
// an inclusive date range and an exact-match category.
func (r *Repository) List(ctx context.Context, rng *shared.Range, category string) ([]Expense, error) {
	query := `SELECT id, title, amount, category, note, created_at FROM expenses`
	var clauses []string
	var args []any
	if rng != nil && !rng.IsZero() {
		clauses = append(clauses, `created_at >= ? AND created_at <= ?`)
		args = append(args, rng.Start, rng.End)
	}
	if category != "" {
		clauses = append(clauses, `category = ?`)
		args = append(args, category)
	}
	for i, c := range clauses {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}
	query += ` ORDER BY created_at ASC, id ASC`

	var out []Expense
	if err := r.conn.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("expenses: list expenses: %w", err)
	}
	return out, nil
}
