package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shopledger/shopledger/internal/shared"
)

// Repository persists the one-row settings record.
type Repository struct {
	conn *sqlx.DB
}

// NewRepository constructs Repository.
func NewRepository(conn *sqlx.DB) *Repository {
	return &Repository{conn: conn}
}

// Get reads the settings row.
func (r *Repository) Get(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.conn.GetContext(ctx, &s, `SELECT store_id, display_name, currency_symbol, currency_code, label_style FROM settings WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return Settings{}, fmt.Errorf("settings: %w", shared.ErrNotFound)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("settings: get: %w", err)
	}
	return s, nil
}

// Init inserts the row if no settings exist yet.
func (r *Repository) Init(ctx context.Context, s Settings) error {
	_, err := r.conn.ExecContext(ctx, `
		INSERT INTO settings (id, store_id, display_name, currency_symbol, currency_code, label_style)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		s.StoreID, s.DisplayName, s.CurrencySymbol, s.CurrencyCode, string(s.LabelStyle))
	if err != nil {
		return fmt.Errorf("settings: init: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields; the store id never changes.
func (r *Repository) Update(ctx context.Context, s Settings) error {
	res, err := r.conn.ExecContext(ctx, `
		UPDATE settings
		SET display_name = ?, currency_symbol = ?, currency_code = ?, label_style = ?
		WHERE id = 1`,
		s.DisplayName, s.CurrencySymbol, s.CurrencyCode, string(s.LabelStyle))
	if err != nil {
		return fmt.Errorf("settings: update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("settings: update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("settings: %w", shared.ErrNotFound)
	}
	return nil
}
