package interchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopledger/shopledger/internal/shared"
)

// ExportJSON assembles the full-store snapshot.
func (s *Service) ExportJSON(ctx context.Context) (Snapshot, error) {
	return s.dump(ctx)
}

// rawSnapshot defers array decoding so presence and shape can be
// checked before any record is touched.
type rawSnapshot struct {
	Products json.RawMessage `json:"products"`
	Sales    json.RawMessage `json:"sales"`
	Expenses json.RawMessage `json:"expenses"`
}

// ImportJSON replaces the whole store with the snapshot contents.
// Products and sales must be present as arrays; expenses may be
// absent. The wipe and every insert run in one transaction, with
// per-record failures (duplicate codes included) counted and skipped
// rather than aborting the restore.
func (s *Service) ImportJSON(ctx context.Context, data []byte) (ImportReport, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return ImportReport{}, fmt.Errorf("interchange: snapshot: %w", shared.ErrInvalidFormat)
	}
	if !isJSONArray(raw.Products) || !isJSONArray(raw.Sales) {
		return ImportReport{}, fmt.Errorf("interchange: snapshot needs products and sales arrays: %w", shared.ErrInvalidFormat)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw.Products, &snap.Products); err != nil {
		return ImportReport{}, fmt.Errorf("interchange: products: %w", shared.ErrInvalidFormat)
	}
	if err := json.Unmarshal(raw.Sales, &snap.Sales); err != nil {
		return ImportReport{}, fmt.Errorf("interchange: sales: %w", shared.ErrInvalidFormat)
	}
	if len(raw.Expenses) > 0 {
		if err := json.Unmarshal(raw.Expenses, &snap.Expenses); err != nil {
			return ImportReport{}, fmt.Errorf("interchange: expenses: %w", shared.ErrInvalidFormat)
		}
	}

	now := s.now().UTC().Format(time.RFC3339)
	var report ImportReport
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.WipeAll(ctx); err != nil {
			return err
		}
		for i := range snap.Products {
			p := snap.Products[i]
			p.ID = 0
			if p.CreatedAt == "" {
				p.CreatedAt = now
			}
			if p.UpdatedAt == "" {
				p.UpdatedAt = now
			}
			if err := tx.InsertProduct(ctx, &p); err != nil {
				report.Skipped++
				if s.logger != nil {
					s.logger.Warn("skip product on restore", slog.String("code", p.Code), slog.Any("error", err))
				}
				continue
			}
			report.Products++
		}
		for i := range snap.Sales {
			sale := snap.Sales[i]
			sale.ID = 0
			if err := tx.InsertSale(ctx, &sale); err != nil {
				report.Skipped++
				if s.logger != nil {
					s.logger.Warn("skip sale on restore", slog.String("code", sale.Code), slog.Any("error", err))
				}
				continue
			}
			report.Sales++
		}
		for i := range snap.Expenses {
			e := snap.Expenses[i]
			e.ID = 0
			if err := tx.InsertExpense(ctx, &e); err != nil {
				report.Skipped++
				if s.logger != nil {
					s.logger.Warn("skip expense on restore", slog.String("title", e.Title), slog.Any("error", err))
				}
				continue
			}
			report.Expenses++
		}
		return nil
	})
	if err != nil {
		return ImportReport{}, err
	}
	s.bump(ctx)
	return report, nil
}

func isJSONArray(raw json.RawMessage) bool {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
