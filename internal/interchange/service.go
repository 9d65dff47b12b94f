package interchange

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopledger/shopledger/internal/expenses"
	"github.com/shopledger/shopledger/internal/inventory"
	"github.com/shopledger/shopledger/internal/sales"
	"github.com/shopledger/shopledger/internal/shared"
)

// ProductSource dumps every product for export.
type ProductSource interface {
	List(ctx context.Context) ([]inventory.Product, error)
}

// SaleSource dumps every sale for export.
type SaleSource interface {
	List(ctx context.Context, rng *shared.Range) ([]sales.Sale, error)
}

// ExpenseSource dumps every expense for export.
type ExpenseSource interface {
	List(ctx context.Context, rng *shared.Range, category string) ([]expenses.Expense, error)
}

// StoreIdentity resolves the stable store identifier stamped into
// snapshots.
type StoreIdentity interface {
	StoreID(ctx context.Context) (string, error)
}

// CacheBumper invalidates derived report views after a mutating write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// TxRunner runs a restore inside one store transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// Service implements full-store backup and restore in the JSON and
// sectioned-CSV interchange formats.
type Service struct {
	products ProductSource
	sales    SaleSource
	expenses ExpenseSource
	identity StoreIdentity
	repo     TxRunner
	cache    CacheBumper
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds Service.
func NewService(products ProductSource, salesSrc SaleSource, expenseSrc ExpenseSource, identity StoreIdentity, repo TxRunner, cache CacheBumper, logger *slog.Logger) *Service {
	return &Service{
		products: products,
		sales:    salesSrc,
		expenses: expenseSrc,
		identity: identity,
		repo:     repo,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

func (s *Service) dump(ctx context.Context) (Snapshot, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	saleItems, err := s.sales.List(ctx, nil)
	if err != nil {
		return Snapshot{}, err
	}
	expenseItems, err := s.expenses.List(ctx, nil, "")
	if err != nil {
		return Snapshot{}, err
	}
	storeID := ""
	if s.identity != nil {
		if id, err := s.identity.StoreID(ctx); err == nil {
			storeID = id
		} else if s.logger != nil {
			s.logger.Warn("resolve store id", slog.Any("error", err))
		}
	}
	return Snapshot{
		Products:   products,
		Sales:      saleItems,
		Expenses:   expenseItems,
		ExportedAt: s.now().UTC().Format(time.RFC3339),
		StoreID:    storeID,
		Version:    SnapshotVersion,
	}, nil
}

// Wipe deletes every product, sale, and expense in one transaction.
func (s *Service) Wipe(ctx context.Context) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.WipeAll(ctx)
	})
	if err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("bump report cache", slog.Any("error", err))
	}
}
