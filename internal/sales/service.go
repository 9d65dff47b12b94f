package sales

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopledger/shopledger/internal/money"
	"github.com/shopledger/shopledger/internal/shared"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, rng *shared.Range) ([]Sale, error)
	SoldCodes(ctx context.Context) (map[string]struct{}, error)
}

// CacheBumper invalidates derived report views after a mutating write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service coordinates sale events.
type Service struct {
	repo   RepositoryPort
	cache  CacheBumper
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort, cache CacheBumper, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Record marks one unit of the coded product as sold. The profit is
// snapshotted from the product's current cost fields inside a single
// transaction: sellingPrice - purchasePrice - shippingCost, rounded to
// two decimals.
func (s *Service) Record(ctx context.Context, code string, sellingPrice float64) (Sale, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Sale{}, fmt.Errorf("%w: code required", shared.ErrValidation)
	}
	if sellingPrice < 0 {
		return Sale{}, fmt.Errorf("%w: selling price must not be negative", shared.ErrValidation)
	}

	var sale Sale
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		costs, err := tx.GetProductCosts(ctx, code)
		if err != nil {
			return err
		}
		sale = Sale{
			Code:         code,
			SellingPrice: sellingPrice,
			Profit:       money.Round2(sellingPrice - costs.PurchasePrice - costs.ShippingCost),
			SoldAt:       s.now().UTC().Format(time.RFC3339),
		}
		return tx.InsertSale(ctx, &sale)
	})
	if err != nil {
		return Sale{}, err
	}
	s.bump(ctx)
	return sale, nil
}

// Undo deletes the sale record. It reports false without error when the
// id no longer exists; product state is never touched.
func (s *Service) Undo(ctx context.Context, id int64) (bool, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.bump(ctx)
	}
	return removed, nil
}

// List returns sales, optionally restricted to an inclusive date range.
func (s *Service) List(ctx context.Context, rng *shared.Range) ([]Sale, error) {
	return s.repo.List(ctx, rng)
}

// SoldCodes exposes the derived sold set for the inventory view.
func (s *Service) SoldCodes(ctx context.Context) (map[string]struct{}, error) {
	return s.repo.SoldCodes(ctx)
}

func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("report cache bump failed", slog.Any("error", err))
	}
}
