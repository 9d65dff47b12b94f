package reports

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/singleflight"

	"github.com/shopledger/shopledger/internal/expenses"
	"github.com/shopledger/shopledger/internal/inventory"
	"github.com/shopledger/shopledger/internal/sales"
	"github.com/shopledger/shopledger/internal/shared"
)

// SalesSource lists sales restricted to a date range.
type SalesSource interface {
	List(ctx context.Context, rng *shared.Range) ([]sales.Sale, error)
}

// ExpenseSource lists expenses restricted to a date range and category.
type ExpenseSource interface {
	List(ctx context.Context, rng *shared.Range, category string) ([]expenses.Expense, error)
}

// ProductSource dumps every product; category mode joins sales against
// the products' current categories.
type ProductSource interface {
	List(ctx context.Context) ([]inventory.Product, error)
}

// Service computes the four report modes, cache-aware and collapsed
// through singleflight so identical concurrent requests share one
// computation.
type Service struct {
	sales    SalesSource
	expenses ExpenseSource
	products ProductSource
	cache    *Cache
	group    singleflight.Group
}

// NewService wires the data sources with the cache helper.
func NewService(salesSrc SalesSource, expenseSrc ExpenseSource, productSrc ProductSource, cache *Cache) *Service {
	return &Service{sales: salesSrc, expenses: expenseSrc, products: productSrc, cache: cache}
}

// Sales resolves the time-bucketed sales report for the range.
func (s *Service) Sales(ctx context.Context, rng shared.Range) (SalesReport, error) {
	var report SalesReport
	err := s.fetch(ctx, ModeSales, rng, &report, func(ctx context.Context) (interface{}, error) {
		items, err := s.sales.List(ctx, &rng)
		if err != nil {
			return nil, err
		}
		return buildSalesReport(items, rng), nil
	})
	return report, err
}

// Expenses resolves the daily expense report for the range.
func (s *Service) Expenses(ctx context.Context, rng shared.Range) (ExpensesReport, error) {
	var report ExpensesReport
	err := s.fetch(ctx, ModeExpenses, rng, &report, func(ctx context.Context) (interface{}, error) {
		items, err := s.expenses.List(ctx, &rng, "")
		if err != nil {
			return nil, err
		}
		return buildExpensesReport(items), nil
	})
	return report, err
}

// ProfitAndLoss resolves the merged daily net report for the range.
func (s *Service) ProfitAndLoss(ctx context.Context, rng shared.Range) (PnLReport, error) {
	var report PnLReport
	err := s.fetch(ctx, ModePnL, rng, &report, func(ctx context.Context) (interface{}, error) {
		saleItems, err := s.sales.List(ctx, &rng)
		if err != nil {
			return nil, err
		}
		expenseItems, err := s.expenses.List(ctx, &rng, "")
		if err != nil {
			return nil, err
		}
		return buildPnLReport(saleItems, expenseItems), nil
	})
	return report, err
}

// Categories resolves the category breakdown for the range.
func (s *Service) Categories(ctx context.Context, rng shared.Range) (CategoryReport, error) {
	var report CategoryReport
	err := s.fetch(ctx, ModeCategory, rng, &report, func(ctx context.Context) (interface{}, error) {
		saleItems, err := s.sales.List(ctx, &rng)
		if err != nil {
			return nil, err
		}
		expenseItems, err := s.expenses.List(ctx, &rng, "")
		if err != nil {
			return nil, err
		}
		products, err := s.products.List(ctx)
		if err != nil {
			return nil, err
		}
		return buildCategoryReport(saleItems, expenseItems, products), nil
	})
	return report, err
}

// SalesLedger returns the raw sales rows for CSV download, uncached.
func (s *Service) SalesLedger(ctx context.Context, rng shared.Range) ([]sales.Sale, error) {
	return s.sales.List(ctx, &rng)
}

// ExpenseLedger returns the raw expense rows for CSV download, uncached.
func (s *Service) ExpenseLedger(ctx context.Context, rng shared.Range) ([]expenses.Expense, error) {
	return s.expenses.List(ctx, &rng, "")
}

// Cache exposes the bump hook wired into the write paths.
func (s *Service) Cache() *Cache {
	return s.cache
}

func (s *Service) fetch(ctx context.Context, mode Mode, rng shared.Range, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, keyReport(mode, rng.Start, rng.End)...)
	if err != nil {
		return err
	}
	// Duplicate concurrent requests share one computation; the raw JSON
	// is decoded per caller.
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		var raw json.RawMessage
		if err := s.cache.FetchJSON(ctx, key, &raw, loader); err != nil {
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.(json.RawMessage), dest)
}
