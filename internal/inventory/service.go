package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/shopledger/shopledger/internal/shared"
)

// RepositoryPort abstracts product persistence for the service.
type RepositoryPort interface {
	Upsert(ctx context.Context, p *Product) error
	GetByCode(ctx context.Context, code string) (Product, error)
	List(ctx context.Context) ([]Product, error)
}

// SoldIndex materialises the set of distinct sale codes. Sold status is
// a derived join over sales, never a stored flag.
type SoldIndex interface {
	SoldCodes(ctx context.Context) (map[string]struct{}, error)
}

// CacheBumper invalidates derived report views after a mutating write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service coordinates product operations.
type Service struct {
	repo   RepositoryPort
	sold   SoldIndex
	cache  CacheBumper
	logger *slog.Logger
}

// NewService builds Service.
func NewService(repo RepositoryPort, sold SoldIndex, cache CacheBumper, logger *slog.Logger) *Service {
	return &Service{repo: repo, sold: sold, cache: cache, logger: logger}
}

// Upsert validates and stores the product, assigning a generated code
// when the caller supplied none.
func (s *Service) Upsert(ctx context.Context, p *Product) error {
	if err := validate(p); err != nil {
		return err
	}
	p.Code = strings.TrimSpace(p.Code)
	if p.Code == "" {
		p.Code = uuid.NewString()
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// GetByCode resolves a product by natural key.
func (s *Service) GetByCode(ctx context.Context, code string) (Product, error) {
	return s.repo.GetByCode(ctx, code)
}

// List returns the filtered inventory view, most recently created first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var soldCodes map[string]struct{}
	if filter.Status == StatusAvailable || filter.Status == StatusSold {
		soldCodes, err = s.sold.SoldCodes(ctx)
		if err != nil {
			return nil, err
		}
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]Product, 0, len(all))
	for _, p := range all {
		if search != "" && !strings.Contains(strings.ToLower(p.Title+p.Code), search) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Tag != "" && !p.HasTag(filter.Tag) {
			continue
		}
		if soldCodes != nil {
			_, isSold := soldCodes[p.Code]
			if filter.Status == StatusSold && !isSold {
				continue
			}
			if filter.Status == StatusAvailable && isSold {
				continue
			}
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("report cache bump failed", slog.Any("error", err))
	}
}

func validate(p *Product) error {
	if p == nil {
		return fmt.Errorf("%w: product required", shared.ErrValidation)
	}
	if p.PurchasePrice < 0 {
		return fmt.Errorf("%w: purchase price must not be negative", shared.ErrValidation)
	}
	if p.ShippingCost < 0 {
		return fmt.Errorf("%w: shipping cost must not be negative", shared.ErrValidation)
	}
	if p.ListPrice < 0 {
		return fmt.Errorf("%w: list price must not be negative", shared.ErrValidation)
	}
	return nil
}
