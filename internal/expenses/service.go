package expenses

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopledger/shopledger/internal/shared"
)

// RepositoryPort abstracts expense persistence for the service.
type RepositoryPort interface {
	Insert(ctx context.Context, e *Expense) error
	List(ctx context.Context, rng *shared.Range, category string) ([]Expense, error)
}

// CacheBumper invalidates derived report views after a mutating write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service coordinates expense entries.
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

// Add records the expense with a generated creation timestamp.
func (s *Service) Add(ctx context.Context, e *Expense) error {
	if e == nil {
		return fmt.Errorf("%w: expense required", shared.ErrValidation)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title required", shared.ErrValidation)
	}
	if e.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", shared.ErrValidation)
	}
	if e.CreatedAt == "" {
		e.CreatedAt = s.now().UTC().Format(time.RFC3339)
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// List returns expenses, optionally restricted to an inclusive date
// range and an exact-match category.
func (s *Service) List(ctx context.Context, rng *shared.Range, category string) ([]Expense, error) {
	return s.repo.List(ctx, rng, category)
}

func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("report cache bump failed", slog.Any("error", err))
	}
}
