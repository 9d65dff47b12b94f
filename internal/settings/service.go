package settings

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/shopledger/shopledger/internal/money"
	"github.com/shopledger/shopledger/internal/shared"
)

// RepositoryPort abstracts settings persistence for the service.
type RepositoryPort interface {
	Get(ctx context.Context) (Settings, error)
	Init(ctx context.Context, s Settings) error
	Update(ctx context.Context, s Settings) error
}

// Service coordinates settings reads and writes.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService builds Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// EnsureDefaults creates the settings row on first start, generating
// the store identity. Safe to call on every start.
func (s *Service) EnsureDefaults(ctx context.Context) (Settings, error) {
	current, err := s.repo.Get(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return Settings{}, err
	}

	defaults := Settings{
		StoreID:        uuid.NewString(),
		CurrencySymbol: "$",
		CurrencyCode:   "USD",
		LabelStyle:     money.LabelSymbol,
	}
	if err := s.repo.Init(ctx, defaults); err != nil {
		return Settings{}, err
	}
	if s.logger != nil {
		s.logger.Info("initialised store settings", slog.String("store_id", defaults.StoreID))
	}
	// Re-read in case another start raced the insert.
	return s.repo.Get(ctx)
}

// Get returns the current settings.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	return s.repo.Get(ctx)
}

// Update validates and stores the mutable settings fields.
func (s *Service) Update(ctx context.Context, in Settings) (Settings, error) {
	in.CurrencySymbol = strings.TrimSpace(in.CurrencySymbol)
	in.CurrencyCode = strings.ToUpper(strings.TrimSpace(in.CurrencyCode))
	if in.LabelStyle != money.LabelCode {
		in.LabelStyle = money.LabelSymbol
	}
	if in.CurrencySymbol == "" {
		in.CurrencySymbol = "$"
	}
	if in.CurrencyCode == "" {
		in.CurrencyCode = "USD"
	}
	if err := s.repo.Update(ctx, in); err != nil {
		return Settings{}, err
	}
	return s.repo.Get(ctx)
}

// StoreID resolves the stable store identifier.
func (s *Service) StoreID(ctx context.Context) (string, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}
	return current.StoreID, nil
}
