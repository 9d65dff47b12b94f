package settings

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopledger/shopledger/internal/money"
	"github.com/shopledger/shopledger/internal/shared"
)

type mockRepo struct {
	row   *Settings
	inits int
}

func (m *mockRepo) Get(ctx context.Context) (Settings, error) {
	if m.row == nil {
		return Settings{}, fmt.Errorf("settings: %w", shared.ErrNotFound)
	}
	return *m.row, nil
}

func (m *mockRepo) Init(ctx context.Context, s Settings) error {
	m.inits++
	if m.row == nil {
		m.row = &s
	}
	return nil
}

func (m *mockRepo) Update(ctx context.Context, s Settings) error {
	if m.row == nil {
		return fmt.Errorf("settings: %w", shared.ErrNotFound)
	}
	s.StoreID = m.row.StoreID
	*m.row = s
	return nil
}

func TestEnsureDefaultsCreatesOnce(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	first, err := svc.EnsureDefaults(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first.StoreID)
	assert.Equal(t, "$", first.CurrencySymbol)
	assert.Equal(t, money.LabelSymbol, first.LabelStyle)

	second, err := svc.EnsureDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.StoreID, second.StoreID)
	assert.Equal(t, 1, repo.inits)
}

func TestUpdateNormalises(t *testing.T) {
	repo := &mockRepo{row: &Settings{StoreID: "store-1", CurrencySymbol: "$", CurrencyCode: "USD", LabelStyle: money.LabelSymbol}}
	svc := NewService(repo, nil)

	updated, err := svc.Update(context.Background(), Settings{
		DisplayName:    "Corner Shop",
		CurrencySymbol: " € ",
		CurrencyCode:   " eur ",
		LabelStyle:     "shout",
	})
	require.NoError(t, err)

	assert.Equal(t, "store-1", updated.StoreID)
	assert.Equal(t, "€", updated.CurrencySymbol)
	assert.Equal(t, "EUR", updated.CurrencyCode)
	assert.Equal(t, money.LabelSymbol, updated.LabelStyle)
}

func TestUpdateBlankCurrencyFallsBack(t *testing.T) {
	repo := &mockRepo{row: &Settings{StoreID: "store-1"}}
	svc := NewService(repo, nil)

	updated, err := svc.Update(context.Background(), Settings{LabelStyle: money.LabelCode})
	require.NoError(t, err)
	assert.Equal(t, "$", updated.CurrencySymbol)
	assert.Equal(t, "USD", updated.CurrencyCode)
	assert.Equal(t, money.LabelCode, updated.LabelStyle)
}

func TestStoreID(t *testing.T) {
	repo := &mockRepo{row: &Settings{StoreID: "store-1"}}
	svc := NewService(repo, nil)

	id, err := svc.StoreID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "store-1", id)
}

func TestFormatterFromSettings(t *testing.T) {
	s := Settings{CurrencySymbol: "£", CurrencyCode: "GBP", LabelStyle: money.LabelCode}
	assert.Equal(t, "1,234.50 GBP", s.Formatter().Format(1234.5))
}
