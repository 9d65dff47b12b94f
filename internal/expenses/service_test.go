package expenses

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopledger/shopledger/internal/shared"
)

type mockRepository struct {
	rows   []Expense
	nextID int64
}

func (m *mockRepository) Insert(ctx context.Context, e *Expense) error {
	m.nextID++
	e.ID = m.nextID
	m.rows = append(m.rows, *e)
	return nil
}

func (m *mockRepository) List(ctx context.Context, rng *shared.Range, category string) ([]Expense, error) {
	var out []Expense
	for _, e := range m.rows {
		if rng != nil && !rng.IsZero() && !rng.Contains(e.CreatedAt) {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type mockBumper struct {
	bumps int
}

func (b *mockBumper) Bump(ctx context.Context) error {
	b.bumps++
	return nil
}

func newTestService(repo *mockRepository) (*Service, *mockBumper) {
	bumper := &mockBumper{}
	svc := NewService(repo, bumper, nil)
	svc.WithNow(func() time.Time { return time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC) })
	return svc, bumper
}

func TestAddStampsCreatedAt(t *testing.T) {
	repo := &mockRepository{}
	svc, bumper := newTestService(repo)

	e := Expense{Title: "tape", Amount: 3.5}
	require.NoError(t, svc.Add(context.Background(), &e))

	assert.Equal(t, "2026-03-18T12:00:00Z", e.CreatedAt)
	assert.NotZero(t, e.ID)
	assert.Equal(t, 1, bumper.bumps)
}

func TestAddKeepsExplicitCreatedAt(t *testing.T) {
	repo := &mockRepository{}
	svc, _ := newTestService(repo)

	e := Expense{Title: "rent", Amount: 100, CreatedAt: "2026-01-01T00:00:00Z"}
	require.NoError(t, svc.Add(context.Background(), &e))
	assert.Equal(t, "2026-01-01T00:00:00Z", e.CreatedAt)
}

func TestAddValidation(t *testing.T) {
	repo := &mockRepository{}
	svc, bumper := newTestService(repo)
	ctx := context.Background()

	err := svc.Add(ctx, &Expense{Title: "  ", Amount: 1})
	assert.ErrorIs(t, err, shared.ErrValidation)

	err = svc.Add(ctx, &Expense{Title: "tape", Amount: -1})
	assert.ErrorIs(t, err, shared.ErrValidation)

	// Zero amounts are allowed.
	err = svc.Add(ctx, &Expense{Title: "freebie"})
	assert.NoError(t, err)

	assert.Equal(t, 1, bumper.bumps)
}

func TestListFilters(t *testing.T) {
	repo := &mockRepository{}
	svc, _ := newTestService(repo)
	ctx := context.Background()

	for _, e := range []Expense{
		{Title: "tape", Amount: 3, Category: "Supplies", CreatedAt: "2026-03-01T10:00:00Z"},
		{Title: "rent", Amount: 100, Category: "Rent", CreatedAt: "2026-03-05T10:00:00Z"},
		{Title: "boxes", Amount: 8, Category: "Supplies", CreatedAt: "2026-03-10T10:00:00Z"},
	} {
		e := e
		require.NoError(t, svc.Add(ctx, &e))
	}

	items, err := svc.List(ctx, nil, "Supplies")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	rng := &shared.Range{Start: "2026-03-01T00:00:00Z", End: "2026-03-06T00:00:00Z"}
	items, err = svc.List(ctx, rng, "")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.List(ctx, rng, "Rent")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "rent", items[0].Title)
}
