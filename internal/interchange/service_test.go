package interchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopledger/shopledger/internal/expenses"
	"github.com/shopledger/shopledger/internal/inventory"
	"github.com/shopledger/shopledger/internal/sales"
	"github.com/shopledger/shopledger/internal/shared"
)

// memStore backs both the read sources and the transactional writes,
// so exports and imports in a test observe the same data.
type memStore struct {
	products []inventory.Product
	sales    []sales.Sale
	expenses []expenses.Expense
	nextID   int64
	wipes    int
}

func (m *memStore) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *memStore) WipeAll(ctx context.Context) error {
	m.products = nil
	m.sales = nil
	m.expenses = nil
	m.wipes++
	return nil
}

func (m *memStore) InsertProduct(ctx context.Context, p *inventory.Product) error {
	for _, existing := range m.products {
		if existing.Code == p.Code {
			return fmt.Errorf("interchange: code %q: %w", p.Code, shared.ErrDuplicate)
		}
	}
	m.nextID++
	p.ID = m.nextID
	m.products = append(m.products, *p)
	return nil
}

func (m *memStore) InsertSale(ctx context.Context, s *sales.Sale) error {
	m.nextID++
	s.ID = m.nextID
	m.sales = append(m.sales, *s)
	return nil
}

func (m *memStore) InsertExpense(ctx context.Context, e *expenses.Expense) error {
	m.nextID++
	e.ID = m.nextID
	m.expenses = append(m.expenses, *e)
	return nil
}

func (m *memStore) List(ctx context.Context) ([]inventory.Product, error) {
	return m.products, nil
}

type saleSource struct{ store *memStore }

func (s saleSource) List(ctx context.Context, rng *shared.Range) ([]sales.Sale, error) {
	return s.store.sales, nil
}

type expenseSource struct{ store *memStore }

func (s expenseSource) List(ctx context.Context, rng *shared.Range, category string) ([]expenses.Expense, error) {
	return s.store.expenses, nil
}

type fixedIdentity string

func (f fixedIdentity) StoreID(ctx context.Context) (string, error) { return string(f), nil }

type countingBumper struct{ bumps int }

func (b *countingBumper) Bump(ctx context.Context) error {
	b.bumps++
	return nil
}

func newTestService(store *memStore) (*Service, *countingBumper) {
	bumper := &countingBumper{}
	svc := NewService(store, saleSource{store}, expenseSource{store}, fixedIdentity("store-1"), store, bumper, nil)
	svc.WithNow(func() time.Time { return time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC) })
	return svc, bumper
}

func TestExportJSONStampsEnvelope(t *testing.T) {
	store := &memStore{products: []inventory.Product{{Code: "c1", Title: "Shirt"}}}
	svc, _ := newTestService(store)

	snap, err := svc.ExportJSON(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-03-18T12:00:00Z", snap.ExportedAt)
	assert.Equal(t, "store-1", snap.StoreID)
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Len(t, snap.Products, 1)
}

func TestImportJSONWipesAndCounts(t *testing.T) {
	store := &memStore{products: []inventory.Product{{Code: "old", Title: "Old"}}}
	svc, bumper := newTestService(store)

	payload := `{
		"products": [{"code": "c1", "title": "Shirt"}, {"code": "c2", "title": "Mug", "createdAt": "2026-01-01T00:00:00Z"}],
		"sales": [{"code": "c1", "sellingPrice": 20, "profit": 7, "soldAt": "2026-02-01T10:00:00Z"}],
		"expenses": [{"title": "tape", "amount": 3}]
	}`
	report, err := svc.ImportJSON(context.Background(), []byte(payload))
	require.NoError(t, err)

	assert.Equal(t, ImportReport{Products: 2, Sales: 1, Expenses: 1}, report)
	assert.Equal(t, 1, store.wipes)
	assert.Equal(t, 1, bumper.bumps)

	// Missing timestamps backfill with the import time; present ones
	// survive untouched.
	assert.Equal(t, "2026-03-18T12:00:00Z", store.products[0].CreatedAt)
	assert.Equal(t, "2026-01-01T00:00:00Z", store.products[1].CreatedAt)
	assert.Equal(t, 7.0, store.sales[0].Profit)
}

func TestImportJSONSkipsDuplicates(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestService(store)

	payload := `{
		"products": [{"code": "c1", "title": "Shirt"}, {"code": "c1", "title": "Clone"}],
		"sales": []
	}`
	report, err := svc.ImportJSON(context.Background(), []byte(payload))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Products)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, store.products, 1)
	assert.Equal(t, "Shirt", store.products[0].Title)
}

func TestImportJSONRejectsMalformedSnapshots(t *testing.T) {
	store := &memStore{products: []inventory.Product{{Code: "keep", Title: "Keep"}}}
	svc, _ := newTestService(store)
	ctx := context.Background()

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "nope"},
		{"missing sales", `{"products": []}`},
		{"products not array", `{"products": {}, "sales": []}`},
		{"sales not array", `{"products": [], "sales": 5}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ImportJSON(ctx, []byte(tc.payload))
			assert.ErrorIs(t, err, shared.ErrInvalidFormat)
		})
	}

	// Rejected payloads leave the store untouched.
	assert.Len(t, store.products, 1)
	assert.Equal(t, 0, store.wipes)
}

func TestImportJSONOptionalExpenses(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestService(store)

	report, err := svc.ImportJSON(context.Background(), []byte(`{"products": [], "sales": []}`))
	require.NoError(t, err)
	assert.Equal(t, ImportReport{}, report)
}

func TestJSONRoundTrip(t *testing.T) {
	store := &memStore{
		products: []inventory.Product{
			{ID: 1, Code: "c1", Title: "Shirt", Category: "Shirts", PurchasePrice: 10, ShippingCost: 3, ListPrice: 25, Tags: []string{"summer", "cotton"}, Photo: []byte{0x1, 0x2}, CreatedAt: "2026-01-01T00:00:00Z", UpdatedAt: "2026-01-02T00:00:00Z"},
		},
		sales:    []sales.Sale{{ID: 2, Code: "c1", SellingPrice: 20, Profit: 7, SoldAt: "2026-02-01T10:00:00Z"}},
		expenses: []expenses.Expense{{ID: 3, Title: "tape", Amount: 3.5, Category: "Supplies", CreatedAt: "2026-02-02T09:00:00Z"}},
		nextID:   3,
	}
	svc, _ := newTestService(store)
	ctx := context.Background()

	snap, err := svc.ExportJSON(ctx)
	require.NoError(t, err)
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	report, err := svc.ImportJSON(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, ImportReport{Products: 1, Sales: 1, Expenses: 1}, report)

	require.Len(t, store.products, 1)
	got := store.products[0]
	assert.Equal(t, "c1", got.Code)
	assert.Equal(t, []string{"summer", "cotton"}, got.Tags)
	assert.Equal(t, []byte{0x1, 0x2}, got.Photo)
	assert.Equal(t, "2026-01-01T00:00:00Z", got.CreatedAt)
	assert.Equal(t, 7.0, store.sales[0].Profit)
	assert.Equal(t, 3.5, store.expenses[0].Amount)
}

func TestExportCSVEmitsAllSections(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestService(store)

	buf := &bytes.Buffer{}
	require.NoError(t, svc.ExportCSV(context.Background(), buf))

	text := buf.String()
	assert.Contains(t, text, "# PRODUCTS\n")
	assert.Contains(t, text, "# SALES\n")
	assert.Contains(t, text, "# EXPENSES\n")
	assert.True(t, strings.HasSuffix(text, "\n"), "missing trailing newline")
}

func TestCSVRoundTrip(t *testing.T) {
	store := &memStore{
		products: []inventory.Product{
			{Code: "c1", Title: `Shirt, "fancy"`, Category: "Shirts", PurchasePrice: 10.5, ShippingCost: 3, ListPrice: 25, Notes: "keep dry", Tags: []string{"summer", "cotton"}, Photo: []byte{0xde, 0xad}, CreatedAt: "2026-01-01T00:00:00Z", UpdatedAt: "2026-01-02T00:00:00Z"},
		},
		sales:    []sales.Sale{{Code: "c1", SellingPrice: 20, Profit: 6.5, SoldAt: "2026-02-01T10:00:00Z"}},
		expenses: []expenses.Expense{{Title: "tape", Amount: 3.5, Category: "Supplies", Note: "bulk", CreatedAt: "2026-02-02T09:00:00Z"}},
	}
	svc, _ := newTestService(store)
	ctx := context.Background()

	buf := &bytes.Buffer{}
	require.NoError(t, svc.ExportCSV(ctx, buf))

	// Restore into a fresh store.
	fresh := &memStore{}
	svc2, _ := newTestService(fresh)
	report, err := svc2.ImportCSV(ctx, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ImportReport{Products: 1, Sales: 1, Expenses: 1}, report)

	require.Len(t, fresh.products, 1)
	got := fresh.products[0]
	assert.Equal(t, `Shirt, "fancy"`, got.Title)
	assert.Equal(t, 10.5, got.PurchasePrice)
	assert.Equal(t, []string{"summer", "cotton"}, got.Tags)
	assert.Equal(t, []byte{0xde, 0xad}, got.Photo)
	assert.Equal(t, "2026-01-01T00:00:00Z", got.CreatedAt)

	require.Len(t, fresh.sales, 1)
	assert.Equal(t, 6.5, fresh.sales[0].Profit)
	require.Len(t, fresh.expenses, 1)
	assert.Equal(t, "bulk", fresh.expenses[0].Note)
}

func TestCSVRoundTripMultilineNotes(t *testing.T) {
	store := &memStore{
		products: []inventory.Product{
			{Code: "c1", Title: "Shirt", Notes: "line1\n\nline2", CreatedAt: "2026-01-01T00:00:00Z", UpdatedAt: "2026-01-01T00:00:00Z"},
			{Code: "c2", Title: "Hat", Notes: "see\n# SALES\nledger", CreatedAt: "2026-01-01T00:00:00Z", UpdatedAt: "2026-01-01T00:00:00Z"},
		},
	}
	svc, _ := newTestService(store)
	ctx := context.Background()

	buf := &bytes.Buffer{}
	require.NoError(t, svc.ExportCSV(ctx, buf))

	fresh := &memStore{}
	svc2, _ := newTestService(fresh)
	report, err := svc2.ImportCSV(ctx, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ImportReport{Products: 2}, report)

	require.Len(t, fresh.products, 2)
	// Blank lines and marker-shaped lines inside quoted fields are data.
	assert.Equal(t, "line1\n\nline2", fresh.products[0].Notes)
	assert.Equal(t, "see\n# SALES\nledger", fresh.products[1].Notes)
}

func TestImportCSVMarkedSections(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestService(store)

	csvText := "# PRODUCTS\ncode,title\n\"c1\",\"t1\"\n\n# SALES\ncode,sellingPrice,profit,soldAt\n\"c1\",\"10\",\"2\",\"2024-01-01T00:00:00Z\"\n"
	report, err := svc.ImportCSV(context.Background(), []byte(csvText))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Products)
	assert.Equal(t, 1, report.Sales)
	require.Len(t, store.sales, 1)
	// The profit column lands verbatim, never recomputed from costs.
	assert.Equal(t, 2.0, store.sales[0].Profit)
}

func TestImportCSVMarkerCaseInsensitive(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestService(store)

	csvText := "#products\ncode,title\nc9,Hat\n"
	report, err := svc.ImportCSV(context.Background(), []byte(csvText))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Products)
}

func TestImportCSVBareProductList(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestService(store)

	report, err := svc.ImportCSV(context.Background(), []byte("title\nShirt"))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Products)
	require.Len(t, store.products, 1)
	assert.Equal(t, "Shirt", store.products[0].Title)
	assert.NotEmpty(t, store.products[0].Code)
	assert.Equal(t, "2026-03-18T12:00:00Z", store.products[0].CreatedAt)
}

func TestImportCSVBareWithoutTitleColumn(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestService(store)

	_, err := svc.ImportCSV(context.Background(), []byte("name,price\nShirt,10"))
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)
	assert.Empty(t, store.products)
}

func TestImportCSVDuplicateCodeFails(t *testing.T) {
	store := &memStore{products: []inventory.Product{{Code: "c1", Title: "Existing"}}}
	svc, _ := newTestService(store)

	csvText := "# PRODUCTS\ncode,title\nc1,Clone\n"
	_, err := svc.ImportCSV(context.Background(), []byte(csvText))
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestWipe(t *testing.T) {
	store := &memStore{products: []inventory.Product{{Code: "c1"}}}
	svc, bumper := newTestService(store)

	require.NoError(t, svc.Wipe(context.Background()))
	assert.Empty(t, store.products)
	assert.Equal(t, 1, bumper.bumps)
}
