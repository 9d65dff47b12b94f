package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopledger/shopledger/internal/expenses"
	"github.com/shopledger/shopledger/internal/inventory"
	"github.com/shopledger/shopledger/internal/sales"
	"github.com/shopledger/shopledger/internal/shared"
)

func TestGranularityFor(t *testing.T) {
	tests := []struct {
		name string
		rng  shared.Range
		want Granularity
	}{
		{"same day", shared.Range{Start: "2026-03-01T00:00:00Z", End: "2026-03-01T23:59:59Z"}, GranularityHour},
		{"exactly two days", shared.Range{Start: "2026-03-01T00:00:00Z", End: "2026-03-03T00:00:00Z"}, GranularityHour},
		{"week", shared.Range{Start: "2026-03-01T00:00:00Z", End: "2026-03-08T00:00:00Z"}, GranularityDay},
		{"unbounded", shared.Range{}, GranularityDay},
		{"garbage", shared.Range{Start: "not-a-date", End: "2026-03-01T00:00:00Z"}, GranularityDay},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, granularityFor(tc.rng))
		})
	}
}

func TestBuildSalesReportDaily(t *testing.T) {
	rng := shared.Range{Start: "2026-03-01T00:00:00Z", End: "2026-03-10T00:00:00Z"}
	items := []sales.Sale{
		{Code: "a", SellingPrice: 10.004, Profit: 3.0, SoldAt: "2026-03-02T09:15:00Z"},
		{Code: "b", SellingPrice: 20.004, Profit: 5.0, SoldAt: "2026-03-02T17:45:00Z"},
		{Code: "c", SellingPrice: 15.0, Profit: 4.5, SoldAt: "2026-03-04T08:00:00Z"},
	}

	report := buildSalesReport(items, rng)

	assert.Equal(t, GranularityDay, report.Granularity)
	require.Len(t, report.Buckets, 2)
	assert.Equal(t, "2026-03-02", report.Buckets[0].Label)
	assert.Equal(t, 2, report.Buckets[0].Count)
	// Per-bucket sums round after accumulation, not per sale.
	assert.Equal(t, 30.01, report.Buckets[0].Gross)
	assert.Equal(t, "2026-03-04", report.Buckets[1].Label)

	assert.Equal(t, 3, report.KPI.Items)
	assert.Equal(t, 45.01, report.KPI.Gross)
	assert.Equal(t, 12.5, report.KPI.Profit)
	assert.Equal(t, 15.0, report.KPI.AvgPrice)
}

func TestBuildSalesReportHourly(t *testing.T) {
	rng := shared.Range{Start: "2026-03-02T00:00:00Z", End: "2026-03-02T23:59:59Z"}
	items := []sales.Sale{
		{Code: "a", SellingPrice: 10, Profit: 2, SoldAt: "2026-03-02T09:15:00Z"},
		{Code: "b", SellingPrice: 20, Profit: 4, SoldAt: "2026-03-02T09:59:00Z"},
		{Code: "c", SellingPrice: 5, Profit: 1, SoldAt: "2026-03-02T18:05:00Z"},
	}

	report := buildSalesReport(items, rng)

	assert.Equal(t, GranularityHour, report.Granularity)
	require.Len(t, report.Buckets, 2)
	assert.Equal(t, "2026-03-02 09:00", report.Buckets[0].Label)
	assert.Equal(t, 2, report.Buckets[0].Count)
	assert.Equal(t, "2026-03-02 18:00", report.Buckets[1].Label)
}

func TestBuildSalesReportEmpty(t *testing.T) {
	report := buildSalesReport(nil, shared.Range{})
	assert.Equal(t, 0, report.KPI.Items)
	assert.Equal(t, 0.0, report.KPI.AvgPrice)
	assert.Empty(t, report.Buckets)
}

func TestBucketLabelMalformedTimestamp(t *testing.T) {
	assert.Equal(t, "2026-03-02", bucketLabel("2026-03-02 09:15", GranularityDay))
	assert.Equal(t, "bad", bucketLabel("bad", GranularityDay))
}

func TestBuildExpensesReport(t *testing.T) {
	items := []expenses.Expense{
		{Title: "tape", Amount: 3.555, CreatedAt: "2026-03-01T10:00:00Z"},
		{Title: "boxes", Amount: 8.0, CreatedAt: "2026-03-01T16:00:00Z"},
		{Title: "fuel", Amount: 20.0, CreatedAt: "2026-03-03T09:00:00Z"},
	}

	report := buildExpensesReport(items)

	assert.Equal(t, 3, report.KPI.Entries)
	assert.Equal(t, 31.56, report.KPI.Total)
	require.Len(t, report.Buckets, 2)
	assert.Equal(t, "2026-03-01", report.Buckets[0].Label)
	assert.Equal(t, 2, report.Buckets[0].Count)
	assert.Equal(t, 11.56, report.Buckets[0].Amount)
}

func TestBuildPnLReport(t *testing.T) {
	saleItems := []sales.Sale{
		{Code: "a", SellingPrice: 100, Profit: 40, SoldAt: "2026-03-01T10:00:00Z"},
		{Code: "b", SellingPrice: 50, Profit: 10, SoldAt: "2026-03-02T10:00:00Z"},
	}
	expenseItems := []expenses.Expense{
		{Title: "rent", Amount: 30, CreatedAt: "2026-03-02T08:00:00Z"},
		{Title: "ads", Amount: 5, CreatedAt: "2026-03-05T08:00:00Z"},
	}

	report := buildPnLReport(saleItems, expenseItems)

	assert.Equal(t, 150.0, report.KPI.Gross)
	assert.Equal(t, 50.0, report.KPI.Profit)
	assert.Equal(t, 35.0, report.KPI.Expenses)
	assert.Equal(t, 15.0, report.KPI.Net)

	// Sale days come first, then expense-only days.
	require.Len(t, report.Buckets, 3)
	assert.Equal(t, "2026-03-01", report.Buckets[0].Label)
	assert.Equal(t, 40.0, report.Buckets[0].Net)
	assert.Equal(t, "2026-03-02", report.Buckets[1].Label)
	assert.Equal(t, -20.0, report.Buckets[1].Net)
	assert.Equal(t, "2026-03-05", report.Buckets[2].Label)
	assert.Equal(t, -5.0, report.Buckets[2].Net)
}

func TestBuildCategoryReport(t *testing.T) {
	products := []inventory.Product{
		{Code: "shirt-1", Category: "Shirts"},
		{Code: "mug-1", Category: ""},
	}
	saleItems := []sales.Sale{
		{Code: "shirt-1", SellingPrice: 25, Profit: 10, SoldAt: "2026-03-01T10:00:00Z"},
		{Code: "mug-1", SellingPrice: 8, Profit: 2, SoldAt: "2026-03-01T11:00:00Z"},
		{Code: "ghost", SellingPrice: 5, Profit: 1, SoldAt: "2026-03-01T12:00:00Z"},
	}
	expenseItems := []expenses.Expense{
		{Title: "thread", Amount: 4, Category: "Shirts", CreatedAt: "2026-03-01T09:00:00Z"},
		{Title: "misc", Amount: 2, Category: "", CreatedAt: "2026-03-01T09:30:00Z"},
		{Title: "shelf", Amount: 9, Category: "Storage", CreatedAt: "2026-03-01T09:45:00Z"},
	}

	report := buildCategoryReport(saleItems, expenseItems, products)

	assert.Equal(t, 3, report.KPI.Items)
	assert.Equal(t, 13.0, report.KPI.Profit)
	assert.Equal(t, 15.0, report.KPI.Expenses)

	require.Len(t, report.Rows, 3)

	byName := make(map[string]CategoryRow, len(report.Rows))
	for _, row := range report.Rows {
		byName[row.Category] = row
	}

	shirts := byName["Shirts"]
	assert.Equal(t, 1, shirts.SoldCount)
	assert.Equal(t, 10.0, shirts.Profit)
	assert.Equal(t, 4.0, shirts.Expenses)

	// Sales without a product, or whose product has no category, merge
	// with uncategorised expenses.
	other := byName[Uncategorized]
	assert.Equal(t, 2, other.SoldCount)
	assert.Equal(t, 3.0, other.Profit)
	assert.Equal(t, 2.0, other.Expenses)

	// Expense-only categories still appear.
	storage := byName["Storage"]
	assert.Equal(t, 0, storage.SoldCount)
	assert.Equal(t, 9.0, storage.Expenses)

	// Row totals reconcile with the KPIs.
	var profit, expense float64
	var count int
	for _, row := range report.Rows {
		profit += row.Profit
		expense += row.Expenses
		count += row.SoldCount
	}
	assert.Equal(t, report.KPI.Profit, profit)
	assert.Equal(t, report.KPI.Expenses, expense)
	assert.Equal(t, report.KPI.Items, count)
}
