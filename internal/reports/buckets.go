package reports

import (
	"time"

	"github.com/shopledger/shopledger/internal/expenses"
	"github.com/shopledger/shopledger/internal/inventory"
	"github.com/shopledger/shopledger/internal/money"
	"github.com/shopledger/shopledger/internal/sales"
	"github.com/shopledger/shopledger/internal/shared"
)

const dayLabel = "2006-01-02"
const hourLabel = "2006-01-02 15:00"

// granularityFor picks hourly buckets when the range spans at most two
// days, daily otherwise. Unbounded or unparseable ranges fall back to
// daily.
func granularityFor(rng shared.Range) Granularity {
	start, errStart := time.Parse(time.RFC3339, rng.Start)
	end, errEnd := time.Parse(time.RFC3339, rng.End)
	if errStart == nil && errEnd == nil && end.Sub(start) <= 48*time.Hour {
		return GranularityHour
	}
	return GranularityDay
}

func bucketLabel(ts string, gran Granularity) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		// Imported rows may carry arbitrary timestamps; group them by
		// their date prefix rather than dropping them.
		if len(ts) >= len(dayLabel) {
			return ts[:len(dayLabel)]
		}
		return ts
	}
	if gran == GranularityHour {
		return t.UTC().Format(hourLabel)
	}
	return t.UTC().Format(dayLabel)
}

func buildSalesReport(items []sales.Sale, rng shared.Range) SalesReport {
	gran := granularityFor(rng)

	type acc struct {
		count  int
		gross  float64
		profit float64
	}
	order := make([]string, 0)
	buckets := make(map[string]*acc)
	var grossSum, profitSum float64

	for _, s := range items {
		grossSum += s.SellingPrice
		profitSum += s.Profit
		key := bucketLabel(s.SoldAt, gran)
		b, ok := buckets[key]
		if !ok {
			b = &acc{}
			buckets[key] = b
			order = append(order, key)
		}
		b.count++
		b.gross += s.SellingPrice
		b.profit += s.Profit
	}

	report := SalesReport{
		Granularity: gran,
		Buckets:     make([]SalesBucket, 0, len(order)),
	}
	for _, key := range order {
		b := buckets[key]
		report.Buckets = append(report.Buckets, SalesBucket{
			Label:  key,
			Count:  b.count,
			Gross:  money.Round2(b.gross),
			Profit: money.Round2(b.profit),
		})
	}
	report.KPI = SalesKPI{
		Items:  len(items),
		Gross:  money.Round2(grossSum),
		Profit: money.Round2(profitSum),
	}
	if len(items) > 0 {
		report.KPI.AvgPrice = money.Round2(grossSum / float64(len(items)))
	}
	return report
}

func buildExpensesReport(items []expenses.Expense) ExpensesReport {
	type acc struct {
		count  int
		amount float64
	}
	order := make([]string, 0)
	buckets := make(map[string]*acc)
	var total float64

	for _, e := range items {
		total += e.Amount
		key := bucketLabel(e.CreatedAt, GranularityDay)
		b, ok := buckets[key]
		if !ok {
			b = &acc{}
			buckets[key] = b
			order = append(order, key)
		}
		b.count++
		b.amount += e.Amount
	}

	report := ExpensesReport{
		KPI:     ExpenseKPI{Entries: len(items), Total: money.Round2(total)},
		Buckets: make([]ExpenseBucket, 0, len(order)),
	}
	for _, key := range order {
		b := buckets[key]
		report.Buckets = append(report.Buckets, ExpenseBucket{
			Label:  key,
			Count:  b.count,
			Amount: money.Round2(b.amount),
		})
	}
	return report
}

func buildPnLReport(saleItems []sales.Sale, expenseItems []expenses.Expense) PnLReport {
	type acc struct {
		gross   float64
		profit  float64
		expense float64
	}
	order := make([]string, 0)
	buckets := make(map[string]*acc)
	var grossSum, profitSum, expenseSum float64

	get := func(key string) *acc {
		b, ok := buckets[key]
		if !ok {
			b = &acc{}
			buckets[key] = b
			order = append(order, key)
		}
		return b
	}

	for _, s := range saleItems {
		grossSum += s.SellingPrice
		profitSum += s.Profit
		b := get(bucketLabel(s.SoldAt, GranularityDay))
		b.gross += s.SellingPrice
		b.profit += s.Profit
	}
	for _, e := range expenseItems {
		expenseSum += e.Amount
		b := get(bucketLabel(e.CreatedAt, GranularityDay))
		b.expense += e.Amount
	}

	report := PnLReport{
		KPI: PnLKPI{
			Gross:    money.Round2(grossSum),
			Profit:   money.Round2(profitSum),
			Expenses: money.Round2(expenseSum),
			Net:      money.Round2(profitSum - expenseSum),
		},
		Buckets: make([]PnLBucket, 0, len(order)),
	}
	for _, key := range order {
		b := buckets[key]
		report.Buckets = append(report.Buckets, PnLBucket{
			Label:   key,
			Gross:   money.Round2(b.gross),
			Profit:  money.Round2(b.profit),
			Expense: money.Round2(b.expense),
			Net:     money.Round2(b.profit - b.expense),
		})
	}
	return report
}

func buildCategoryReport(saleItems []sales.Sale, expenseItems []expenses.Expense, products []inventory.Product) CategoryReport {
	categoryByCode := make(map[string]string, len(products))
	for _, p := range products {
		categoryByCode[p.Code] = p.Category
	}

	type soldAcc struct {
		count  int
		profit float64
	}
	order := make([]string, 0)
	seen := make(map[string]struct{})
	note := func(key string) {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			order = append(order, key)
		}
	}

	sold := make(map[string]*soldAcc)
	var profitSum float64
	for _, s := range saleItems {
		profitSum += s.Profit
		cat := categoryByCode[s.Code]
		if cat == "" {
			cat = Uncategorized
		}
		note(cat)
		b, ok := sold[cat]
		if !ok {
			b = &soldAcc{}
			sold[cat] = b
		}
		b.count++
		b.profit += s.Profit
	}

	exp := make(map[string]float64)
	var expenseSum float64
	for _, e := range expenseItems {
		expenseSum += e.Amount
		cat := e.Category
		if cat == "" {
			cat = Uncategorized
		}
		note(cat)
		exp[cat] += e.Amount
	}

	report := CategoryReport{
		KPI: CategoryKPI{
			Items:    len(saleItems),
			Profit:   money.Round2(profitSum),
			Expenses: money.Round2(expenseSum),
		},
		Rows: make([]CategoryRow, 0, len(order)),
	}
	for _, cat := range order {
		row := CategoryRow{Category: cat, Expenses: money.Round2(exp[cat])}
		if b, ok := sold[cat]; ok {
			row.SoldCount = b.count
			row.Profit = money.Round2(b.profit)
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}
