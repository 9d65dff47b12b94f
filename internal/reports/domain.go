package reports

// Mode selects one of the four report shapes.
type Mode string

const (
	// ModeSales is the time-bucketed sales series with revenue KPIs.
	ModeSales Mode = "sales"
	// ModeExpenses is the daily expense series.
	ModeExpenses Mode = "expenses"
	// ModePnL merges sales and expenses into daily net-profit buckets.
	ModePnL Mode = "pnl"
	// ModeCategory groups sold units and expenses by category.
	ModeCategory Mode = "category"
)

// Granularity is the time-bucket width of the sales series.
type Granularity string

const (
	// GranularityHour is used when the range spans at most two days.
	GranularityHour Granularity = "hour"
	// GranularityDay is used for all longer ranges.
	GranularityDay Granularity = "day"
)

// SalesKPI contains the top-level sales indicators.
type SalesKPI struct {
	Items    int     `json:"items"`
	Gross    float64 `json:"gross"`
	Profit   float64 `json:"profit"`
	AvgPrice float64 `json:"avgPrice"`
}

// SalesBucket is one time bucket of the sales series.
type SalesBucket struct {
	Label  string  `json:"label"`
	Count  int     `json:"count"`
	Gross  float64 `json:"gross"`
	Profit float64 `json:"profit"`
}

// SalesReport is the sales-mode payload.
type SalesReport struct {
	KPI         SalesKPI      `json:"kpi"`
	Granularity Granularity   `json:"granularity"`
	Buckets     []SalesBucket `json:"buckets"`
}

// ExpenseKPI contains the top-level expense indicators.
type ExpenseKPI struct {
	Entries int     `json:"entries"`
	Total   float64 `json:"total"`
}

// ExpenseBucket is one calendar-day bucket of the expense series.
type ExpenseBucket struct {
	Label  string  `json:"label"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// ExpensesReport is the expenses-mode payload.
type ExpensesReport struct {
	KPI     ExpenseKPI      `json:"kpi"`
	Buckets []ExpenseBucket `json:"buckets"`
}

// PnLKPI contains the profit-and-loss indicators.
type PnLKPI struct {
	Gross    float64 `json:"gross"`
	Profit   float64 `json:"profit"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// PnLBucket is one calendar-day bucket merging sale profit and expenses.
type PnLBucket struct {
	Label   string  `json:"label"`
	Gross   float64 `json:"gross"`
	Profit  float64 `json:"profit"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// PnLReport is the profit-and-loss payload.
type PnLReport struct {
	KPI     PnLKPI      `json:"kpi"`
	Buckets []PnLBucket `json:"buckets"`
}

// CategoryKPI contains the category-mode indicators.
type CategoryKPI struct {
	Items    int     `json:"items"`
	Profit   float64 `json:"profit"`
	Expenses float64 `json:"expenses"`
}

// CategoryRow reports sold units and expenses for one category name.
// Sold units group by the referenced product's current category;
// expenses group by their own category field. Both default to
// "Uncategorized" and the rows cover the union of names.
type CategoryRow struct {
	Category  string  `json:"category"`
	SoldCount int     `json:"soldCount"`
	Profit    float64 `json:"profit"`
	Expenses  float64 `json:"expenses"`
}

// CategoryReport is the category-mode payload.
type CategoryReport struct {
	KPI  CategoryKPI   `json:"kpi"`
	Rows []CategoryRow `json:"rows"`
}

// Uncategorized is the fallback bucket for sales whose product is gone
// or uncategorised, and for expenses without a category.
const Uncategorized = "Uncategorized"
