package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

// SaleRow is one ledger line in a sales or profit report download.
type SaleRow struct {
	Code         string
	SellingPrice float64
	Profit       float64
	SoldAt       string
}

// ExpenseRow is one ledger line in an expense report download.
type ExpenseRow struct {
	Title     string
	Amount    float64
	Category  string
	Note      string
	CreatedAt string
}

// CategoryRow is one aggregated line in a category report download.
type CategoryRow struct {
	Category  string
	SoldCount int
	Profit    float64
	Expenses  float64
}

// WriteSalesCSV serialises the sales ledger to a CSV representation.
func WriteSalesCSV(w io.Writer, rows []SaleRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Code", "Selling Price", "Profit", "Sold At"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.Code,
			formatFloat(row.SellingPrice),
			formatFloat(row.Profit),
			row.SoldAt,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteExpensesCSV serialises the expense ledger to a CSV representation.
func WriteExpensesCSV(w io.Writer, rows []ExpenseRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Title", "Amount", "Category", "Note", "Created At"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.Title,
			formatFloat(row.Amount),
			row.Category,
			row.Note,
			row.CreatedAt,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCategoryCSV emits the per-category performance table as CSV.
func WriteCategoryCSV(w io.Writer, rows []CategoryRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Category", "Sold Count", "Profit", "Expenses"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.Category,
			strconv.Itoa(row.SoldCount),
			formatFloat(row.Profit),
			formatFloat(row.Expenses),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
