package export

import (
	"bytes"
	"encoding/csv"
	"testing"
)

func TestWriteSalesCSV(t *testing.T) {
	rows := []SaleRow{
		{Code: "shirt-1", SellingPrice: 25.5, Profit: 10.128, SoldAt: "2026-03-01T10:00:00Z"},
	}
	buf := &bytes.Buffer{}
	if err := WriteSalesCSV(buf, rows); err != nil {
		t.Fatalf("sales csv error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(records))
	}
	if records[1][1] != "25.50" || records[1][2] != "10.13" {
		t.Fatalf("unexpected amounts %v", records[1])
	}
}

func TestWriteExpensesCSV(t *testing.T) {
	rows := []ExpenseRow{
		{Title: "tape, heavy duty", Amount: 3.5, Category: "Supplies", CreatedAt: "2026-03-01T09:00:00Z"},
	}
	buf := &bytes.Buffer{}
	if err := WriteExpensesCSV(buf, rows); err != nil {
		t.Fatalf("expenses csv error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	if records[1][0] != "tape, heavy duty" {
		t.Fatalf("comma in title not preserved: %v", records[1])
	}
}

func TestWriteCategoryCSV(t *testing.T) {
	rows := []CategoryRow{
		{Category: "Shirts", SoldCount: 3, Profit: 30, Expenses: 4},
		{Category: "Uncategorized", SoldCount: 0, Profit: 0, Expenses: 9.5},
	}
	buf := &bytes.Buffer{}
	if err := WriteCategoryCSV(buf, rows); err != nil {
		t.Fatalf("category csv error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(records))
	}
	if records[2][3] != "9.50" {
		t.Fatalf("unexpected expense column %v", records[2])
	}
}
