package interchange

import (
	"context"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopledger/shopledger/internal/expenses"
	"github.com/shopledger/shopledger/internal/inventory"
	"github.com/shopledger/shopledger/internal/sales"
	"github.com/shopledger/shopledger/internal/shared"
)

const (
	sectionProducts = "PRODUCTS"
	sectionSales    = "SALES"
	sectionExpenses = "EXPENSES"
)

// Marker lines carry the section name; blank lines between sections are
// cosmetic and ignored on import.
var sectionMarker = regexp.MustCompile(`(?i)^#\s*(PRODUCTS|SALES|EXPENSES)\s*$`)

var productColumns = []string{"code", "title", "category", "size", "color", "purchasePrice", "shippingCost", "listPrice", "notes", "tags", "photo", "createdAt", "updatedAt"}
var saleColumns = []string{"code", "sellingPrice", "profit", "soldAt"}
var expenseColumns = []string{"title", "amount", "category", "note", "createdAt"}

// ExportCSV writes the whole store as sectioned CSV. All three sections
// are always present, in fixed column order, blank-line separated, with
// a trailing newline.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	snap, err := s.dump(ctx)
	if err != nil {
		return err
	}

	productRows := make([][]string, 0, len(snap.Products))
	for _, p := range snap.Products {
		photo := ""
		if len(p.Photo) > 0 {
			photo = base64.StdEncoding.EncodeToString(p.Photo)
		}
		productRows = append(productRows, []string{
			p.Code, p.Title, p.Category, p.Size, p.Color,
			formatAmount(p.PurchasePrice), formatAmount(p.ShippingCost), formatAmount(p.ListPrice),
			p.Notes, inventory.EncodeTags(p.Tags), photo, p.CreatedAt, p.UpdatedAt,
		})
	}
	if err := writeSection(w, sectionProducts, productColumns, productRows); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	saleRows := make([][]string, 0, len(snap.Sales))
	for _, sale := range snap.Sales {
		saleRows = append(saleRows, []string{
			sale.Code, formatAmount(sale.SellingPrice), formatAmount(sale.Profit), sale.SoldAt,
		})
	}
	if err := writeSection(w, sectionSales, saleColumns, saleRows); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	expenseRows := make([][]string, 0, len(snap.Expenses))
	for _, e := range snap.Expenses {
		expenseRows = append(expenseRows, []string{
			e.Title, formatAmount(e.Amount), e.Category, e.Note, e.CreatedAt,
		})
	}
	return writeSection(w, sectionExpenses, expenseColumns, expenseRows)
}

func writeSection(w io.Writer, name string, header []string, rows [][]string) error {
	if _, err := io.WriteString(w, "# "+name+"\n"); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ImportCSV loads a sectioned-CSV blob into the store, in one
// transaction. A blob without any section marker is treated as a bare
// product list whose header must name a title column. Products keep
// code uniqueness enforcement, so a duplicate aborts the whole import;
// sale and expense rows land verbatim, profit column included.
func (s *Service) ImportCSV(ctx context.Context, data []byte) (ImportReport, error) {
	sections, marked := splitSections(string(data))
	now := s.now().UTC().Format(time.RFC3339)

	var err error

	var products []inventory.Product
	var saleItems []sales.Sale
	var expenseItems []expenses.Expense

	if !marked {
		products, err = parseBareProducts(sections[""], now)
		if err != nil {
			return ImportReport{}, err
		}
	} else {
		if lines, ok := sections[sectionProducts]; ok {
			products, err = parseProductRows(lines, now)
			if err != nil {
				return ImportReport{}, err
			}
		}
		if lines, ok := sections[sectionSales]; ok {
			saleItems, err = parseSaleRows(lines)
			if err != nil {
				return ImportReport{}, err
			}
		}
		if lines, ok := sections[sectionExpenses]; ok {
			expenseItems, err = parseExpenseRows(lines, now)
			if err != nil {
				return ImportReport{}, err
			}
		}
	}

	var report ImportReport
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		for i := range products {
			if err := tx.InsertProduct(ctx, &products[i]); err != nil {
				return err
			}
			report.Products++
		}
		for i := range saleItems {
			if err := tx.InsertSale(ctx, &saleItems[i]); err != nil {
				return err
			}
			report.Sales++
		}
		for i := range expenseItems {
			if err := tx.InsertExpense(ctx, &expenseItems[i]); err != nil {
				return err
			}
			report.Expenses++
		}
		return nil
	})
	if err != nil {
		return ImportReport{}, err
	}
	s.bump(ctx)
	return report, nil
}

// splitSections groups lines under their preceding marker. When no
// marker exists the whole blob comes back under the empty key with
// marked == false.
func splitSections(text string) (map[string][]string, bool) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	sections := make(map[string][]string)
	current := ""
	marked := false
	inQuotes := false
	for _, line := range lines {
		if inQuotes {
			// Continuation of a quoted field; markers and blank lines
			// inside it are data, not structure.
			sections[current] = append(sections[current], line)
			inQuotes = quoteParity(line, inQuotes)
			continue
		}
		if m := sectionMarker.FindStringSubmatch(line); m != nil {
			current = strings.ToUpper(m[1])
			marked = true
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		sections[current] = append(sections[current], line)
		inQuotes = quoteParity(line, inQuotes)
	}
	if marked {
		// Text before the first marker belongs to no section.
		delete(sections, "")
	}
	return sections, marked
}

// quoteParity tracks whether a CSV record is still open at end of line.
// Escaped quotes are two characters, so toggling per quote keeps parity.
func quoteParity(line string, open bool) bool {
	for i := 0; i < len(line); i++ {
		if line[i] == '"' {
			open = !open
		}
	}
	return open
}

func parseCSVLines(lines []string) ([]string, [][]string, error) {
	if len(lines) == 0 {
		return nil, nil, nil
	}
	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("interchange: malformed csv: %w", shared.ErrInvalidFormat)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

// headerIndex maps lowercased column names to their position.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

func column(row []string, idx map[string]int, name string) string {
	i, ok := idx[strings.ToLower(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseAmount tolerates blank and malformed numerics as zero; the
// defaulting rule lives here and nowhere else.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func productFromRow(row []string, idx map[string]int, now string) inventory.Product {
	p := inventory.Product{
		Code:          column(row, idx, "code"),
		Title:         column(row, idx, "title"),
		Category:      column(row, idx, "category"),
		Size:          column(row, idx, "size"),
		Color:         column(row, idx, "color"),
		PurchasePrice: parseAmount(column(row, idx, "purchasePrice")),
		ShippingCost:  parseAmount(column(row, idx, "shippingCost")),
		ListPrice:     parseAmount(column(row, idx, "listPrice")),
		Notes:         column(row, idx, "notes"),
		Tags:          inventory.DecodeTags(column(row, idx, "tags")),
		CreatedAt:     column(row, idx, "createdAt"),
		UpdatedAt:     column(row, idx, "updatedAt"),
	}
	if p.Code == "" {
		p.Code = uuid.NewString()
	}
	if encoded := column(row, idx, "photo"); encoded != "" {
		if photo, err := base64.StdEncoding.DecodeString(encoded); err == nil {
			p.Photo = photo
		}
	}
	if p.CreatedAt == "" {
		p.CreatedAt = now
	}
	if p.UpdatedAt == "" {
		p.UpdatedAt = now
	}
	return p
}

func parseProductRows(lines []string, now string) ([]inventory.Product, error) {
	header, rows, err := parseCSVLines(lines)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(header)
	out := make([]inventory.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, productFromRow(row, idx, now))
	}
	return out, nil
}

func parseBareProducts(lines []string, now string) ([]inventory.Product, error) {
	header, rows, err := parseCSVLines(lines)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(header)
	if _, ok := idx["title"]; !ok {
		return nil, fmt.Errorf("interchange: bare product csv needs a title column: %w", shared.ErrInvalidFormat)
	}
	out := make([]inventory.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, productFromRow(row, idx, now))
	}
	return out, nil
}

func parseSaleRows(lines []string) ([]sales.Sale, error) {
	header, rows, err := parseCSVLines(lines)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(header)
	out := make([]sales.Sale, 0, len(rows))
	for _, row := range rows {
		out = append(out, sales.Sale{
			Code:         column(row, idx, "code"),
			SellingPrice: parseAmount(column(row, idx, "sellingPrice")),
			Profit:       parseAmount(column(row, idx, "profit")),
			SoldAt:       column(row, idx, "soldAt"),
		})
	}
	return out, nil
}

func parseExpenseRows(lines []string, now string) ([]expenses.Expense, error) {
	header, rows, err := parseCSVLines(lines)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(header)
	out := make([]expenses.Expense, 0, len(rows))
	for _, row := range rows {
		e := expenses.Expense{
			Title:     column(row, idx, "title"),
			Amount:    parseAmount(column(row, idx, "amount")),
			Category:  column(row, idx, "category"),
			Note:      column(row, idx, "note"),
			CreatedAt: column(row, idx, "createdAt"),
		}
		if e.CreatedAt == "" {
			e.CreatedAt = now
		}
		out = append(out, e)
	}
	return out, nil
}
