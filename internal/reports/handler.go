package reports

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/reports/export"
	"github.com/shopledger/shopledger/internal/shared"
)

// Handler coordinates HTTP requests for the report views.
type Handler struct {
	logger  *slog.Logger
	service *Service
	now     func() time.Time
}

// NewHandler constructs the reports HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, now: time.Now}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// MountRoutes registers report routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports", h.handleReport)
	r.Get("/reports/export.csv", h.handleExportCSV)
}

func (h *Handler) resolveRange(r *http.Request) shared.Range {
	q := r.URL.Query()
	custom := shared.Range{Start: q.Get("start"), End: q.Get("end")}
	return ResolveRange(q.Get("range"), h.now(), custom)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	mode := Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = ModeSales
	}
	rng := h.resolveRange(r)
	ctx := r.Context()

	var payload any
	var err error
	switch mode {
	case ModeExpenses:
		payload, err = h.service.Expenses(ctx, rng)
	case ModePnL:
		payload, err = h.service.ProfitAndLoss(ctx, rng)
	case ModeCategory:
		payload, err = h.service.Categories(ctx, rng)
	case ModeSales:
		payload, err = h.service.Sales(ctx, rng)
	default:
		httpx.Problem(w, http.StatusBadRequest, "Invalid Mode", "mode must be one of sales, expenses, pnl, category")
		return
	}
	if err != nil {
		h.logger.Error("compute report", slog.String("mode", string(mode)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"mode": mode, "range": rng, "report": payload})
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	mode := Mode(r.URL.Query().Get("mode"))
	rng := h.resolveRange(r)
	ctx := r.Context()
	buf := &bytes.Buffer{}

	var err error
	switch mode {
	case ModeExpenses:
		var items []export.ExpenseRow
		ledger, lerr := h.service.ExpenseLedger(ctx, rng)
		if lerr != nil {
			err = lerr
			break
		}
		for _, e := range ledger {
			items = append(items, export.ExpenseRow{Title: e.Title, Amount: e.Amount, Category: e.Category, Note: e.Note, CreatedAt: e.CreatedAt})
		}
		err = export.WriteExpensesCSV(buf, items)
	case ModeCategory:
		report, rerr := h.service.Categories(ctx, rng)
		if rerr != nil {
			err = rerr
			break
		}
		var rows []export.CategoryRow
		for _, row := range report.Rows {
			rows = append(rows, export.CategoryRow{Category: row.Category, SoldCount: row.SoldCount, Profit: row.Profit, Expenses: row.Expenses})
		}
		err = export.WriteCategoryCSV(buf, rows)
	default:
		// Sales and P&L downloads share the raw sales ledger.
		ledger, lerr := h.service.SalesLedger(ctx, rng)
		if lerr != nil {
			err = lerr
			break
		}
		var rows []export.SaleRow
		for _, s := range ledger {
			rows = append(rows, export.SaleRow{Code: s.Code, SellingPrice: s.SellingPrice, Profit: s.Profit, SoldAt: s.SoldAt})
		}
		err = export.WriteSalesCSV(buf, rows)
	}
	if err != nil {
		h.logger.Error("export report csv", slog.String("mode", string(mode)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="report.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
