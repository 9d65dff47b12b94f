package expenses

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

// Handler wires HTTP endpoints for expense entries.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers expense routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/expenses", h.handleList)
	r.Post("/expenses", h.handleAdd)
}

type expenseForm struct {
	Title    string  `json:"title" validate:"required,max=300"`
	Amount   float64 `json:"amount" validate:"gte=0"`
	Category string  `json:"category" validate:"max=120"`
	Note     string  `json:"note"`
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var form expenseForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "title and a non-negative amount are required")
		return
	}
	e := Expense{Title: form.Title, Amount: form.Amount, Category: form.Category, Note: form.Note}
	if err := h.service.Add(r.Context(), &e); err != nil {
		h.logger.Error("add expense", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, e)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var rng *shared.Range
	if q.Get("start") != "" || q.Get("end") != "" {
		rng = &shared.Range{Start: q.Get("start"), End: q.Get("end")}
	}
	items, err := h.service.List(r.Context(), rng, q.Get("category"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"expenses": items})
}
