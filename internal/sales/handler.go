package sales

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

// Handler wires HTTP endpoints for sale events.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers sales routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/sales", h.handleList)
	r.Post("/sales", h.handleRecord)
	r.Delete("/sales/{id}", h.handleUndo)
}

type recordForm struct {
	Code         string  `json:"code" validate:"required,max=120"`
	SellingPrice float64 `json:"sellingPrice" validate:"gte=0"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var form recordForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "code and a non-negative sellingPrice are required")
		return
	}
	sale, err := h.service.Record(r.Context(), form.Code, form.SellingPrice)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "sale id must be numeric")
		return
	}
	removed, err := h.service.Undo(r.Context(), id)
	if err != nil {
		h.logger.Error("undo sale", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	rng := rangeFromQuery(r)
	items, err := h.service.List(r.Context(), rng)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"sales": items})
}

func rangeFromQuery(r *http.Request) *shared.Range {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" && end == "" {
		return nil
	}
	return &shared.Range{Start: start, End: end}
}
