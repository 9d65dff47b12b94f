package inventory

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shopledger/shopledger/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the inventory listing and product writes.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers inventory routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.handleList)
	r.Get("/products/{code}", h.handleGetByCode)
	r.Post("/products", h.handleUpsert)
}

type productForm struct {
	ID            int64    `json:"id"`
	Code          string   `json:"code" validate:"max=120"`
	Title         string   `json:"title" validate:"max=300"`
	Category      string   `json:"category" validate:"max=120"`
	Size          string   `json:"size" validate:"max=60"`
	Color         string   `json:"color" validate:"max=60"`
	PurchasePrice float64  `json:"purchasePrice" validate:"gte=0"`
	ShippingCost  float64  `json:"shippingCost" validate:"gte=0"`
	ListPrice     float64  `json:"listPrice" validate:"gte=0"`
	Notes         string   `json:"notes"`
	Tags          []string `json:"tags" validate:"dive,max=60"`
	Photo         []byte   `json:"photo"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := Status(q.Get("status"))
	if status == "" {
		status = StatusAll
	}
	filter := ListFilter{
		Search:   q.Get("search"),
		Status:   status,
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
	}
	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": items})
}

func (h *Handler) handleGetByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	p, err := h.service.GetByCode(r.Context(), code)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		detail := "invalid product fields"
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			detail = fieldErrs[0].Field() + " is invalid"
		}
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", detail)
		return
	}

	p := Product{
		ID:            form.ID,
		Code:          form.Code,
		Title:         form.Title,
		Category:      form.Category,
		Size:          form.Size,
		Color:         form.Color,
		PurchasePrice: form.PurchasePrice,
		ShippingCost:  form.ShippingCost,
		ListPrice:     form.ListPrice,
		Notes:         form.Notes,
		Tags:          form.Tags,
		Photo:         form.Photo,
	}
	if err := h.service.Upsert(r.Context(), &p); err != nil {
		httpx.RespondError(w, err)
		return
	}
	status := http.StatusOK
	if form.ID == 0 {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, p)
}
