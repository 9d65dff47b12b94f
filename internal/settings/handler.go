package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shopledger/shopledger/internal/money"
	"github.com/shopledger/shopledger/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the store settings record.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers settings routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/settings", h.handleGet)
	r.Put("/settings", h.handleUpdate)
}

type settingsForm struct {
	DisplayName    string `json:"displayName" validate:"max=200"`
	CurrencySymbol string `json:"currencySymbol" validate:"max=8"`
	CurrencyCode   string `json:"currencyCode" validate:"max=8"`
	LabelStyle     string `json:"labelStyle" validate:"omitempty,oneof=symbol code"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("get settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, current)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var form settingsForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "label style must be symbol or code")
		return
	}
	updated, err := h.service.Update(r.Context(), Settings{
		DisplayName:    form.DisplayName,
		CurrencySymbol: form.CurrencySymbol,
		CurrencyCode:   form.CurrencyCode,
		LabelStyle:     money.LabelStyle(form.LabelStyle),
	})
	if err != nil {
		h.logger.Error("update settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}
