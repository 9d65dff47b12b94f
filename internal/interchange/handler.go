package interchange

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopledger/shopledger/internal/platform/httpx"
)

// maxImportBytes bounds backup uploads; photos inflate snapshots fast.
const maxImportBytes = 64 << 20

// Handler coordinates HTTP requests for backup and restore.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the interchange HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers interchange routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/interchange/export.json", h.handleExportJSON)
	r.Post("/interchange/import.json", h.handleImportJSON)
	r.Get("/interchange/export.csv", h.handleExportCSV)
	r.Post("/interchange/import.csv", h.handleImportCSV)
	r.Post("/interchange/wipe", h.handleWipe)
}

func (h *Handler) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.ExportJSON(r.Context())
	if err != nil {
		h.logger.Error("export snapshot", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="shopledger-backup.json"`)
	httpx.JSON(w, http.StatusOK, snap)
}

func (h *Handler) handleImportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Unreadable Body", "could not read request body")
		return
	}
	report, err := h.service.ImportJSON(r.Context(), data)
	if err != nil {
		h.logger.Error("import snapshot", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	buf := &bytes.Buffer{}
	if err := h.service.ExportCSV(r.Context(), buf); err != nil {
		h.logger.Error("export csv", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="shopledger-backup.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Unreadable Body", "could not read request body")
		return
	}
	report, err := h.service.ImportCSV(r.Context(), data)
	if err != nil {
		h.logger.Error("import csv", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleWipe(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Wipe(r.Context()); err != nil {
		h.logger.Error("wipe store", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
