package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopledger/shopledger/internal/expenses"
	"github.com/shopledger/shopledger/internal/interchange"
	"github.com/shopledger/shopledger/internal/inventory"
	"github.com/shopledger/shopledger/internal/reports"
	"github.com/shopledger/shopledger/internal/sales"
	"github.com/shopledger/shopledger/internal/settings"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	InventoryHandler   *inventory.Handler
	SalesHandler       *sales.Handler
	ExpensesHandler    *expenses.Handler
	ReportsHandler     *reports.Handler
	InterchangeHandler *interchange.Handler
	SettingsHandler    *settings.Handler
}

// NewRouter constructs the chi.Router with Shopledger defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(api chi.Router) {
		params.InventoryHandler.MountRoutes(api)
		params.SalesHandler.MountRoutes(api)
		params.ExpensesHandler.MountRoutes(api)
		params.ReportsHandler.MountRoutes(api)
		params.InterchangeHandler.MountRoutes(api)
		params.SettingsHandler.MountRoutes(api)
	})

	return r
}
