package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopledger/shopledger/internal/app"
	"github.com/shopledger/shopledger/internal/expenses"
	"github.com/shopledger/shopledger/internal/interchange"
	"github.com/shopledger/shopledger/internal/inventory"
	"github.com/shopledger/shopledger/internal/platform/db"
	"github.com/shopledger/shopledger/internal/reports"
	"github.com/shopledger/shopledger/internal/sales"
	"github.com/shopledger/shopledger/internal/settings"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	conn, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Error("open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn("store close", slog.Any("error", err))
		}
	}()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)

	settingsRepo := settings.NewRepository(conn)
	settingsService := settings.NewService(settingsRepo, logger)
	if _, err := settingsService.EnsureDefaults(ctx); err != nil {
		logger.Error("init settings", slog.Any("error", err))
		os.Exit(1)
	}

	inventoryRepo := inventory.NewRepository(conn)
	salesRepo := sales.NewRepository(conn)
	expensesRepo := expenses.NewRepository(conn)

	inventoryService := inventory.NewService(inventoryRepo, salesRepo, reportCache, logger)
	salesService := sales.NewService(salesRepo, reportCache, logger)
	expensesService := expenses.NewService(expensesRepo, reportCache, logger)
	reportsService := reports.NewService(salesRepo, expensesRepo, inventoryRepo, reportCache)
	interchangeService := interchange.NewService(
		inventoryRepo, salesRepo, expensesRepo,
		settingsService, interchange.NewRepository(conn), reportCache, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		InventoryHandler:   inventory.NewHandler(logger, inventoryService),
		SalesHandler:       sales.NewHandler(logger, salesService),
		ExpensesHandler:    expenses.NewHandler(logger, expensesService),
		ReportsHandler:     reports.NewHandler(logger, reportsService),
		InterchangeHandler: interchange.NewHandler(logger, interchangeService),
		SettingsHandler:    settings.NewHandler(logger, settingsService),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
