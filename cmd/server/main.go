package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"patrimonio/internal/api"
	"patrimonio/internal/auth"
	"patrimonio/internal/config"
	"patrimonio/internal/db"
	"patrimonio/internal/logging"
	"patrimonio/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	database, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Warnw("database connection warning", "error", err)
	} else if err := db.EnsureSchema(ctx, database); err != nil {
		logger.Warnw("schema setup warning", "error", err)
	}
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Warnw("database close error", "error", err)
			}
		}()
	}

	server := &api.Server{
		DB:       database,
		Cfg:      cfg,
		Log:      logger,
		Sessions: auth.NewManager(cfg.SessionTTL),

		Users:        services.NewUserService(database),
		Assets:       services.NewAssetService(database),
		Suppliers:    services.NewSupplierService(database),
		Reference:    services.NewReferenceService(database),
		Maintenance:  services.NewMaintenanceService(database),
		Movements:    services.NewMovementService(database),
		CostCenters:  services.NewCostCenterService(database),
		Invoices:     services.NewInvoiceService(database),
		Depreciation: services.NewDepreciationService(database),
		Audit:        services.NewAuditService(database, logger),
		Imports:      services.NewImportTaskService(database, logger),
		Store:        services.NewAssetStore(database),
	}

	router := api.NewRouter(server, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infow("server listening", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("server shutdown error", "error", err)
	}
}
