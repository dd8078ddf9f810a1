package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cascadia376/invoice-automator-sub000/internal/cache"
	"github.com/Cascadia376/invoice-automator-sub000/internal/client"
	"github.com/Cascadia376/invoice-automator-sub000/internal/config"
	"github.com/Cascadia376/invoice-automator-sub000/internal/handler"
	"github.com/Cascadia376/invoice-automator-sub000/internal/port"
	"github.com/Cascadia376/invoice-automator-sub000/internal/repository/postgres"
	"github.com/Cascadia376/invoice-automator-sub000/internal/router"
	"github.com/Cascadia376/invoice-automator-sub000/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Supplier search cache: Redis when configured, no-op otherwise
	var searchCache port.SupplierSearchCache = cache.NoopSupplierSearchCache{}
	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisSupplierSearchCache(&cfg.Redis)
		defer redisCache.Close()
		searchCache = redisCache
	}

	// Remote collaborators
	invoiceGW := client.NewInvoiceClient(&cfg.Stellar)
	directory := client.NewSupplierClient(&cfg.Stellar)

	// Repositories
	historyRepo := postgres.NewPostingHistoryRepo(db)

	// Services
	evaluator := service.NewPreflightEvaluator(invoiceGW)
	workflowSvc := service.NewPostWorkflowService(evaluator, invoiceGW, directory, searchCache, historyRepo, service.PostWorkflowConfig{
		SearchMinChars: cfg.Stellar.SearchMinChars,
		SearchCacheTTL: cfg.Stellar.SearchCacheTTL,
	})

	// Handlers
	workflowH := handler.NewWorkflowHandler(workflowSvc)
	historyH := handler.NewHistoryHandler(historyRepo)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, workflowH, historyH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
