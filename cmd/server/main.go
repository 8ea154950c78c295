// Package main is the entry point for the kardex API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kardex/internal/config"
	"kardex/internal/domain/ledger/kardex"
	"kardex/internal/domain/ledger/stock"
	"kardex/internal/domain/posting"
	"kardex/internal/domain/seed"
	v1 "kardex/internal/infrastructure/http/v1"
	"kardex/internal/infrastructure/storage/postgres"
	"kardex/internal/infrastructure/storage/postgres/catalog_repo"
	"kardex/internal/infrastructure/storage/postgres/document_repo"
	"kardex/internal/infrastructure/storage/postgres/ledger_repo"
	"kardex/internal/infrastructure/storage/postgres/seed_repo"
	"kardex/pkg/logger"
	"kardex/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogFormat == "console",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting kardex server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txm := postgres.NewTxManager(pool)

	// --- Repositories ---
	stockRepo := ledger_repo.NewStockRepo(txm)
	kardexRepo := ledger_repo.NewKardexRepo(txm)
	movementRepo := document_repo.NewMovementRepo(txm)
	seedRepo := seed_repo.NewSeedRepo(txm)
	articleRepo := catalog_repo.NewArticleRepo(txm)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txm)
	moveTypeRepo := catalog_repo.NewMovementTypeRepo(txm)

	// --- Services ---
	numbers := numerator.New(pool)
	stockService := stock.NewService(stockRepo)
	kardexService := kardex.NewService(kardexRepo)
	engine := posting.NewEngine(movementRepo, stockService, kardexRepo, numbers, txm)
	seedService := seed.NewService(seedRepo, stockService, kardexRepo, moveTypeRepo, engine, numbers, txm)

	idempotencyStore := postgres.NewIdempotencyStore(txm, 24*time.Hour)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		Engine:           engine,
		StockService:     stockService,
		KardexService:    kardexService,
		SeedService:      seedService,
		Movements:        movementRepo,
		Articles:         articleRepo,
		Warehouses:       warehouseRepo,
		MoveTypes:        moveTypeRepo,
		IdempotencyStore: idempotencyStore,
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
