// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"kardex/internal/domain/catalogs/article"
	"kardex/internal/domain/catalogs/movetype"
	"kardex/internal/domain/catalogs/warehouse"
	"kardex/internal/domain/ledger/kardex"
	"kardex/internal/domain/ledger/stock"
	"kardex/internal/domain/movement"
	"kardex/internal/domain/posting"
	"kardex/internal/domain/seed"
	"kardex/internal/infrastructure/http/v1/handlers"
	"kardex/internal/infrastructure/http/v1/middleware"
	"kardex/internal/infrastructure/storage/postgres"
	"kardex/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	Engine        *posting.Engine
	StockService  *stock.Service
	KardexService *kardex.Service
	SeedService   *seed.Service

	Movements  movement.Repository
	Articles   article.Repository
	Warehouses warehouse.Repository
	MoveTypes  movetype.Repository

	// IdempotencyStore enables idempotency on mutating endpoints when set.
	IdempotencyStore *postgres.IdempotencyStore
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Order matters: recovery outermost, error handler after logging.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	movementHandler := handlers.NewMovementHandler(base, cfg.Engine, cfg.Movements, cfg.MoveTypes, cfg.Articles)
	kardexHandler := handlers.NewKardexHandler(base, cfg.KardexService)
	stockHandler := handlers.NewStockHandler(base, cfg.StockService)
	seedHandler := handlers.NewSeedHandler(base, cfg.SeedService)
	catalogHandler := handlers.NewCatalogHandler(base, cfg.Articles, cfg.Warehouses, cfg.MoveTypes)

	api := router.Group("/api/v1")
	if cfg.IdempotencyStore != nil {
		api.Use(middleware.Idempotency(cfg.IdempotencyStore))
	}
	{
		api.POST("/movements", movementHandler.Post)
		api.GET("/movements", movementHandler.List)
		api.GET("/movements/:id", movementHandler.Get)

		api.GET("/kardex", kardexHandler.Query)
		api.GET("/kardex/balance", kardexHandler.Balance)

		api.GET("/stock", stockHandler.List)
		api.GET("/stock/low", stockHandler.Low)
		api.GET("/stock/level", stockHandler.Level)
		api.GET("/stock/availability", stockHandler.Availability)

		api.POST("/seeds", seedHandler.Create)
		api.GET("/seeds", seedHandler.List)
		api.GET("/seeds/:id", seedHandler.Get)
		api.PUT("/seeds/:id", seedHandler.Adjust)
		api.DELETE("/seeds/:id", seedHandler.Delete)

		api.GET("/articles", catalogHandler.ListArticles)
		api.GET("/articles/:id", catalogHandler.GetArticle)
		api.GET("/warehouses", catalogHandler.ListWarehouses)
		api.GET("/movement-types", catalogHandler.ListMovementTypes)
	}

	return router
}
