package router

import (
	"time"

	"github.com/tiagostutz/demo-warehouse-software/internal/config"
	"github.com/tiagostutz/demo-warehouse-software/internal/handler"
	"github.com/tiagostutz/demo-warehouse-software/internal/middleware"
	"github.com/tiagostutz/demo-warehouse-software/internal/repository"
	"github.com/tiagostutz/demo-warehouse-software/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	articleRepo := repository.NewArticleRepository(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	cache := service.NewAvailabilityCache(rdb, time.Duration(cfg.AvailabilityCacheTTL)*time.Second)
	articleSvc := service.NewArticleService(articleRepo, movementRepo, cache)
	productSvc := service.NewProductService(productRepo, articleRepo, cache)
	availabilitySvc := service.NewAvailabilityService(productRepo, articleRepo, cache)
	stockSvc := service.NewStockService(articleRepo, productRepo, movementRepo, cache)

	// ── Handlers ─────────────────────────────────────────────────────────────
	articlesH := handler.NewArticlesHandler(articleSvc)
	productsH := handler.NewProductsHandler(productSvc, availabilitySvc)
	stockH := handler.NewStockHandler(stockSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	article := r.Group("/article")
	{
		article.GET("/health", handler.DomainHealth())
		article.GET("", articlesH.List)
		article.GET("/:id", articlesH.Get)
		article.POST("", articlesH.Upsert)
		article.PATCH("/:id/stock", articlesH.AdjustStock)
		article.POST("/stock-update/by/product/:productId", stockH.ConsumeByProduct)
	}

	product := r.Group("/product")
	{
		product.GET("/health", handler.DomainHealth())
		product.GET("", productsH.List)
		product.GET("/availability", productsH.Availability)
		product.GET("/:id", productsH.Get)
		product.POST("", productsH.Upsert)
	}

	r.GET("/stock-movements", stockH.ListMovements)

	return r
}
