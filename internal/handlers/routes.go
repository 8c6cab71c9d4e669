package handlers

import (
	"context"
	"net/http"
	"time"

	"merchant-bi-api/internal/config"
	"merchant-bi-api/internal/metrics"
	"merchant-bi-api/internal/middleware"
	"merchant-bi-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	serviceName    = "merchant-bi-api"
	serviceVersion = "1.0.0"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Services  *services.ServiceContainer
	Metrics   *metrics.Metrics
	Logger    *logrus.Logger
	RateLimit config.RateLimitConfig

	// HealthCheck reports storage health on /health. Optional.
	HealthCheck func(ctx context.Context) error
}

// NewRouter builds a gin engine with the middleware chain and every route
func NewRouter(cfg *RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	router := gin.New()
	SetupMiddleware(router, cfg)
	SetupRoutes(router, cfg)
	return router
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *RouterConfig) {
	biHandler := NewBusinessIntelligenceHandler(cfg.Services.BusinessIntelligence)
	merchantHandler := NewMerchantHandler(cfg.Services.MerchantService)
	invoiceItemHandler := NewInvoiceItemHandler(cfg.Services.InvoiceItemService)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", healthHandler(cfg.HealthCheck))

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequestValidation())
	{
		merchants := v1.Group("/merchants")
		{
			merchants.GET("", merchantHandler.ListMerchants)
			merchants.GET("/find", merchantHandler.FindMerchant)
			merchants.GET("/find_all", merchantHandler.FindAllMerchants)
			merchants.GET("/revenue", biHandler.TotalRevenue)
			merchants.GET("/most_revenue", biHandler.MostRevenue)
			merchants.GET("/most_items", biHandler.MostItems)
			merchants.GET("/:id", merchantHandler.GetMerchant)
			merchants.GET("/:id/revenue", biHandler.MerchantRevenue)
			merchants.GET("/:id/favorite_customer", biHandler.FavoriteCustomer)
			merchants.GET("/:id/customers_with_pending_invoices", biHandler.CustomersWithPendingInvoices)
		}

		invoiceItems := v1.Group("/invoice_items")
		{
			invoiceItems.GET("/find", invoiceItemHandler.FindInvoiceItem)
			invoiceItems.GET("/find_all", invoiceItemHandler.FindAllInvoiceItems)
		}
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, cfg *RouterConfig) {
	router.Use(middleware.Recovery(cfg.Logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimiter(cfg.Logger, cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	router.Use(middleware.Metrics(cfg.Metrics))
	router.Use(middleware.StructuredLogger(cfg.Logger))
	router.Use(middleware.PerformanceMonitor(cfg.Logger, time.Second))
	router.Use(middleware.ErrorHandler(cfg.Logger))
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":  "healthy",
			"service": serviceName,
			"version": serviceVersion,
			"mode":    config.GetDeploymentMode(),
		}

		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				body["status"] = "unhealthy"
				body["error"] = err.Error()
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
		}

		c.JSON(http.StatusOK, body)
	}
}
