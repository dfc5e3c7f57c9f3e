package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/odenstall/pos/internal/metrics"
	"github.com/odenstall/pos/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. gatherer may
// be nil, in which case /metrics is not exposed.
func New(handler *handlers.POSHandler, syncHandler *handlers.SyncHandler, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metricsMiddleware(m))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		api.GET("/products", handler.ListProducts)
		api.PUT("/products/:id/price", handler.SetPrice)
		api.POST("/products/:id/convert", handler.Convert)

		api.GET("/ingredients", handler.ListIngredients)
		api.POST("/ingredients/:id/stock-in", handler.StockIn)

		api.GET("/cart", handler.GetCart)
		api.DELETE("/cart", handler.ClearCart)
		api.POST("/cart/items", handler.AddToCart)
		api.PATCH("/cart/items/:id", handler.AdjustQty)
		api.DELETE("/cart/items/:id", handler.RemoveLine)
		api.POST("/checkout", handler.Checkout)

		api.GET("/sales", handler.ListSales)
		api.GET("/stock-logs", handler.ListStockLogs)
		api.GET("/reports/daily", handler.DailyReport)
		api.GET("/sync/status", syncHandler.Status)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}
