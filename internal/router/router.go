package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Cascadia376/invoice-automator-sub000/internal/config"
	"github.com/Cascadia376/invoice-automator-sub000/internal/handler"
	"github.com/Cascadia376/invoice-automator-sub000/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	workflowH *handler.WorkflowHandler,
	historyH *handler.HistoryHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.Auth))

	// Posting workflow runs
	runs := v1.Group("/post-runs")
	runs.POST("", workflowH.Open)
	runs.GET("/:id", workflowH.Get)
	runs.GET("/:id/suppliers", workflowH.SearchSuppliers)
	runs.POST("/:id/resolve", workflowH.ResolveVendor)
	runs.POST("/:id/post", workflowH.ConfirmPost)
	runs.DELETE("/:id", workflowH.Close)

	// Durable posting outcomes
	history := v1.Group("/posting-history")
	history.GET("", historyH.List)
	history.GET("/:runID", historyH.ListByRun)

	return r
}
