// Package server assembles the HTTP router for the investor portal.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "apexfund/internal/docs" // Import swagger docs
	"apexfund/internal/handlers"
	"apexfund/internal/middleware"
	"apexfund/internal/services"
)

// Deps are the services and settings the router is built from.
type Deps struct {
	Portfolio services.PortfolioServicer
	Auth      services.AuthServicer
	Snapshots services.SnapshotServicer

	Currency    string
	RequireAuth bool
	HookKey     string
}

// NewRouter wires every route under /api/v1 plus health and Swagger.
func NewRouter(d Deps) *gin.Engine {
	authHandler := handlers.NewAuthHandler(d.Auth)
	holdingHandler := handlers.NewHoldingHandler(d.Portfolio, d.Currency)
	portfolioHandler := handlers.NewPortfolioHandler(d.Portfolio, d.Snapshots, d.Currency)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	v1.GET("/profile", middleware.Authenticate(d.Auth), authHandler.GetProfile)

	// Hooks for external schedulers
	hooks := v1.Group("/hooks", middleware.APIKey(d.HookKey))
	hooks.POST("/snapshots", portfolioHandler.RecordSnapshot)

	// Portfolio routes, guarded only when sessions are enforced
	protected := v1.Group("")
	if d.RequireAuth {
		protected.Use(middleware.Authenticate(d.Auth))
	}

	holdings := protected.Group("/holdings")
	holdings.GET("", holdingHandler.ListHoldings)
	holdings.POST("", holdingHandler.AddHolding)
	holdings.GET("/stream", holdingHandler.Stream)
	holdings.GET("/:id", holdingHandler.GetHolding)
	holdings.DELETE("/:id", holdingHandler.DeleteHolding)
	holdings.POST("/:id/sale", holdingHandler.MarkSold)
	holdings.DELETE("/:id/sale", holdingHandler.MarkUnsold)

	portfolio := protected.Group("/portfolio")
	portfolio.GET("/summary", portfolioHandler.GetSummary)
	portfolio.GET("/cash", portfolioHandler.GetCash)
	portfolio.PUT("/cash", portfolioHandler.UpdateCash)
	portfolio.GET("/snapshots", portfolioHandler.ListSnapshots)
	portfolio.POST("/snapshots", portfolioHandler.RecordSnapshot)

	return router
}
