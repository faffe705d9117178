package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/vespo92/QBMCPServer/internal/core/ports"
	portssvc "github.com/vespo92/QBMCPServer/internal/core/ports/services"
	"github.com/vespo92/QBMCPServer/internal/middleware"
	"github.com/vespo92/QBMCPServer/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	provider ports.TimeDataProvider,
	services *portssvc.ServiceContainer,
) {
	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	v1 := r.Group("/api/v1", middleware.RateLimit(middleware.NewToolRateLimiter(cfg.ToolRateLimit)))
	registerToolRoutes(v1, provider, services)
}
