package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/loganpetree/homesellphotography/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/healthz", handler.HealthCheck)

	v1 := router.Group("/api/v1", middleware.Auth(authCfg))
	{
		v1.GET("/migration/progress", handler.GetMigrationProgress)

		v1.GET("/wake-up", handler.ListWakeUpSites)
		v1.POST("/wake-up", handler.UpdateWakeUpSite)
		v1.POST("/wake-up/migrate", handler.MigrateWakeUpSite)
	}
}
