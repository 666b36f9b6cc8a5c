package routes

import (
	"net/http"

	"funding-application-api/controllers"
	"funding-application-api/middleware"
	"funding-application-api/models"
	"funding-application-api/monitor"
	"funding-application-api/services"

	"github.com/gin-gonic/gin"
)

// Dependencies are the handles the routes are built from.
type Dependencies struct {
	Store     *services.SectionStore
	Users     *services.UserService
	JWTSecret string
	JWTExpire int
	LogPath   string
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	auth := controllers.NewAuthController(deps.Users, deps.JWTSecret, deps.JWTExpire)
	funding := controllers.NewFundingApplicationController(deps.Store)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", auth.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"status":  "ok",
					"message": "Funding Application API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTSecret, deps.Users))
		{
			// Funding application sections, owner or admin only
			application := protected.Group("/users/:id/funding-application")
			application.Use(middleware.RequireSelfOrAdmin("id"))
			{
				application.GET("", funding.GetApplication)
				application.DELETE("", funding.ClearApplication)
				application.GET("/progress", funding.GetProgress)
				application.POST("/submit", funding.SubmitApplication)
				application.PATCH("/:sectionType", funding.SaveSection)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/logs", monitor.LogsHandler(deps.LogPath))
			}
		}
	}

	monitor.RegisterMetricsRoute(router)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	})
}
