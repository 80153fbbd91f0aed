package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the REST surface under /api. writeLimiter guards the
// endpoints that create users and start video generation.
func RegisterRoutes(router gin.IRouter, h *Handlers, writeLimiter gin.HandlerFunc) {
	api := router.Group("/api")

	api.GET("/health", HealthCheck)
	api.GET("/session", GetSession)

	users := api.Group("/users")
	{
		users.POST("", writeLimiter, h.CreateUser)
		users.GET("", ListUsers)
		users.GET("/:id", GetUserByID)
		users.PUT("/:id", UpdateUser)
		users.DELETE("/:id", DeleteUser)
		users.POST("/:id/session", writeLimiter, h.CreateUserSession)
	}

	icons := api.Group("/icons")
	{
		icons.POST("", CreateIcon)
		icons.GET("/:id", GetIconByID)
		icons.GET("/user/:userId", GetIconsByUserID)
		icons.PUT("/:id", UpdateIcon)
		icons.DELETE("/:id", DeleteIcon)
	}

	videos := api.Group("/videos")
	{
		videos.POST("", writeLimiter, h.SubmitVideo)
		videos.GET("/:id", GetVideoByID)
		videos.GET("/user/:userId", GetVideosByUserID)
		videos.PUT("/:id", UpdateVideo)
		videos.DELETE("/:id", DeleteVideo)
	}

	analytics := api.Group("/analytics")
	{
		analytics.POST("", TrackEvent)
		analytics.GET("/user/:userId", GetAnalyticsByUser)
		analytics.GET("/summary", GetAnalyticsSummary)
	}
}
