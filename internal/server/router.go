package server

import (
	"github.com/gin-gonic/gin"

	"github.com/ncastellanos/roadmapr-backend/internal/handlers"
	"github.com/ncastellanos/roadmapr-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware *middleware.AuthMiddleware

	HealthHandler     *handlers.HealthHandler
	AuthHandler       *handlers.AuthHandler
	RoadmapHandler    *handlers.RoadmapHandler
	ProgressHandler   *handlers.ProgressHandler
	UserHandler       *handlers.UserHandler
	GenerationHandler *handlers.GenerationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS())

	r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", cfg.AuthHandler.Register)
			auth.POST("/login", cfg.AuthHandler.Login)
			auth.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Public listing and per-roadmap reads. The read applies visibility
		// rules, so the viewer is resolved when a token is present.
		api.GET("/roadmaps", cfg.RoadmapHandler.ListPublic)
		api.GET("/roadmaps/:id", cfg.AuthMiddleware.OptionalAuth(), cfg.RoadmapHandler.Get)
	}

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/roadmaps", cfg.RoadmapHandler.Create)
		protected.GET("/roadmaps/me", cfg.RoadmapHandler.ListMine)
		protected.PATCH("/roadmaps/:id/save", cfg.RoadmapHandler.Save)

		protected.POST("/ai/generate-roadmap", cfg.GenerationHandler.Generate)

		protected.PATCH("/progress", cfg.ProgressHandler.Toggle)
		protected.GET("/progress", cfg.ProgressHandler.GetTopic)
		protected.GET("/progress/roadmap/:id", cfg.ProgressHandler.GetRoadmap)

		protected.GET("/users/me/stats", cfg.UserHandler.GetStats)
		protected.GET("/users/me/achievements", cfg.UserHandler.GetAchievements)
	}

	return r
}
