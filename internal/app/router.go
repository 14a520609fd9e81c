package app

import (
	"github.com/gin-gonic/gin"

	"github.com/ncastellanos/roadmapr-backend/internal/server"
)

func wireRouter(handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:    middlewareset.Auth,
		HealthHandler:     handlerset.Health,
		AuthHandler:       handlerset.Auth,
		RoadmapHandler:    handlerset.Roadmap,
		ProgressHandler:   handlerset.Progress,
		UserHandler:       handlerset.User,
		GenerationHandler: handlerset.Generation,
	})
}
