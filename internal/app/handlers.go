package app

import (
	"github.com/ncastellanos/roadmapr-backend/internal/handlers"
	"github.com/ncastellanos/roadmapr-backend/internal/logger"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Roadmap    *handlers.RoadmapHandler
	Progress   *handlers.ProgressHandler
	User       *handlers.UserHandler
	Generation *handlers.GenerationHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     handlers.NewHealthHandler(),
		Auth:       handlers.NewAuthHandler(serviceset.Auth),
		Roadmap:    handlers.NewRoadmapHandler(serviceset.Roadmap),
		Progress:   handlers.NewProgressHandler(serviceset.Progress),
		User:       handlers.NewUserHandler(serviceset.Stats),
		Generation: handlers.NewGenerationHandler(serviceset.Generation),
	}
}
