package app

import (
	"gorm.io/gorm"

	"github.com/ncastellanos/roadmapr-backend/internal/clients"
	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/services"
	"github.com/ncastellanos/roadmapr-backend/internal/validation"
)

type Services struct {
	Auth       services.AuthService
	Roadmap    services.RoadmapService
	Progress   services.ProgressService
	Stats      services.StatsService
	Generation services.GenerationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, cache *clients.RoadmapCache, generator clients.RoadmapGenerator) Services {
	log.Info("Wiring services...")
	contentValidator := validation.New()

	authService := services.NewAuthService(db, log, reposet.User, cfg.JWTSecretKey, cfg.TokenTTL)
	roadmapService := services.NewRoadmapService(db, log, reposet.Roadmap, reposet.Counter, reposet.User, contentValidator, cache)
	progressService := services.NewProgressService(db, log, reposet.Roadmap, reposet.Progress, reposet.User)
	statsService := services.NewStatsService(db, log, reposet.User, reposet.Progress)
	generationService := services.NewGenerationService(log, generator, roadmapService)

	return Services{
		Auth:       authService,
		Roadmap:    roadmapService,
		Progress:   progressService,
		Stats:      statsService,
		Generation: generationService,
	}
}
