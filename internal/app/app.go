// Package app assembles the whole backend: config, storage, repos, services,
// HTTP surface, and background jobs, in dependency order.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ncastellanos/roadmapr-backend/internal/clients"
	"github.com/ncastellanos/roadmapr-backend/internal/db"
	"github.com/ncastellanos/roadmapr-backend/internal/jobs"
	"github.com/ncastellanos/roadmapr-backend/internal/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Cleanup  *jobs.CleanupWorker

	cache  *clients.RoadmapCache
	cancel context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	// Cache and generator degrade rather than block startup: a missing redis
	// leaves reads uncached, a missing AI key disables generation only.
	cache, err := clients.NewRoadmapCache(log)
	if err != nil {
		log.Warn("Roadmap cache unavailable, continuing without it", "error", err)
		cache = nil
	}
	generator, err := clients.NewGeminiClient(log)
	if err != nil {
		log.Warn("Roadmap generator unavailable, AI generation disabled", "error", err)
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, cache, generator)
	handlerset := wireHandlers(log, serviceset)
	middlewareset := wireMiddleware(log, serviceset)
	router := wireRouter(handlerset, middlewareset)

	cleanup := jobs.NewCleanupWorker(log, reposet.Roadmap, cfg.CleanupInterval)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Cleanup:  cleanup,
		cache:    cache,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.Cleanup.Start(ctx)
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.Log.Warn("Closing roadmap cache failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
