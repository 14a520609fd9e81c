package app

import (
	"gorm.io/gorm"

	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/repos"
)

type Repos struct {
	User     repos.UserRepo
	Roadmap  repos.RoadmapRepo
	Progress repos.ProgressRepo
	Counter  repos.CounterRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:     repos.NewUserRepo(db, log),
		Roadmap:  repos.NewRoadmapRepo(db, log),
		Progress: repos.NewProgressRepo(db, log),
		Counter:  repos.NewCounterRepo(db, log),
	}
}
