package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ncastellanos/roadmapr-backend/internal/achievements"
	"github.com/ncastellanos/roadmapr-backend/internal/apperr"
	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/progress"
	"github.com/ncastellanos/roadmapr-backend/internal/repos"
	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

// AnnotatedAchievement is one catalog entry marked with the user's unlock
// state, for the achievements overview.
type AnnotatedAchievement struct {
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Requirement string     `json:"requirement"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

type AchievementsResult struct {
	Unlocked []types.UserAchievement `json:"unlocked"`
	Catalog  []AnnotatedAchievement  `json:"catalog"`
}

type StatsService interface {
	GetUserStats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error)
	GetAchievements(ctx context.Context, userID uuid.UUID) (*AchievementsResult, error)
}

type statsService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	progressRepo repos.ProgressRepo
	now          func() time.Time
}

func NewStatsService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, progressRepo repos.ProgressRepo) StatsService {
	return &statsService{
		db:           db,
		log:          log.With("service", "StatsService"),
		userRepo:     userRepo,
		progressRepo: progressRepo,
		now:          time.Now,
	}
}

// GetUserStats returns the user's counters after reconciling the
// roadmap-derived ones against observed progress. Started never decreases
// (it counts creations too, which leave no progress records); completed is a
// recomputation and may move either way.
func (s *statsService) GetUserStats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error) {
	var stats types.UserStats
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if user == nil {
			return apperr.NotFound("user not found")
		}

		records, err := s.progressRepo.GetByUserID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}

		started, completed := roadmapCounts(records)
		stats = user.Stats
		if started > stats.TotalRoadmapsStarted {
			stats.TotalRoadmapsStarted = started
		}
		stats.TotalRoadmapsCompleted = completed
		stats.AverageCompletionRate = completionRate(records)
		stats.LearningVelocity = progress.ComputeLearningVelocity(stats.TotalTopicsCompleted, user.CreatedAt, s.now())

		if err := s.userRepo.UpdateStats(ctx, tx, userID, stats); err != nil {
			return fmt.Errorf("update stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// roadmapCounts derives (started, completed) from the user's progress
// records alone: started counts distinct roadmaps with any record, completed
// those where every touched topic is complete.
func roadmapCounts(records []*types.ProgressRecord) (int, int) {
	allComplete := make(map[uuid.UUID]bool)
	for _, record := range records {
		done, seen := allComplete[record.RoadmapID]
		if !seen {
			allComplete[record.RoadmapID] = record.IsTopicCompleted
			continue
		}
		allComplete[record.RoadmapID] = done && record.IsTopicCompleted
	}
	completed := 0
	for _, done := range allComplete {
		if done {
			completed++
		}
	}
	return len(allComplete), completed
}

// completionRate is the percentage of touched topics that are complete.
func completionRate(records []*types.ProgressRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	done := 0
	for _, record := range records {
		if record.IsTopicCompleted {
			done++
		}
	}
	return float64(done) / float64(len(records)) * 100
}

func (s *statsService) GetAchievements(ctx context.Context, userID uuid.UUID) (*AchievementsResult, error) {
	unlockedRows, err := s.userRepo.GetAchievements(ctx, nil, userID)
	if err != nil {
		return nil, apperr.Unavailable("failed to load achievements", err)
	}

	unlockedAt := make(map[string]time.Time, len(unlockedRows))
	for _, row := range unlockedRows {
		unlockedAt[row.Name] = row.UnlockedAt
	}

	catalog := achievements.Catalog()
	annotated := make([]AnnotatedAchievement, 0, len(catalog))
	for _, def := range catalog {
		entry := AnnotatedAchievement{
			Name:        def.Name,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Requirement: def.Requirement,
		}
		if at, ok := unlockedAt[def.Name]; ok {
			entry.Unlocked = true
			entry.UnlockedAt = &at
		}
		annotated = append(annotated, entry)
	}

	return &AchievementsResult{
		Unlocked: unlockedRows,
		Catalog:  annotated,
	}, nil
}
