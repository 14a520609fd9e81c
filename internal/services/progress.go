package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/ncastellanos/roadmapr-backend/internal/achievements"
	"github.com/ncastellanos/roadmapr-backend/internal/apperr"
	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/progress"
	"github.com/ncastellanos/roadmapr-backend/internal/repos"
	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

// toggleRetryAttempts bounds how often a lost optimistic-lock race is retried
// locally before surfacing as a Conflict.
const toggleRetryAttempts = 3

type ToggleResult struct {
	Progress        *types.ProgressRecord `json:"progress"`
	Stats           progress.TopicStats   `json:"stats"`
	NewAchievements []achievements.Unlock `json:"newAchievements"`
}

type TopicProgressResult struct {
	Progress  *types.ProgressRecord `json:"progress"`
	Stats     progress.TopicStats   `json:"stats"`
	Subtopics []string              `json:"subtopics"`
}

type RoadmapProgressResult struct {
	Stats           progress.RoadmapStats `json:"stats"`
	NewAchievements []achievements.Unlock `json:"newAchievements"`
}

type ProgressService interface {
	ToggleSubtopic(ctx context.Context, userID uuid.UUID, roadmapPublicID, topicID string, subtopicIndex int, isCompleted bool) (*ToggleResult, error)
	GetTopicProgress(ctx context.Context, userID uuid.UUID, roadmapPublicID, topicID string) (*TopicProgressResult, error)
	GetRoadmapProgress(ctx context.Context, userID uuid.UUID, roadmapPublicID string) (*RoadmapProgressResult, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	roadmapRepo  repos.RoadmapRepo
	progressRepo repos.ProgressRepo
	userRepo     repos.UserRepo
	now          func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	roadmapRepo repos.RoadmapRepo,
	progressRepo repos.ProgressRepo,
	userRepo repos.UserRepo,
) ProgressService {
	return &progressService{
		db:           db,
		log:          log.With("service", "ProgressService"),
		roadmapRepo:  roadmapRepo,
		progressRepo: progressRepo,
		userRepo:     userRepo,
		now:          time.Now,
	}
}

// ToggleSubtopic applies one checkbox change and everything that follows
// from it: the record's subtopic entry, the derived topic completion flag,
// the owner's topic counter when the topic transitions to complete, and any
// badges that counter newly satisfies. The whole sequence commits in a
// single transaction; a lost write race is retried as a fresh
// read-modify-write so no subtopic entry from a concurrent toggle is
// clobbered.
func (s *progressService) ToggleSubtopic(ctx context.Context, userID uuid.UUID, roadmapPublicID, topicID string, subtopicIndex int, isCompleted bool) (*ToggleResult, error) {
	roadmap, topic, err := s.resolveTopic(ctx, roadmapPublicID, topicID)
	if err != nil {
		return nil, err
	}
	if subtopicIndex < 0 || subtopicIndex >= len(topic.Subtopics) {
		return nil, apperr.InvalidArgument(fmt.Sprintf("subtopic index %d out of range for topic %s", subtopicIndex, topicID))
	}
	// The index only resolves content; the stored key is the text itself.
	subtopicContent := topic.Subtopics[subtopicIndex]

	var result *ToggleResult
	err = retry.Do(
		func() error {
			var attemptErr error
			result, attemptErr = s.toggleOnce(ctx, userID, roadmap, topic, subtopicContent, isCompleted)
			return attemptErr
		},
		retry.Attempts(toggleRetryAttempts),
		retry.Delay(10*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, repos.ErrVersionConflict)
		}),
	)
	if err != nil {
		if errors.Is(err, repos.ErrVersionConflict) {
			return nil, apperr.Conflict("progress record is being modified concurrently, try again", err)
		}
		return nil, err
	}
	return result, nil
}

func (s *progressService) toggleOnce(ctx context.Context, userID uuid.UUID, roadmap *types.Roadmap, topic *types.Topic, subtopicContent string, isCompleted bool) (*ToggleResult, error) {
	var result ToggleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.progressRepo.Get(ctx, tx, userID, roadmap.ID, topic.ID)
		if err != nil {
			return fmt.Errorf("load progress record: %w", err)
		}

		wasCompleted := record != nil && record.IsTopicCompleted

		if record == nil {
			record = &types.ProgressRecord{
				ID:        uuid.New(),
				UserID:    userID,
				RoadmapID: roadmap.ID,
				TopicID:   topic.ID,
			}
			record.SetSubtopic(subtopicContent, isCompleted)
			record.IsTopicCompleted = progress.ComputeTopicStats(topic, record).IsTopicCompleted
			if err := s.progressRepo.Create(ctx, tx, record); err != nil {
				// A concurrent first toggle may have created the record; the
				// unique (user, roadmap, topic) index rejects ours. Retry as
				// an update.
				return repos.ErrVersionConflict
			}
		} else {
			record.SetSubtopic(subtopicContent, isCompleted)
			record.IsTopicCompleted = progress.ComputeTopicStats(topic, record).IsTopicCompleted
			if err := s.progressRepo.SaveVersioned(ctx, tx, record); err != nil {
				return err
			}
		}

		result.Progress = record
		result.Stats = progress.ComputeTopicStats(topic, record)

		// Only a false→true transition moves the counter; repeating a toggle
		// or completing an already-complete topic must not.
		if !wasCompleted && record.IsTopicCompleted {
			unlocks, err := s.onTopicCompleted(ctx, tx, userID)
			if err != nil {
				return err
			}
			result.NewAchievements = unlocks
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *progressService) onTopicCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]achievements.Unlock, error) {
	if err := s.userRepo.IncrementTopicsCompleted(ctx, tx, userID, 1); err != nil {
		return nil, fmt.Errorf("increment topics completed: %w", err)
	}
	user, err := s.userRepo.GetByID(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	unlockedRows, err := s.userRepo.GetAchievements(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}

	unlocks := achievements.EvaluateByStatistics(user.Stats, achievements.UnlockedSet(unlockedRows), s.now())
	if err := s.appendUnlocks(ctx, tx, userID, unlocks); err != nil {
		return nil, err
	}
	s.log.Debug("Topic completed", "user_id", userID, "total_topics_completed", user.Stats.TotalTopicsCompleted, "new_badges", len(unlocks))
	return unlocks, nil
}

func (s *progressService) GetTopicProgress(ctx context.Context, userID uuid.UUID, roadmapPublicID, topicID string) (*TopicProgressResult, error) {
	roadmap, topic, err := s.resolveTopic(ctx, roadmapPublicID, topicID)
	if err != nil {
		return nil, err
	}

	record, err := s.progressRepo.Get(ctx, nil, userID, roadmap.ID, topic.ID)
	if err != nil {
		return nil, apperr.Unavailable("failed to load progress", err)
	}
	return &TopicProgressResult{
		Progress:  record,
		Stats:     progress.ComputeTopicStats(topic, record),
		Subtopics: topic.Subtopics,
	}, nil
}

// GetRoadmapProgress computes whole-roadmap statistics and, as a side
// effect, unlocks any percentage milestones the roadmap has newly crossed.
func (s *progressService) GetRoadmapProgress(ctx context.Context, userID uuid.UUID, roadmapPublicID string) (*RoadmapProgressResult, error) {
	var (
		roadmap      *types.Roadmap
		unlockedRows []types.UserAchievement
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		roadmap, err = s.roadmapRepo.GetByPublicID(groupCtx, nil, roadmapPublicID)
		if err != nil {
			return apperr.Unavailable("failed to load roadmap", err)
		}
		if roadmap == nil {
			return apperr.NotFound("roadmap not found")
		}
		return nil
	})
	group.Go(func() error {
		var err error
		unlockedRows, err = s.userRepo.GetAchievements(groupCtx, nil, userID)
		if err != nil {
			return apperr.Unavailable("failed to load achievements", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	records, err := s.progressRepo.GetByUserAndRoadmap(ctx, nil, userID, roadmap.ID)
	if err != nil {
		return nil, apperr.Unavailable("failed to load progress", err)
	}
	recordsByTopic := make(map[string]*types.ProgressRecord, len(records))
	for _, record := range records {
		recordsByTopic[record.TopicID] = record
	}

	stats := progress.ComputeRoadmapStats(roadmap.Modules, recordsByTopic)
	unlocks := achievements.EvaluateByPercentage(stats.Percentage, achievements.UnlockedSet(unlockedRows), s.now())

	if len(unlocks) > 0 {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.appendUnlocks(ctx, tx, userID, unlocks)
		})
		if err != nil {
			return nil, err
		}
	}
	return &RoadmapProgressResult{Stats: stats, NewAchievements: unlocks}, nil
}

func (s *progressService) appendUnlocks(ctx context.Context, tx *gorm.DB, userID uuid.UUID, unlocks []achievements.Unlock) error {
	if len(unlocks) == 0 {
		return nil
	}
	rows := make([]*types.UserAchievement, 0, len(unlocks))
	for _, u := range unlocks {
		rows = append(rows, &types.UserAchievement{
			ID:          uuid.New(),
			UserID:      userID,
			Name:        u.Name,
			Description: u.Description,
			Icon:        u.Icon,
			UnlockedAt:  u.UnlockedAt,
		})
	}
	if err := s.userRepo.AppendAchievements(ctx, tx, rows); err != nil {
		return fmt.Errorf("append achievements: %w", err)
	}
	return nil
}

func (s *progressService) resolveTopic(ctx context.Context, roadmapPublicID, topicID string) (*types.Roadmap, *types.Topic, error) {
	roadmap, err := s.roadmapRepo.GetByPublicID(ctx, nil, roadmapPublicID)
	if err != nil {
		return nil, nil, apperr.Unavailable("failed to load roadmap", err)
	}
	if roadmap == nil {
		return nil, nil, apperr.NotFound("roadmap not found")
	}
	topic := roadmap.FindTopic(topicID)
	if topic == nil {
		return nil, nil, apperr.NotFound("topic not found in roadmap")
	}
	return roadmap, topic, nil
}
