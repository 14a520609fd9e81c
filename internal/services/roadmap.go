package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ncastellanos/roadmapr-backend/internal/achievements"
	"github.com/ncastellanos/roadmapr-backend/internal/apperr"
	"github.com/ncastellanos/roadmapr-backend/internal/clients"
	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/repos"
	"github.com/ncastellanos/roadmapr-backend/internal/types"
	"github.com/ncastellanos/roadmapr-backend/internal/validation"
)

// roadmapCounterName is the shared sequence all roadmap creations draw from.
const roadmapCounterName = "roadmapCounter"

// unsavedRetention is how long an unsaved roadmap survives before the
// cleanup sweep may delete it.
const unsavedRetention = 7 * 24 * time.Hour

type CreateRoadmapResult struct {
	Roadmap         *types.Roadmap        `json:"roadmap"`
	NewAchievements []achievements.Unlock `json:"newAchievements"`
}

type RoadmapService interface {
	Create(ctx context.Context, userID uuid.UUID, doc *validation.RoadmapDocument, isPublic bool) (*CreateRoadmapResult, error)
	CreateUnsaved(ctx context.Context, userID uuid.UUID, doc *validation.RoadmapDocument, source string) (*CreateRoadmapResult, error)
	Get(ctx context.Context, viewerID uuid.UUID, publicID string) (*types.Roadmap, error)
	ListPublic(ctx context.Context) ([]*types.Roadmap, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Roadmap, error)
	Save(ctx context.Context, userID uuid.UUID, publicID string) (*types.Roadmap, error)
	CountUnsaved(ctx context.Context, userID uuid.UUID) (int64, error)
}

type roadmapService struct {
	db          *gorm.DB
	log         *logger.Logger
	roadmapRepo repos.RoadmapRepo
	counterRepo repos.CounterRepo
	userRepo    repos.UserRepo
	validator   *validation.Validator
	cache       *clients.RoadmapCache
	now         func() time.Time
}

func NewRoadmapService(
	db *gorm.DB,
	log *logger.Logger,
	roadmapRepo repos.RoadmapRepo,
	counterRepo repos.CounterRepo,
	userRepo repos.UserRepo,
	validator *validation.Validator,
	cache *clients.RoadmapCache,
) RoadmapService {
	return &roadmapService{
		db:          db,
		log:         log.With("service", "RoadmapService"),
		roadmapRepo: roadmapRepo,
		counterRepo: counterRepo,
		userRepo:    userRepo,
		validator:   validator,
		cache:       cache,
		now:         time.Now,
	}
}

// Create persists a user-authored roadmap. Manual creations are saved from
// the start and never expire.
func (s *roadmapService) Create(ctx context.Context, userID uuid.UUID, doc *validation.RoadmapDocument, isPublic bool) (*CreateRoadmapResult, error) {
	if err := s.validator.ValidateDocument(doc); err != nil {
		return nil, err
	}
	metadata, _ := json.Marshal(map[string]string{
		"source":        "manual",
		"dateGenerated": s.now().UTC().Format(time.RFC3339),
	})
	roadmap := s.buildRoadmap(userID, doc)
	roadmap.IsPublic = isPublic
	roadmap.IsSaved = true
	roadmap.Metadata = metadata
	return s.persist(ctx, userID, roadmap)
}

// CreateUnsaved persists a generated roadmap as transient: unsaved, with the
// expiry stamp the cleanup sweep keys on. Saving later clears the stamp.
func (s *roadmapService) CreateUnsaved(ctx context.Context, userID uuid.UUID, doc *validation.RoadmapDocument, source string) (*CreateRoadmapResult, error) {
	if err := s.validator.ValidateDocument(doc); err != nil {
		return nil, err
	}
	now := s.now()
	expiresAt := now.Add(unsavedRetention)
	metadata, _ := json.Marshal(map[string]string{
		"source":        source,
		"dateGenerated": now.UTC().Format(time.RFC3339),
	})
	roadmap := s.buildRoadmap(userID, doc)
	roadmap.IsSaved = false
	roadmap.ExpiresAt = &expiresAt
	roadmap.Metadata = metadata
	return s.persist(ctx, userID, roadmap)
}

func (s *roadmapService) buildRoadmap(userID uuid.UUID, doc *validation.RoadmapDocument) *types.Roadmap {
	return &types.Roadmap{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         doc.Title,
		Description:   doc.Description,
		Level:         doc.Level,
		EstimatedTime: doc.EstimatedTime,
		Modules:       doc.Modules,
		Connections:   doc.Connections,
	}
}

// persist mints the sequential public id, stores the roadmap, bumps the
// owner's roadmaps-started counter and evaluates statistics badges, all in
// one transaction so a failed step leaves nothing behind.
func (s *roadmapService) persist(ctx context.Context, userID uuid.UUID, roadmap *types.Roadmap) (*CreateRoadmapResult, error) {
	var result CreateRoadmapResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.counterRepo.NextValue(ctx, tx, roadmapCounterName)
		if err != nil {
			return fmt.Errorf("mint roadmap id: %w", err)
		}
		roadmap.PublicID = fmt.Sprintf("%03d", seq)

		if err := s.roadmapRepo.Create(ctx, tx, roadmap); err != nil {
			return fmt.Errorf("create roadmap: %w", err)
		}
		if err := s.userRepo.IncrementRoadmapsStarted(ctx, tx, userID, 1); err != nil {
			return fmt.Errorf("increment roadmaps started: %w", err)
		}

		user, err := s.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if user == nil {
			return apperr.NotFound("user not found")
		}
		unlockedRows, err := s.userRepo.GetAchievements(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load achievements: %w", err)
		}

		unlocks := achievements.EvaluateByStatistics(user.Stats, achievements.UnlockedSet(unlockedRows), s.now())
		if err := s.appendUnlocks(ctx, tx, userID, unlocks); err != nil {
			return err
		}
		result.NewAchievements = unlocks
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Roadmap = roadmap
	s.log.Info("Roadmap created", "public_id", roadmap.PublicID, "saved", roadmap.IsSaved)
	return &result, nil
}

func (s *roadmapService) appendUnlocks(ctx context.Context, tx *gorm.DB, userID uuid.UUID, unlocks []achievements.Unlock) error {
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

func (s *roadmapService) Get(ctx context.Context, viewerID uuid.UUID, publicID string) (*types.Roadmap, error) {
	if cached := s.cache.Get(ctx, publicID); cached != nil {
		if err := checkVisibility(cached, viewerID); err != nil {
			return nil, err
		}
		return cached, nil
	}

	roadmap, err := s.roadmapRepo.GetByPublicID(ctx, nil, publicID)
	if err != nil {
		return nil, apperr.Unavailable("failed to load roadmap", err)
	}
	if roadmap == nil {
		return nil, apperr.NotFound("roadmap not found")
	}
	if err := checkVisibility(roadmap, viewerID); err != nil {
		return nil, err
	}
	s.cache.Set(ctx, roadmap)
	return roadmap, nil
}

func checkVisibility(roadmap *types.Roadmap, viewerID uuid.UUID) error {
	if roadmap.IsPublic {
		return nil
	}
	if viewerID == uuid.Nil {
		return apperr.Unauthorized("authentication required")
	}
	if roadmap.UserID != viewerID {
		return apperr.Forbidden("access denied")
	}
	return nil
}

func (s *roadmapService) ListPublic(ctx context.Context) ([]*types.Roadmap, error) {
	roadmaps, err := s.roadmapRepo.GetPublic(ctx, nil)
	if err != nil {
		return nil, apperr.Unavailable("failed to list roadmaps", err)
	}
	return roadmaps, nil
}

func (s *roadmapService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Roadmap, error) {
	roadmaps, err := s.roadmapRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apperr.Unavailable("failed to list roadmaps", err)
	}
	return roadmaps, nil
}

// Save makes a transient roadmap permanent: expiry cleared so the sweep
// ignores it from here on, whatever its age.
func (s *roadmapService) Save(ctx context.Context, userID uuid.UUID, publicID string) (*types.Roadmap, error) {
	roadmap, err := s.roadmapRepo.GetByPublicID(ctx, nil, publicID)
	if err != nil {
		return nil, apperr.Unavailable("failed to load roadmap", err)
	}
	if roadmap == nil {
		return nil, apperr.NotFound("roadmap not found")
	}
	if roadmap.UserID != userID {
		return nil, apperr.Forbidden("only the owner can save a roadmap")
	}

	if err := s.roadmapRepo.MarkSaved(ctx, nil, roadmap.ID); err != nil {
		return nil, apperr.Unavailable("failed to save roadmap", err)
	}
	roadmap.IsSaved = true
	roadmap.ExpiresAt = nil
	s.cache.Invalidate(ctx, publicID)
	return roadmap, nil
}

func (s *roadmapService) CountUnsaved(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.roadmapRepo.CountUnsaved(ctx, nil, userID)
}
