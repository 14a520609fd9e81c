package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ncastellanos/roadmapr-backend/internal/apperr"
	"github.com/ncastellanos/roadmapr-backend/internal/clients"
	"github.com/ncastellanos/roadmapr-backend/internal/logger"
)

// maxUnsavedRoadmaps caps how many transient roadmaps a user can hold before
// generating more; they must save or let some expire first.
const maxUnsavedRoadmaps = 5

const generatedSource = "GEMINI_AI"

type GenerationService interface {
	GenerateRoadmap(ctx context.Context, userID uuid.UUID, topic, level string) (*CreateRoadmapResult, error)
}

type generationService struct {
	log            *logger.Logger
	generator      clients.RoadmapGenerator
	roadmapService RoadmapService
}

func NewGenerationService(log *logger.Logger, generator clients.RoadmapGenerator, roadmapService RoadmapService) GenerationService {
	return &generationService{
		log:            log.With("service", "GenerationService"),
		generator:      generator,
		roadmapService: roadmapService,
	}
}

// GenerateRoadmap asks the content provider for a roadmap and persists it as
// transient. The generated document is validated against the content
// contract before anything is stored; a contract violation is surfaced with
// its field issues and nothing is retried automatically.
func (s *generationService) GenerateRoadmap(ctx context.Context, userID uuid.UUID, topic, level string) (*CreateRoadmapResult, error) {
	if topic == "" || level == "" {
		return nil, apperr.InvalidArgument("topic and level are required")
	}
	if s.generator == nil {
		return nil, apperr.Unavailable("roadmap generation is not configured", nil)
	}

	unsaved, err := s.roadmapService.CountUnsaved(ctx, userID)
	if err != nil {
		return nil, apperr.Unavailable("failed to count unsaved roadmaps", err)
	}
	if unsaved >= maxUnsavedRoadmaps {
		return nil, apperr.InvalidArgument(fmt.Sprintf(
			"you have %d unsaved roadmaps; save or delete some before generating more", unsaved))
	}

	doc, err := s.generator.GenerateRoadmap(ctx, topic, level)
	if err != nil {
		return nil, err
	}

	result, err := s.roadmapService.CreateUnsaved(ctx, userID, doc, generatedSource)
	if err != nil {
		return nil, err
	}
	s.log.Info("Roadmap generated", "public_id", result.Roadmap.PublicID, "topic", topic, "level", level)
	return result, nil
}
