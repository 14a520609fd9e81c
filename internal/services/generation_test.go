package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ncastellanos/roadmapr-backend/internal/apperr"
	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/validation"
)

type stubGenerator struct {
	doc   *validation.RoadmapDocument
	err   error
	calls int
}

func (g *stubGenerator) GenerateRoadmap(ctx context.Context, topic, level string) (*validation.RoadmapDocument, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.doc, nil
}

func TestGenerateRoadmapPersistsUnsaved(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	generator := &stubGenerator{doc: testDocument()}
	service := NewGenerationService(logger.NewNop(), generator, env.roadmaps)

	result, err := service.GenerateRoadmap(context.Background(), user.ID, "distributed systems", "intermediate")
	require.NoError(t, err)
	require.False(t, result.Roadmap.IsSaved)
	require.NotNil(t, result.Roadmap.ExpiresAt)
	require.Equal(t, 1, generator.calls)
}

func TestGenerateRoadmapRequiresInput(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	generator := &stubGenerator{doc: testDocument()}
	service := NewGenerationService(logger.NewNop(), generator, env.roadmaps)

	_, err := service.GenerateRoadmap(context.Background(), user.ID, "", "intermediate")
	require.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	_, err = service.GenerateRoadmap(context.Background(), user.ID, "go", "")
	require.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	require.Zero(t, generator.calls)
}

func TestGenerateRoadmapEnforcesUnsavedCap(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	generator := &stubGenerator{doc: testDocument()}
	service := NewGenerationService(logger.NewNop(), generator, env.roadmaps)
	ctx := context.Background()

	for i := 0; i < maxUnsavedRoadmaps; i++ {
		_, err := service.GenerateRoadmap(ctx, user.ID, "go", "beginner")
		require.NoError(t, err)
	}

	// The cap check runs before the provider is called.
	callsBefore := generator.calls
	_, err := service.GenerateRoadmap(ctx, user.ID, "go", "beginner")
	require.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	require.Equal(t, callsBefore, generator.calls)

	// Saving one frees a slot.
	roadmaps, err := env.roadmaps.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	_, err = env.roadmaps.Save(ctx, user.ID, roadmaps[0].PublicID)
	require.NoError(t, err)

	_, err = service.GenerateRoadmap(ctx, user.ID, "go", "beginner")
	require.NoError(t, err)
}

func TestGenerateRoadmapRejectsContractViolations(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	doc := testDocument()
	doc.Modules[0].Topics[0].Subtopics = doc.Modules[0].Topics[0].Subtopics[:2]
	generator := &stubGenerator{doc: doc}
	service := NewGenerationService(logger.NewNop(), generator, env.roadmaps)

	_, err := service.GenerateRoadmap(context.Background(), user.ID, "go", "beginner")
	require.True(t, apperr.IsKind(err, apperr.KindContentInvalid))

	// Nothing was stored.
	count, err := env.roadmaps.CountUnsaved(context.Background(), user.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestGenerateRoadmapWithoutGenerator(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	service := NewGenerationService(logger.NewNop(), nil, env.roadmaps)

	_, err := service.GenerateRoadmap(context.Background(), user.ID, "go", "beginner")
	require.True(t, apperr.IsKind(err, apperr.KindUnavailable))
}
