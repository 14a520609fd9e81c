package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/repos"
	"github.com/ncastellanos/roadmapr-backend/internal/testutil"
	"github.com/ncastellanos/roadmapr-backend/internal/types"
	"github.com/ncastellanos/roadmapr-backend/internal/validation"
)

// testNow is the fixed clock every service under test runs on.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db           *gorm.DB
	userRepo     repos.UserRepo
	roadmapRepo  repos.RoadmapRepo
	progressRepo repos.ProgressRepo
	counterRepo  repos.CounterRepo

	auth     *authService
	roadmaps *roadmapService
	progress *progressService
	stats    *statsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := testutil.OpenTestDB(t)
	log := logger.NewNop()

	env := &testEnv{
		db:           conn,
		userRepo:     repos.NewUserRepo(conn, log),
		roadmapRepo:  repos.NewRoadmapRepo(conn, log),
		progressRepo: repos.NewProgressRepo(conn, log),
		counterRepo:  repos.NewCounterRepo(conn, log),
	}

	env.auth = NewAuthService(conn, log, env.userRepo, "test-secret", time.Hour).(*authService)
	env.roadmaps = NewRoadmapService(conn, log, env.roadmapRepo, env.counterRepo, env.userRepo, validation.New(), nil).(*roadmapService)
	env.roadmaps.now = func() time.Time { return testNow }
	env.progress = NewProgressService(conn, log, env.roadmapRepo, env.progressRepo, env.userRepo).(*progressService)
	env.progress.now = func() time.Time { return testNow }
	env.stats = NewStatsService(conn, log, env.userRepo, env.progressRepo).(*statsService)
	env.stats.now = func() time.Time { return testNow }

	return env
}

func (env *testEnv) seedUser(t *testing.T) *types.User {
	t.Helper()
	user := &types.User{
		ID:       uuid.New(),
		Username: "ada",
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Password: "hashed",
	}
	require.NoError(t, env.userRepo.Create(context.Background(), nil, user))
	return user
}

func (env *testEnv) reloadUser(t *testing.T, id uuid.UUID) *types.User {
	t.Helper()
	user, err := env.userRepo.GetByID(context.Background(), nil, id)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func testDocument() *validation.RoadmapDocument {
	doc := &validation.RoadmapDocument{
		Title:         "Learn Distributed Systems",
		Description:   "A structured path through distributed systems fundamentals.",
		Level:         types.LevelIntermediate,
		EstimatedTime: "3 months",
	}
	for m := 1; m <= 3; m++ {
		module := types.Module{
			ID:    fmt.Sprintf("mod-%d", m),
			Title: fmt.Sprintf("Module %d", m),
		}
		for tp := 1; tp <= 3; tp++ {
			module.Topics = append(module.Topics, types.Topic{
				ID:            fmt.Sprintf("topic-%d-%d", m, tp),
				Title:         fmt.Sprintf("Topic %d.%d", m, tp),
				EstimatedTime: "2 weeks",
				Subtopics: []string{
					"Understand the core idea",
					"Work through an example",
					"Apply it to a small project",
				},
				Resources: []types.Resource{
					{Name: "Reference guide", URL: "https://example.com/guide"},
				},
			})
		}
		doc.Modules = append(doc.Modules, module)
	}
	return doc
}

// completeTopic toggles every subtopic of the topic to done and returns the
// last toggle's result.
func (env *testEnv) completeTopic(t *testing.T, userID uuid.UUID, publicID, topicID string, subtopics int) *ToggleResult {
	t.Helper()
	var result *ToggleResult
	for i := 0; i < subtopics; i++ {
		var err error
		result, err = env.progress.ToggleSubtopic(context.Background(), userID, publicID, topicID, i, true)
		require.NoError(t, err)
	}
	return result
}
