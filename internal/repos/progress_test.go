package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/testutil"
	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

func seedProgressUser(t *testing.T, userRepo UserRepo) *types.User {
	t.Helper()
	user := &types.User{ID: uuid.New(), Username: "ada", Email: uuid.NewString() + "@example.com", Password: "x"}
	require.NoError(t, userRepo.Create(context.Background(), nil, user))
	return user
}

func seedRoadmapRow(t *testing.T, repo RoadmapRepo, userID uuid.UUID) uuid.UUID {
	t.Helper()
	roadmap := &types.Roadmap{
		ID:       uuid.New(),
		PublicID: uuid.NewString()[:8],
		UserID:   userID,
		Title:    "Test Roadmap",
		Level:    types.LevelBeginner,
	}
	require.NoError(t, repo.Create(context.Background(), nil, roadmap))
	return roadmap.ID
}

func TestSaveVersionedDetectsLostRace(t *testing.T) {
	conn := testutil.OpenTestDB(t)
	log := logger.NewNop()
	userRepo := NewUserRepo(conn, log)
	repo := NewProgressRepo(conn, log)
	ctx := context.Background()

	user := seedProgressUser(t, userRepo)
	roadmapID := seedRoadmapRow(t, NewRoadmapRepo(conn, log), user.ID)
	record := &types.ProgressRecord{
		ID:        uuid.New(),
		UserID:    user.ID,
		RoadmapID: roadmapID,
		TopicID:   "topic-1-1",
	}
	record.SetSubtopic("first", true)
	require.NoError(t, repo.Create(ctx, nil, record))

	// Two readers load the same version.
	a, err := repo.Get(ctx, nil, user.ID, roadmapID, "topic-1-1")
	require.NoError(t, err)
	b, err := repo.Get(ctx, nil, user.ID, roadmapID, "topic-1-1")
	require.NoError(t, err)

	a.SetSubtopic("second", true)
	require.NoError(t, repo.SaveVersioned(ctx, nil, a))

	// The second writer holds a stale version and must lose.
	b.SetSubtopic("third", true)
	err = repo.SaveVersioned(ctx, nil, b)
	require.ErrorIs(t, err, ErrVersionConflict)

	// A re-read sees the winner's state and can save again.
	fresh, err := repo.Get(ctx, nil, user.ID, roadmapID, "topic-1-1")
	require.NoError(t, err)
	require.Equal(t, 2, fresh.CompletedCount())
	fresh.SetSubtopic("third", true)
	require.NoError(t, repo.SaveVersioned(ctx, nil, fresh))
}

func TestProgressUniquePerUserRoadmapTopic(t *testing.T) {
	conn := testutil.OpenTestDB(t)
	log := logger.NewNop()
	userRepo := NewUserRepo(conn, log)
	repo := NewProgressRepo(conn, log)
	ctx := context.Background()

	user := seedProgressUser(t, userRepo)
	roadmapRepo := NewRoadmapRepo(conn, log)
	roadmapID := seedRoadmapRow(t, roadmapRepo, user.ID)

	first := &types.ProgressRecord{ID: uuid.New(), UserID: user.ID, RoadmapID: roadmapID, TopicID: "topic-1-1"}
	require.NoError(t, repo.Create(ctx, nil, first))

	duplicate := &types.ProgressRecord{ID: uuid.New(), UserID: user.ID, RoadmapID: roadmapID, TopicID: "topic-1-1"}
	require.Error(t, repo.Create(ctx, nil, duplicate))

	// Same topic id under a different roadmap is a distinct record.
	otherRoadmapID := seedRoadmapRow(t, roadmapRepo, user.ID)
	elsewhere := &types.ProgressRecord{ID: uuid.New(), UserID: user.ID, RoadmapID: otherRoadmapID, TopicID: "topic-1-1"}
	require.NoError(t, repo.Create(ctx, nil, elsewhere))
}

func TestAppendAchievementsIdempotent(t *testing.T) {
	conn := testutil.OpenTestDB(t)
	log := logger.NewNop()
	userRepo := NewUserRepo(conn, log)
	ctx := context.Background()

	user := seedProgressUser(t, userRepo)
	row := func() *types.UserAchievement {
		return &types.UserAchievement{
			ID:     uuid.New(),
			UserID: user.ID,
			Name:   "first_topic_completed",
			Icon:   "🎯",
		}
	}
	require.NoError(t, userRepo.AppendAchievements(ctx, nil, []*types.UserAchievement{row()}))
	// A duplicate unlock is swallowed, not an error.
	require.NoError(t, userRepo.AppendAchievements(ctx, nil, []*types.UserAchievement{row()}))

	unlocked, err := userRepo.GetAchievements(ctx, nil, user.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
}

func TestCounterNextValueMonotonic(t *testing.T) {
	conn := testutil.OpenTestDB(t)
	repo := NewCounterRepo(conn, logger.NewNop())
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.NextValue(ctx, nil, "roadmapCounter")
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	// Independent counters do not share a sequence.
	got, err := repo.NextValue(ctx, nil, "otherCounter")
	require.NoError(t, err)
	require.Equal(t, int64(1), got)
}
