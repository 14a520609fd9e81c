package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/repos"
	"github.com/ncastellanos/roadmapr-backend/internal/testutil"
	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

func seedCleanupRoadmap(t *testing.T, conn *gorm.DB, userID uuid.UUID, saved bool, expiresAt *time.Time) uuid.UUID {
	t.Helper()
	roadmap := &types.Roadmap{
		ID:        uuid.New(),
		PublicID:  uuid.NewString()[:8],
		UserID:    userID,
		Title:     "Test Roadmap",
		Level:     types.LevelBeginner,
		IsSaved:   saved,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, conn.Create(roadmap).Error)
	return roadmap.ID
}

func TestRunOnceDeletesOnlyExpiredUnsaved(t *testing.T) {
	conn := testutil.OpenTestDB(t)
	log := logger.NewNop()
	roadmapRepo := repos.NewRoadmapRepo(conn, log)

	user := &types.User{ID: uuid.New(), Username: "ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, conn.Create(user).Error)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := seedCleanupRoadmap(t, conn, user.ID, false, &past)
	pending := seedCleanupRoadmap(t, conn, user.ID, false, &future)
	// Saved with a stale stamp: saving should have cleared it, but even if it
	// lingers the sweep must not touch a saved roadmap.
	savedStale := seedCleanupRoadmap(t, conn, user.ID, true, &past)
	savedClean := seedCleanupRoadmap(t, conn, user.ID, true, nil)

	worker := NewCleanupWorker(log, roadmapRepo, time.Hour)
	deleted, err := worker.RunOnce(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	ctx := context.Background()
	gone, err := roadmapRepo.GetByID(ctx, nil, expired)
	require.NoError(t, err)
	require.Nil(t, gone)

	for _, id := range []uuid.UUID{pending, savedStale, savedClean} {
		kept, err := roadmapRepo.GetByID(ctx, nil, id)
		require.NoError(t, err)
		require.NotNil(t, kept)
	}

	// A later sweep picks up what has since expired.
	deleted, err = worker.RunOnce(context.Background(), now.Add(2*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)
}
