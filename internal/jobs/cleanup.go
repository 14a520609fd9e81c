// Package jobs holds background tasks with explicit lifecycles, kept apart
// from request handling.
package jobs

import (
	"context"
	"time"

	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/repos"
)

// CleanupWorker periodically deletes unsaved roadmaps whose expiry stamp has
// passed. It owns its own loop: Start launches it, cancelling the context
// stops it, and RunOnce is directly callable with a fixed now for tests.
type CleanupWorker struct {
	log         *logger.Logger
	roadmapRepo repos.RoadmapRepo
	interval    time.Duration
	now         func() time.Time
}

func NewCleanupWorker(baseLog *logger.Logger, roadmapRepo repos.RoadmapRepo, interval time.Duration) *CleanupWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &CleanupWorker{
		log:         baseLog.With("component", "CleanupWorker"),
		roadmapRepo: roadmapRepo,
		interval:    interval,
		now:         time.Now,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	w.log.Info("Starting roadmap cleanup worker", "interval", w.interval.String())
	go w.runLoop(ctx)
}

func (w *CleanupWorker) runLoop(ctx context.Context) {
	// Sweep once on startup, then on the interval.
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Cleanup worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *CleanupWorker) sweep(ctx context.Context) {
	deleted, err := w.RunOnce(ctx, w.now())
	if err != nil {
		w.log.Warn("Roadmap cleanup sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		w.log.Info("Expired roadmaps deleted", "count", deleted)
	}
}

// RunOnce deletes every unsaved roadmap expired at the given instant and
// returns how many went. Saved roadmaps are never candidates: saving clears
// the expiry stamp.
func (w *CleanupWorker) RunOnce(ctx context.Context, now time.Time) (int64, error) {
	return w.roadmapRepo.DeleteExpired(ctx, nil, now)
}
