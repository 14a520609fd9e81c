package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/ncastellanos/roadmapr-backend/internal/logger"
)

type CounterRepo interface {
	NextValue(ctx context.Context, tx *gorm.DB, name string) (int64, error)
}

type counterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCounterRepo(db *gorm.DB, baseLog *logger.Logger) CounterRepo {
	return &counterRepo{db: db, log: baseLog.With("repo", "CounterRepo")}
}

// NextValue mints the next sequence value in one atomic statement. The
// upsert-with-increment is the primitive itself; there is no separate read
// then write for two creators to race on.
func (r *counterRepo) NextValue(ctx context.Context, tx *gorm.DB, name string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var value int64
	err := transaction.WithContext(ctx).Raw(`
		INSERT INTO counter (name, value) VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = counter.value + 1
		RETURNING value
	`, name).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}
