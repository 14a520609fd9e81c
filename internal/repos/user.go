package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, user *types.User) error
	GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	UpdateStats(ctx context.Context, tx *gorm.DB, userID uuid.UUID, stats types.UserStats) error
	IncrementTopicsCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error
	IncrementRoadmapsStarted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error
	GetAchievements(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.UserAchievement, error)
	AppendAchievements(ctx context.Context, tx *gorm.DB, rows []*types.UserAchievement) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var user types.User
	if err := transaction.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var user types.User
	if err := transaction.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) UpdateStats(ctx context.Context, tx *gorm.DB, userID uuid.UUID, stats types.UserStats) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"total_roadmaps_started":   stats.TotalRoadmapsStarted,
			"total_roadmaps_completed": stats.TotalRoadmapsCompleted,
			"average_completion_rate":  stats.AverageCompletionRate,
			"learning_velocity":        stats.LearningVelocity,
			"last_activity_date":       stats.LastActivityDate,
		}).Error
}

// IncrementTopicsCompleted applies the delta inside the database so two
// concurrent transitions cannot lose an increment.
func (r *userRepo) IncrementTopicsCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("total_topics_completed", gorm.Expr("total_topics_completed + ?", delta)).Error
}

func (r *userRepo) IncrementRoadmapsStarted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("total_roadmaps_started", gorm.Expr("total_roadmaps_started + ?", delta)).Error
}

func (r *userRepo) GetAchievements(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.UserAchievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []types.UserAchievement
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// AppendAchievements inserts new ledger rows. Duplicates on (user_id, name)
// are dropped by the conflict clause, keeping the unlock idempotent even when
// two requests race past the evaluator with the same stale unlocked set.
func (r *userRepo) AppendAchievements(ctx context.Context, tx *gorm.DB, rows []*types.UserAchievement) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}
