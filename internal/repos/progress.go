package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

// ErrVersionConflict signals that a versioned save lost a race with another
// writer for the same record. Callers re-read and retry.
var ErrVersionConflict = errors.New("progress record version conflict")

type ProgressRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID, roadmapID uuid.UUID, topicID string) (*types.ProgressRecord, error)
	GetByUserAndRoadmap(ctx context.Context, tx *gorm.DB, userID, roadmapID uuid.UUID) ([]*types.ProgressRecord, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ProgressRecord, error)
	Create(ctx context.Context, tx *gorm.DB, record *types.ProgressRecord) error
	SaveVersioned(ctx context.Context, tx *gorm.DB, record *types.ProgressRecord) error
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) Get(ctx context.Context, tx *gorm.DB, userID, roadmapID uuid.UUID, topicID string) (*types.ProgressRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var record types.ProgressRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND roadmap_id = ? AND topic_id = ?", userID, roadmapID, topicID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *progressRepo) GetByUserAndRoadmap(ctx context.Context, tx *gorm.DB, userID, roadmapID uuid.UUID) ([]*types.ProgressRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProgressRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND roadmap_id = ?", userID, roadmapID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ProgressRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProgressRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressRepo) Create(ctx context.Context, tx *gorm.DB, record *types.ProgressRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(record).Error
}

// SaveVersioned is a compare-and-swap on the record's version column. The
// whole-record replacement only lands when nobody else wrote in between,
// which is what keeps concurrent toggles on the same topic from clobbering
// each other's subtopic entries.
func (r *progressRepo) SaveVersioned(ctx context.Context, tx *gorm.DB, record *types.ProgressRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	currentVersion := record.Version
	record.Version = currentVersion + 1
	result := transaction.WithContext(ctx).
		Model(&types.ProgressRecord{}).
		Where("id = ? AND version = ?", record.ID, currentVersion).
		Select("SubtopicProgress", "IsTopicCompleted", "Version").
		Updates(types.ProgressRecord{
			SubtopicProgress: record.SubtopicProgress,
			IsTopicCompleted: record.IsTopicCompleted,
			Version:          record.Version,
		})
	if result.Error != nil {
		record.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		record.Version = currentVersion
		return ErrVersionConflict
	}
	return nil
}
