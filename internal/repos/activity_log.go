package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

// ActivityLogRepo is append-only: the interface exposes no update or
// delete so nothing in the codebase can mutate an existing entry.
type ActivityLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.ActivityLog) ([]*types.ActivityLog, error)
	ListByEntity(ctx context.Context, tx *gorm.DB, entityType types.EntityType, entityID uuid.UUID) ([]*types.ActivityLog, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type activityLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityLogRepo(db *gorm.DB, baseLog *logger.Logger) ActivityLogRepo {
	repoLog := baseLog.With("repo", "ActivityLogRepo")
	return &activityLogRepo{db: db, log: repoLog}
}

func (r *activityLogRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.ActivityLog) ([]*types.ActivityLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(entries) == 0 {
		return []*types.ActivityLog{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *activityLogRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType types.EntityType, entityID uuid.UUID) ([]*types.ActivityLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ActivityLog
	if entityID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *activityLogRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ActivityLog{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
