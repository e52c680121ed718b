package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type ChecklistItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.ChecklistItem) ([]*types.ChecklistItem, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ChecklistItem, error)
	ListByEntity(ctx context.Context, tx *gorm.DB, entityType types.EntityType, entityID uuid.UUID) ([]*types.ChecklistItem, error)
	Update(ctx context.Context, tx *gorm.DB, item *types.ChecklistItem) (*types.ChecklistItem, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CountOverdue(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
	ListDueBefore(ctx context.Context, tx *gorm.DB, before time.Time) ([]*types.ChecklistItem, error)
}

type checklistItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChecklistItemRepo(db *gorm.DB, baseLog *logger.Logger) ChecklistItemRepo {
	repoLog := baseLog.With("repo", "ChecklistItemRepo")
	return &checklistItemRepo{db: db, log: repoLog}
}

func (r *checklistItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.ChecklistItem) ([]*types.ChecklistItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(items) == 0 {
		return []*types.ChecklistItem{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *checklistItemRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ChecklistItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ChecklistItem
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *checklistItemRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType types.EntityType, entityID uuid.UUID) ([]*types.ChecklistItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChecklistItem
	if entityID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *checklistItemRepo) Update(ctx context.Context, tx *gorm.DB, item *types.ChecklistItem) (*types.ChecklistItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if item == nil || item.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	if err := transaction.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *checklistItemRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.ChecklistItem{}).Error; err != nil {
		return err
	}
	return nil
}

// ListDueBefore returns incomplete items whose due date falls before the
// cutoff, oldest due date first.
func (r *checklistItemRepo) ListDueBefore(ctx context.Context, tx *gorm.DB, before time.Time) ([]*types.ChecklistItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChecklistItem
	if err := transaction.WithContext(ctx).
		Where("is_completed = ? AND due_date IS NOT NULL AND due_date < ?", false, before).
		Order("due_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *checklistItemRepo) CountOverdue(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ChecklistItem{}).
		Where("is_completed = ? AND due_date IS NOT NULL AND due_date < ?", false, now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
