package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

// EntityLinkRepo has no Update: link rows are created and deleted, never
// modified in place.
type EntityLinkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, link *types.EntityLink) (*types.EntityLink, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EntityLink, error)
	GetByPair(ctx context.Context, tx *gorm.DB, fromType types.EntityType, fromID uuid.UUID, toType types.EntityType, toID uuid.UUID) (*types.EntityLink, error)
	ListByEntity(ctx context.Context, tx *gorm.DB, entityType types.EntityType, entityID uuid.UUID) ([]*types.EntityLink, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type entityLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntityLinkRepo(db *gorm.DB, baseLog *logger.Logger) EntityLinkRepo {
	repoLog := baseLog.With("repo", "EntityLinkRepo")
	return &entityLinkRepo{db: db, log: repoLog}
}

func (r *entityLinkRepo) Create(ctx context.Context, tx *gorm.DB, link *types.EntityLink) (*types.EntityLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if link == nil {
		return nil, gorm.ErrInvalidValue
	}

	if err := transaction.WithContext(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func (r *entityLinkRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EntityLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.EntityLink
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *entityLinkRepo) GetByPair(ctx context.Context, tx *gorm.DB, fromType types.EntityType, fromID uuid.UUID, toType types.EntityType, toID uuid.UUID) (*types.EntityLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.EntityLink
	if err := transaction.WithContext(ctx).
		Where("from_entity_type = ? AND from_entity_id = ? AND to_entity_type = ? AND to_entity_id = ?",
			fromType, fromID, toType, toID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *entityLinkRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType types.EntityType, entityID uuid.UUID) ([]*types.EntityLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.EntityLink
	if entityID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("(from_entity_type = ? AND from_entity_id = ?) OR (to_entity_type = ? AND to_entity_id = ?)",
			entityType, entityID, entityType, entityID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *entityLinkRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.EntityLink{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *entityLinkRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.EntityLink{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
