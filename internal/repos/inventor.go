package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type InventorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Inventor) ([]*types.Inventor, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Inventor, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Inventor, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Inventor) (*types.Inventor, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type inventorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInventorRepo(db *gorm.DB, baseLog *logger.Logger) InventorRepo {
	repoLog := baseLog.With("repo", "InventorRepo")
	return &inventorRepo{db: db, log: repoLog}
}

func (r *inventorRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Inventor) ([]*types.Inventor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Inventor{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *inventorRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Inventor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Inventor
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *inventorRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Inventor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Inventor
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *inventorRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Inventor) (*types.Inventor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil || row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	if err := transaction.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *inventorRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Inventor{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *inventorRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Inventor{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

