package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type FilingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Filing) ([]*types.Filing, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Filing, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Filing, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Filing) (*types.Filing, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error)
}

type filingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFilingRepo(db *gorm.DB, baseLog *logger.Logger) FilingRepo {
	repoLog := baseLog.With("repo", "FilingRepo")
	return &filingRepo{db: db, log: repoLog}
}

func (r *filingRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Filing) ([]*types.Filing, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Filing{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *filingRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Filing, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Filing
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

func (r *filingRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Filing, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Filing
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *filingRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Filing) (*types.Filing, error) {
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

func (r *filingRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Filing{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *filingRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Filing{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *filingRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Filing{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
