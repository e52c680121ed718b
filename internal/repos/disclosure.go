package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type DisclosureRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Disclosure) ([]*types.Disclosure, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Disclosure, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Disclosure, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Disclosure) (*types.Disclosure, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error)
}

type disclosureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDisclosureRepo(db *gorm.DB, baseLog *logger.Logger) DisclosureRepo {
	repoLog := baseLog.With("repo", "DisclosureRepo")
	return &disclosureRepo{db: db, log: repoLog}
}

func (r *disclosureRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Disclosure) ([]*types.Disclosure, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Disclosure{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *disclosureRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Disclosure, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Disclosure
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

func (r *disclosureRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Disclosure, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Disclosure
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *disclosureRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Disclosure) (*types.Disclosure, error) {
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

func (r *disclosureRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Disclosure{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *disclosureRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Disclosure{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *disclosureRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Disclosure{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
