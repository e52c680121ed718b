package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type AgreementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Agreement) ([]*types.Agreement, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Agreement, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Agreement, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Agreement) (*types.Agreement, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error)
}

type agreementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAgreementRepo(db *gorm.DB, baseLog *logger.Logger) AgreementRepo {
	repoLog := baseLog.With("repo", "AgreementRepo")
	return &agreementRepo{db: db, log: repoLog}
}

func (r *agreementRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Agreement) ([]*types.Agreement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Agreement{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *agreementRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Agreement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Agreement
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

func (r *agreementRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Agreement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Agreement
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *agreementRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Agreement) (*types.Agreement, error) {
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

func (r *agreementRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Agreement{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *agreementRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Agreement{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *agreementRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Agreement{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
