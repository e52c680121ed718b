package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type StartupRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Startup) ([]*types.Startup, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Startup, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Startup, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Startup) (*types.Startup, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error)
}

type startupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStartupRepo(db *gorm.DB, baseLog *logger.Logger) StartupRepo {
	repoLog := baseLog.With("repo", "StartupRepo")
	return &startupRepo{db: db, log: repoLog}
}

func (r *startupRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Startup) ([]*types.Startup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Startup{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *startupRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Startup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Startup
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

func (r *startupRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Startup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Startup
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *startupRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Startup) (*types.Startup, error) {
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

func (r *startupRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Startup{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *startupRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Startup{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *startupRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Startup{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
