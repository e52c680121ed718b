package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type AlertRepo interface {
	Create(ctx context.Context, tx *gorm.DB, alerts []*types.Alert) ([]*types.Alert, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Alert, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Alert, error)
	Update(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error)
	ExistsByTypeAndTitle(ctx context.Context, tx *gorm.DB, alertType types.AlertType, title string) (bool, error)
	CountUnread(ctx context.Context, tx *gorm.DB) (int64, error)
}

type alertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertRepo(db *gorm.DB, baseLog *logger.Logger) AlertRepo {
	repoLog := baseLog.With("repo", "AlertRepo")
	return &alertRepo{db: db, log: repoLog}
}

func (r *alertRepo) Create(ctx context.Context, tx *gorm.DB, alerts []*types.Alert) ([]*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(alerts) == 0 {
		return []*types.Alert{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Alert
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// ListActive excludes dismissed rows unconditionally; category filtering
// happens above this layer, after the exclusion.
func (r *alertRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Alert
	if err := transaction.WithContext(ctx).
		Where("is_dismissed = ?", false).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *alertRepo) Update(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if alert == nil || alert.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	if err := transaction.WithContext(ctx).Save(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

func (r *alertRepo) ExistsByTypeAndTitle(ctx context.Context, tx *gorm.DB, alertType types.AlertType, title string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Alert{}).
		Where("type = ? AND title = ?", alertType, title).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *alertRepo) CountUnread(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Alert{}).
		Where("is_read = ? AND is_dismissed = ?", false, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
