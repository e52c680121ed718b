package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type TeamMemberRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.TeamMember) ([]*types.TeamMember, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TeamMember, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.TeamMember, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.TeamMember) (*types.TeamMember, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type teamMemberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeamMemberRepo(db *gorm.DB, baseLog *logger.Logger) TeamMemberRepo {
	repoLog := baseLog.With("repo", "TeamMemberRepo")
	return &teamMemberRepo{db: db, log: repoLog}
}

func (r *teamMemberRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TeamMember) ([]*types.TeamMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.TeamMember{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *teamMemberRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TeamMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TeamMember
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

func (r *teamMemberRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.TeamMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TeamMember
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *teamMemberRepo) Update(ctx context.Context, tx *gorm.DB, row *types.TeamMember) (*types.TeamMember, error) {
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

func (r *teamMemberRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.TeamMember{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *teamMemberRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.TeamMember{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

