package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/requestdata"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type TeamMemberService interface {
	Create(ctx context.Context, input *types.TeamMember) (*types.TeamMember, error)
	Get(ctx context.Context, id uuid.UUID) (*types.TeamMember, error)
	List(ctx context.Context) ([]*types.TeamMember, error)
	Update(ctx context.Context, id uuid.UUID, input *types.TeamMember) (*types.TeamMember, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type teamMemberService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.TeamMemberRepo
	activity ActivityService
}

func NewTeamMemberService(db *gorm.DB, log *logger.Logger, repo repos.TeamMemberRepo, activity ActivityService) TeamMemberService {
	serviceLog := log.With("service", "TeamMemberService")
	return &teamMemberService{db: db, log: serviceLog, repo: repo, activity: activity}
}

func (ts *teamMemberService) Create(ctx context.Context, input *types.TeamMember) (*types.TeamMember, error) {
	if input == nil || strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, apierr.Validation(fmt.Errorf("team member first and last name required"))
	}

	input.ID = uuid.New()
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		input.CreatedBy = rd.Email
	}

	var created *types.TeamMember
	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := ts.repo.Create(ctx, tx, []*types.TeamMember{input})
		if err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeTeamMember, ID: rows[0].ID}
		desc := fmt.Sprintf("Created team member %s %s", rows[0].FirstName, rows[0].LastName)
		if _, err := ts.activity.Record(ctx, tx, ref, types.ActivityActionCreate, desc, nil); err != nil {
			return err
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (ts *teamMemberService) Get(ctx context.Context, id uuid.UUID) (*types.TeamMember, error) {
	rows, err := ts.repo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("team member %s not found", id))
	}
	return rows[0], nil
}

func (ts *teamMemberService) List(ctx context.Context) ([]*types.TeamMember, error) {
	rows, err := ts.repo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if rows == nil {
		rows = []*types.TeamMember{}
	}
	return rows, nil
}

func (ts *teamMemberService) Update(ctx context.Context, id uuid.UUID, input *types.TeamMember) (*types.TeamMember, error) {
	if input == nil || strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, apierr.Validation(fmt.Errorf("team member first and last name required"))
	}

	var updated *types.TeamMember
	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ts.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		existing.FirstName = strings.TrimSpace(input.FirstName)
		existing.LastName = strings.TrimSpace(input.LastName)
		existing.Email = input.Email
		existing.RoleTitle = input.RoleTitle
		existing.UserID = input.UserID

		row, err := ts.repo.Update(ctx, tx, existing)
		if err != nil {
			return apierr.Storage(err)
		}

		ref := EntityRef{Type: types.EntityTypeTeamMember, ID: row.ID}
		desc := fmt.Sprintf("Updated team member %s %s", row.FirstName, row.LastName)
		if _, err := ts.activity.Record(ctx, tx, ref, types.ActivityActionUpdate, desc, nil); err != nil {
			return err
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (ts *teamMemberService) Delete(ctx context.Context, id uuid.UUID) error {
	return ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ts.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := ts.repo.DeleteByIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeTeamMember, ID: id}
		desc := fmt.Sprintf("Deleted team member %s %s", existing.FirstName, existing.LastName)
		if _, err := ts.activity.Record(ctx, tx, ref, types.ActivityActionDelete, desc, nil); err != nil {
			return err
		}
		return nil
	})
}

func (ts *teamMemberService) getForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TeamMember, error) {
	rows, err := ts.repo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("team member %s not found", id))
		}
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("team member %s not found", id))
	}
	return rows[0], nil
}
