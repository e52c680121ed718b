package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/requestdata"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type ProjectService interface {
	Create(ctx context.Context, input *types.Project) (*types.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Project, error)
	List(ctx context.Context) ([]*types.Project, error)
	Update(ctx context.Context, id uuid.UUID, input *types.Project) (*types.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type projectService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.ProjectRepo
	activity ActivityService
	alerts   AlertService
}

func NewProjectService(db *gorm.DB, log *logger.Logger, repo repos.ProjectRepo, activity ActivityService, alerts AlertService) ProjectService {
	serviceLog := log.With("service", "ProjectService")
	return &projectService{db: db, log: serviceLog, repo: repo, activity: activity, alerts: alerts}
}

func (ps *projectService) Create(ctx context.Context, input *types.Project) (*types.Project, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, apierr.Validation(fmt.Errorf("project name required"))
	}

	input.ID = uuid.New()
	input.Name = strings.TrimSpace(input.Name)
	if input.Status == "" {
		input.Status = types.ProjectStatusActive
	}
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		input.CreatedBy = rd.Email
	}

	var created *types.Project
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := ps.repo.Create(ctx, tx, []*types.Project{input})
		if err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeProject, ID: rows[0].ID}
		desc := fmt.Sprintf("Created project %q", rows[0].Name)
		if _, err := ps.activity.Record(ctx, tx, ref, types.ActivityActionCreate, desc, nil); err != nil {
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

func (ps *projectService) Get(ctx context.Context, id uuid.UUID) (*types.Project, error) {
	rows, err := ps.repo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("project %s not found", id))
	}
	return rows[0], nil
}

func (ps *projectService) List(ctx context.Context) ([]*types.Project, error) {
	rows, err := ps.repo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if rows == nil {
		rows = []*types.Project{}
	}
	return rows, nil
}

func (ps *projectService) Update(ctx context.Context, id uuid.UUID, input *types.Project) (*types.Project, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, apierr.Validation(fmt.Errorf("project name required"))
	}

	var updated *types.Project
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ps.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		prevStatus := existing.Status

		existing.Name = strings.TrimSpace(input.Name)
		existing.Description = input.Description
		if input.Status != "" {
			existing.Status = input.Status
		}
		existing.StartDate = input.StartDate
		existing.Lead = input.Lead

		row, err := ps.repo.Update(ctx, tx, existing)
		if err != nil {
			return apierr.Storage(err)
		}

		ref := EntityRef{Type: types.EntityTypeProject, ID: row.ID}
		if row.Status != prevStatus {
			meta := datatypes.JSON(fmt.Sprintf(`{"from":%q,"to":%q}`, prevStatus, row.Status))
			desc := fmt.Sprintf("Status changed from %s to %s", prevStatus, row.Status)
			if _, err := ps.activity.Record(ctx, tx, ref, types.ActivityActionStatusChange, desc, meta); err != nil {
				return err
			}
		} else {
			desc := fmt.Sprintf("Updated project %q", row.Name)
			if _, err := ps.activity.Record(ctx, tx, ref, types.ActivityActionUpdate, desc, nil); err != nil {
				return err
			}
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Completing a project is a milestone worth surfacing office-wide.
	if updated.Status == types.ProjectStatusCompleted && ps.alerts != nil {
		entityType := types.EntityTypeProject
		title := fmt.Sprintf("Project completed: %s", updated.Name)
		if _, aErr := ps.alerts.Create(ctx, nil, types.AlertTypeProjectMilestone, title, "", &entityType, &updated.ID, nil); aErr != nil {
			ps.log.Warn("Failed to create project_milestone alert", "projectID", updated.ID, "error", aErr)
		}
	}
	return updated, nil
}

func (ps *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ps.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := ps.repo.DeleteByIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeProject, ID: id}
		desc := fmt.Sprintf("Deleted project %q", existing.Name)
		if _, err := ps.activity.Record(ctx, tx, ref, types.ActivityActionDelete, desc, nil); err != nil {
			return err
		}
		return nil
	})
}

func (ps *projectService) getForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Project, error) {
	rows, err := ps.repo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("project %s not found", id))
		}
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("project %s not found", id))
	}
	return rows[0], nil
}
