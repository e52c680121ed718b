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

type StartupService interface {
	Create(ctx context.Context, input *types.Startup) (*types.Startup, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Startup, error)
	List(ctx context.Context) ([]*types.Startup, error)
	Update(ctx context.Context, id uuid.UUID, input *types.Startup) (*types.Startup, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type startupService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.StartupRepo
	activity ActivityService
}

func NewStartupService(db *gorm.DB, log *logger.Logger, repo repos.StartupRepo, activity ActivityService) StartupService {
	serviceLog := log.With("service", "StartupService")
	return &startupService{db: db, log: serviceLog, repo: repo, activity: activity}
}

func (ss *startupService) Create(ctx context.Context, input *types.Startup) (*types.Startup, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, apierr.Validation(fmt.Errorf("startup name required"))
	}

	input.ID = uuid.New()
	input.Name = strings.TrimSpace(input.Name)
	if input.Status == "" {
		input.Status = types.StartupStatusForming
	}
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		input.CreatedBy = rd.Email
	}

	var created *types.Startup
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := ss.repo.Create(ctx, tx, []*types.Startup{input})
		if err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeStartup, ID: rows[0].ID}
		desc := fmt.Sprintf("Created startup %q", rows[0].Name)
		if _, err := ss.activity.Record(ctx, tx, ref, types.ActivityActionCreate, desc, nil); err != nil {
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

func (ss *startupService) Get(ctx context.Context, id uuid.UUID) (*types.Startup, error) {
	rows, err := ss.repo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("startup %s not found", id))
	}
	return rows[0], nil
}

func (ss *startupService) List(ctx context.Context) ([]*types.Startup, error) {
	rows, err := ss.repo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if rows == nil {
		rows = []*types.Startup{}
	}
	return rows, nil
}

func (ss *startupService) Update(ctx context.Context, id uuid.UUID, input *types.Startup) (*types.Startup, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, apierr.Validation(fmt.Errorf("startup name required"))
	}

	var updated *types.Startup
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ss.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		prevStatus := existing.Status

		existing.Name = strings.TrimSpace(input.Name)
		existing.FoundedDate = input.FoundedDate
		if input.Status != "" {
			existing.Status = input.Status
		}
		existing.Sector = input.Sector
		existing.Website = input.Website

		row, err := ss.repo.Update(ctx, tx, existing)
		if err != nil {
			return apierr.Storage(err)
		}

		ref := EntityRef{Type: types.EntityTypeStartup, ID: row.ID}
		if row.Status != prevStatus {
			meta := datatypes.JSON(fmt.Sprintf(`{"from":%q,"to":%q}`, prevStatus, row.Status))
			desc := fmt.Sprintf("Status changed from %s to %s", prevStatus, row.Status)
			if _, err := ss.activity.Record(ctx, tx, ref, types.ActivityActionStatusChange, desc, meta); err != nil {
				return err
			}
		} else {
			desc := fmt.Sprintf("Updated startup %q", row.Name)
			if _, err := ss.activity.Record(ctx, tx, ref, types.ActivityActionUpdate, desc, nil); err != nil {
				return err
			}
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (ss *startupService) Delete(ctx context.Context, id uuid.UUID) error {
	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ss.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := ss.repo.DeleteByIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeStartup, ID: id}
		desc := fmt.Sprintf("Deleted startup %q", existing.Name)
		if _, err := ss.activity.Record(ctx, tx, ref, types.ActivityActionDelete, desc, nil); err != nil {
			return err
		}
		return nil
	})
}

func (ss *startupService) getForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Startup, error) {
	rows, err := ss.repo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("startup %s not found", id))
		}
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("startup %s not found", id))
	}
	return rows[0], nil
}
