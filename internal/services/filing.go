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

type FilingService interface {
	Create(ctx context.Context, input *types.Filing) (*types.Filing, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Filing, error)
	List(ctx context.Context) ([]*types.Filing, error)
	Update(ctx context.Context, id uuid.UUID, input *types.Filing) (*types.Filing, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type filingService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.FilingRepo
	activity ActivityService
}

func NewFilingService(db *gorm.DB, log *logger.Logger, repo repos.FilingRepo, activity ActivityService) FilingService {
	serviceLog := log.With("service", "FilingService")
	return &filingService{db: db, log: serviceLog, repo: repo, activity: activity}
}

func (fs *filingService) Create(ctx context.Context, input *types.Filing) (*types.Filing, error) {
	if input == nil || strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation(fmt.Errorf("filing title required"))
	}
	if strings.TrimSpace(input.FilingType) == "" {
		return nil, apierr.Validation(fmt.Errorf("filing type required"))
	}

	input.ID = uuid.New()
	input.Title = strings.TrimSpace(input.Title)
	if input.Status == "" {
		input.Status = types.FilingStatusDrafting
	}
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		input.CreatedBy = rd.Email
	}

	var created *types.Filing
	err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := fs.repo.Create(ctx, tx, []*types.Filing{input})
		if err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeFiling, ID: rows[0].ID}
		desc := fmt.Sprintf("Created filing %q", rows[0].Title)
		if _, err := fs.activity.Record(ctx, tx, ref, types.ActivityActionCreate, desc, nil); err != nil {
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

func (fs *filingService) Get(ctx context.Context, id uuid.UUID) (*types.Filing, error) {
	rows, err := fs.repo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("filing %s not found", id))
	}
	return rows[0], nil
}

func (fs *filingService) List(ctx context.Context) ([]*types.Filing, error) {
	rows, err := fs.repo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if rows == nil {
		rows = []*types.Filing{}
	}
	return rows, nil
}

func (fs *filingService) Update(ctx context.Context, id uuid.UUID, input *types.Filing) (*types.Filing, error) {
	if input == nil || strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation(fmt.Errorf("filing title required"))
	}

	var updated *types.Filing
	err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := fs.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		prevStatus := existing.Status

		existing.Title = strings.TrimSpace(input.Title)
		if input.FilingType != "" {
			existing.FilingType = input.FilingType
		}
		existing.Jurisdiction = input.Jurisdiction
		existing.ApplicationNumber = input.ApplicationNumber
		if input.Status != "" {
			existing.Status = input.Status
		}
		existing.FilingDate = input.FilingDate
		existing.GrantDate = input.GrantDate
		existing.DisclosureID = input.DisclosureID

		row, err := fs.repo.Update(ctx, tx, existing)
		if err != nil {
			return apierr.Storage(err)
		}

		ref := EntityRef{Type: types.EntityTypeFiling, ID: row.ID}
		if row.Status != prevStatus {
			meta := datatypes.JSON(fmt.Sprintf(`{"from":%q,"to":%q}`, prevStatus, row.Status))
			desc := fmt.Sprintf("Status changed from %s to %s", prevStatus, row.Status)
			if _, err := fs.activity.Record(ctx, tx, ref, types.ActivityActionStatusChange, desc, meta); err != nil {
				return err
			}
		} else {
			desc := fmt.Sprintf("Updated filing %q", row.Title)
			if _, err := fs.activity.Record(ctx, tx, ref, types.ActivityActionUpdate, desc, nil); err != nil {
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

func (fs *filingService) Delete(ctx context.Context, id uuid.UUID) error {
	return fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := fs.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fs.repo.DeleteByIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeFiling, ID: id}
		desc := fmt.Sprintf("Deleted filing %q", existing.Title)
		if _, err := fs.activity.Record(ctx, tx, ref, types.ActivityActionDelete, desc, nil); err != nil {
			return err
		}
		return nil
	})
}

func (fs *filingService) getForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Filing, error) {
	rows, err := fs.repo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("filing %s not found", id))
		}
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("filing %s not found", id))
	}
	return rows[0], nil
}
