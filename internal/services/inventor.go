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

type InventorService interface {
	Create(ctx context.Context, input *types.Inventor) (*types.Inventor, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Inventor, error)
	List(ctx context.Context) ([]*types.Inventor, error)
	Update(ctx context.Context, id uuid.UUID, input *types.Inventor) (*types.Inventor, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type inventorService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.InventorRepo
	activity ActivityService
}

func NewInventorService(db *gorm.DB, log *logger.Logger, repo repos.InventorRepo, activity ActivityService) InventorService {
	serviceLog := log.With("service", "InventorService")
	return &inventorService{db: db, log: serviceLog, repo: repo, activity: activity}
}

func (is *inventorService) Create(ctx context.Context, input *types.Inventor) (*types.Inventor, error) {
	if input == nil || strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, apierr.Validation(fmt.Errorf("inventor first and last name required"))
	}

	input.ID = uuid.New()
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		input.CreatedBy = rd.Email
	}

	var created *types.Inventor
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := is.repo.Create(ctx, tx, []*types.Inventor{input})
		if err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeInventor, ID: rows[0].ID}
		desc := fmt.Sprintf("Created inventor %s %s", rows[0].FirstName, rows[0].LastName)
		if _, err := is.activity.Record(ctx, tx, ref, types.ActivityActionCreate, desc, nil); err != nil {
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

func (is *inventorService) Get(ctx context.Context, id uuid.UUID) (*types.Inventor, error) {
	rows, err := is.repo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("inventor %s not found", id))
	}
	return rows[0], nil
}

func (is *inventorService) List(ctx context.Context) ([]*types.Inventor, error) {
	rows, err := is.repo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if rows == nil {
		rows = []*types.Inventor{}
	}
	return rows, nil
}

func (is *inventorService) Update(ctx context.Context, id uuid.UUID, input *types.Inventor) (*types.Inventor, error) {
	if input == nil || strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, apierr.Validation(fmt.Errorf("inventor first and last name required"))
	}

	var updated *types.Inventor
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := is.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		existing.FirstName = strings.TrimSpace(input.FirstName)
		existing.LastName = strings.TrimSpace(input.LastName)
		existing.Email = input.Email
		existing.Department = input.Department
		existing.Title = input.Title

		row, err := is.repo.Update(ctx, tx, existing)
		if err != nil {
			return apierr.Storage(err)
		}

		ref := EntityRef{Type: types.EntityTypeInventor, ID: row.ID}
		desc := fmt.Sprintf("Updated inventor %s %s", row.FirstName, row.LastName)
		if _, err := is.activity.Record(ctx, tx, ref, types.ActivityActionUpdate, desc, nil); err != nil {
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

func (is *inventorService) Delete(ctx context.Context, id uuid.UUID) error {
	return is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := is.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := is.repo.DeleteByIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeInventor, ID: id}
		desc := fmt.Sprintf("Deleted inventor %s %s", existing.FirstName, existing.LastName)
		if _, err := is.activity.Record(ctx, tx, ref, types.ActivityActionDelete, desc, nil); err != nil {
			return err
		}
		return nil
	})
}

func (is *inventorService) getForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Inventor, error) {
	rows, err := is.repo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("inventor %s not found", id))
		}
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("inventor %s not found", id))
	}
	return rows[0], nil
}
