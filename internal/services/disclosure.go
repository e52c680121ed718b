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

type DisclosureService interface {
	Create(ctx context.Context, input *types.Disclosure) (*types.Disclosure, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Disclosure, error)
	List(ctx context.Context) ([]*types.Disclosure, error)
	Update(ctx context.Context, id uuid.UUID, input *types.Disclosure) (*types.Disclosure, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type disclosureService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.DisclosureRepo
	activity ActivityService
	alerts   AlertService
}

func NewDisclosureService(db *gorm.DB, log *logger.Logger, repo repos.DisclosureRepo, activity ActivityService, alerts AlertService) DisclosureService {
	serviceLog := log.With("service", "DisclosureService")
	return &disclosureService{db: db, log: serviceLog, repo: repo, activity: activity, alerts: alerts}
}

func (ds *disclosureService) Create(ctx context.Context, input *types.Disclosure) (*types.Disclosure, error) {
	if input == nil || strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation(fmt.Errorf("disclosure title required"))
	}

	input.ID = uuid.New()
	input.Title = strings.TrimSpace(input.Title)
	if input.Status == "" {
		input.Status = types.DisclosureStatusReceived
	}
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		input.CreatedBy = rd.Email
	}

	var created *types.Disclosure
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := ds.repo.Create(ctx, tx, []*types.Disclosure{input})
		if err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeDisclosure, ID: rows[0].ID}
		desc := fmt.Sprintf("Created disclosure %q", rows[0].Title)
		if _, err := ds.activity.Record(ctx, tx, ref, types.ActivityActionCreate, desc, nil); err != nil {
			return err
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The review alert is raised outside the transaction; failing to
	// notify must not roll back the disclosure itself.
	if ds.alerts != nil {
		entityType := types.EntityTypeDisclosure
		title := fmt.Sprintf("New disclosure: %s", created.Title)
		if _, aErr := ds.alerts.Create(ctx, nil, types.AlertTypeNewDisclosure, title, created.Summary, &entityType, &created.ID, nil); aErr != nil {
			ds.log.Warn("Failed to create new_disclosure alert", "disclosureID", created.ID, "error", aErr)
		}
	}
	return created, nil
}

func (ds *disclosureService) Get(ctx context.Context, id uuid.UUID) (*types.Disclosure, error) {
	rows, err := ds.repo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("disclosure %s not found", id))
	}
	return rows[0], nil
}

func (ds *disclosureService) List(ctx context.Context) ([]*types.Disclosure, error) {
	rows, err := ds.repo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if rows == nil {
		rows = []*types.Disclosure{}
	}
	return rows, nil
}

func (ds *disclosureService) Update(ctx context.Context, id uuid.UUID, input *types.Disclosure) (*types.Disclosure, error) {
	if input == nil || strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation(fmt.Errorf("disclosure title required"))
	}

	var updated *types.Disclosure
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ds.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		prevStatus := existing.Status
		prevStage := existing.Stage

		existing.Title = strings.TrimSpace(input.Title)
		existing.DocketNumber = input.DocketNumber
		if input.Status != "" {
			existing.Status = input.Status
		}
		existing.Stage = input.Stage
		existing.LeadInventor = input.LeadInventor
		existing.Department = input.Department
		existing.DisclosureDate = input.DisclosureDate
		existing.Summary = input.Summary

		row, err := ds.repo.Update(ctx, tx, existing)
		if err != nil {
			return apierr.Storage(err)
		}

		ref := EntityRef{Type: types.EntityTypeDisclosure, ID: row.ID}
		switch {
		case row.Status != prevStatus:
			meta := datatypes.JSON(fmt.Sprintf(`{"from":%q,"to":%q}`, prevStatus, row.Status))
			desc := fmt.Sprintf("Status changed from %s to %s", prevStatus, row.Status)
			if _, err := ds.activity.Record(ctx, tx, ref, types.ActivityActionStatusChange, desc, meta); err != nil {
				return err
			}
		case row.Stage != prevStage:
			meta := datatypes.JSON(fmt.Sprintf(`{"from":%q,"to":%q}`, prevStage, row.Stage))
			desc := fmt.Sprintf("Stage changed from %q to %q", prevStage, row.Stage)
			if _, err := ds.activity.Record(ctx, tx, ref, types.ActivityActionStageChange, desc, meta); err != nil {
				return err
			}
		default:
			desc := fmt.Sprintf("Updated disclosure %q", row.Title)
			if _, err := ds.activity.Record(ctx, tx, ref, types.ActivityActionUpdate, desc, nil); err != nil {
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

func (ds *disclosureService) Delete(ctx context.Context, id uuid.UUID) error {
	return ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ds.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := ds.repo.DeleteByIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeDisclosure, ID: id}
		desc := fmt.Sprintf("Deleted disclosure %q", existing.Title)
		if _, err := ds.activity.Record(ctx, tx, ref, types.ActivityActionDelete, desc, nil); err != nil {
			return err
		}
		return nil
	})
}

func (ds *disclosureService) getForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Disclosure, error) {
	rows, err := ds.repo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("disclosure %s not found", id))
		}
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("disclosure %s not found", id))
	}
	return rows[0], nil
}
