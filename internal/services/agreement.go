package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/requestdata"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type AgreementService interface {
	Create(ctx context.Context, input *types.Agreement) (*types.Agreement, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Agreement, error)
	List(ctx context.Context) ([]*types.Agreement, error)
	Update(ctx context.Context, id uuid.UUID, input *types.Agreement) (*types.Agreement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type agreementService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.AgreementRepo
	activity ActivityService
	alerts   AlertService
}

func NewAgreementService(db *gorm.DB, log *logger.Logger, repo repos.AgreementRepo, activity ActivityService, alerts AlertService) AgreementService {
	serviceLog := log.With("service", "AgreementService")
	return &agreementService{db: db, log: serviceLog, repo: repo, activity: activity, alerts: alerts}
}

func (as *agreementService) Create(ctx context.Context, input *types.Agreement) (*types.Agreement, error) {
	if input == nil || strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation(fmt.Errorf("agreement title required"))
	}
	if strings.TrimSpace(input.AgreementType) == "" {
		return nil, apierr.Validation(fmt.Errorf("agreement type required"))
	}

	input.ID = uuid.New()
	input.Title = strings.TrimSpace(input.Title)
	if input.Status == "" {
		input.Status = types.AgreementStatusDraft
	}
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		input.CreatedBy = rd.Email
	}

	var created *types.Agreement
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := as.repo.Create(ctx, tx, []*types.Agreement{input})
		if err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeAgreement, ID: rows[0].ID}
		desc := fmt.Sprintf("Created agreement %q", rows[0].Title)
		if _, err := as.activity.Record(ctx, tx, ref, types.ActivityActionCreate, desc, nil); err != nil {
			return err
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created.ExpiryDate != nil {
		as.raiseExpiryAlert(ctx, created)
	}
	return created, nil
}

func (as *agreementService) Get(ctx context.Context, id uuid.UUID) (*types.Agreement, error) {
	rows, err := as.repo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("agreement %s not found", id))
	}
	return rows[0], nil
}

func (as *agreementService) List(ctx context.Context) ([]*types.Agreement, error) {
	rows, err := as.repo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if rows == nil {
		rows = []*types.Agreement{}
	}
	return rows, nil
}

func (as *agreementService) Update(ctx context.Context, id uuid.UUID, input *types.Agreement) (*types.Agreement, error) {
	if input == nil || strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation(fmt.Errorf("agreement title required"))
	}

	var updated *types.Agreement
	var expiryChanged bool
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := as.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		prevStatus := existing.Status
		prevExpiry := existing.ExpiryDate

		existing.Title = strings.TrimSpace(input.Title)
		if input.AgreementType != "" {
			existing.AgreementType = input.AgreementType
		}
		existing.Counterparty = input.Counterparty
		if input.Status != "" {
			existing.Status = input.Status
		}
		existing.EffectiveDate = input.EffectiveDate
		existing.ExpiryDate = input.ExpiryDate
		existing.ValueCents = input.ValueCents

		row, err := as.repo.Update(ctx, tx, existing)
		if err != nil {
			return apierr.Storage(err)
		}

		ref := EntityRef{Type: types.EntityTypeAgreement, ID: row.ID}
		if row.Status != prevStatus {
			meta := datatypes.JSON(fmt.Sprintf(`{"from":%q,"to":%q}`, prevStatus, row.Status))
			desc := fmt.Sprintf("Status changed from %s to %s", prevStatus, row.Status)
			if _, err := as.activity.Record(ctx, tx, ref, types.ActivityActionStatusChange, desc, meta); err != nil {
				return err
			}
		} else {
			desc := fmt.Sprintf("Updated agreement %q", row.Title)
			if _, err := as.activity.Record(ctx, tx, ref, types.ActivityActionUpdate, desc, nil); err != nil {
				return err
			}
		}

		expiryChanged = row.ExpiryDate != nil && !sameDate(prevExpiry, row.ExpiryDate)
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	if expiryChanged {
		as.raiseExpiryAlert(ctx, updated)
	}
	return updated, nil
}

func (as *agreementService) Delete(ctx context.Context, id uuid.UUID) error {
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := as.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := as.repo.DeleteByIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return apierr.Storage(err)
		}
		ref := EntityRef{Type: types.EntityTypeAgreement, ID: id}
		desc := fmt.Sprintf("Deleted agreement %q", existing.Title)
		if _, err := as.activity.Record(ctx, tx, ref, types.ActivityActionDelete, desc, nil); err != nil {
			return err
		}
		return nil
	})
}

// raiseExpiryAlert runs after the commit; an alert failure is logged but
// never surfaced to the caller.
func (as *agreementService) raiseExpiryAlert(ctx context.Context, row *types.Agreement) {
	if as.alerts == nil {
		return
	}
	entityType := types.EntityTypeAgreement
	title := fmt.Sprintf("Agreement expiring: %s", row.Title)
	desc := fmt.Sprintf("Expires %s", row.ExpiryDate.Format("2006-01-02"))
	if _, err := as.alerts.Create(ctx, nil, types.AlertTypeAgreementExpiry, title, desc, &entityType, &row.ID, row.ExpiryDate); err != nil {
		as.log.Warn("Failed to create agreement_expiry alert", "agreementID", row.ID, "error", err)
	}
}

func (as *agreementService) getForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Agreement, error) {
	rows, err := as.repo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("agreement %s not found", id))
		}
		return nil, apierr.Storage(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("agreement %s not found", id))
	}
	return rows[0], nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
