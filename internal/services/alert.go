package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

const (
	AlertTabDeadlines = "deadlines"
	AlertTabReviews   = "reviews"
	AlertTabUpdates   = "updates"
)

// AlertView pairs a stored alert with its priority, derived from the due
// date at read time. Priority is never persisted.
type AlertView struct {
	*types.Alert
	Priority types.AlertPriority `json:"priority"`
}

type AlertService interface {
	Create(ctx context.Context, tx *gorm.DB, alertType types.AlertType, title, description string, entityType *types.EntityType, entityID *uuid.UUID, dueDate *time.Time) (*types.Alert, error)
	ListActive(ctx context.Context, tab string, now time.Time) ([]AlertView, error)
	MarkAsRead(ctx context.Context, id uuid.UUID, isRead bool) (*types.Alert, error)
	Dismiss(ctx context.Context, id uuid.UUID) (*types.Alert, error)
	Seed(ctx context.Context, path string) (int, error)
	SweepChecklistDue(ctx context.Context, now time.Time) (int, error)
}

type alertService struct {
	db            *gorm.DB
	log           *logger.Logger
	repo          repos.AlertRepo
	checklistRepo repos.ChecklistItemRepo
	notifier      AlertNotifier
}

func NewAlertService(db *gorm.DB, log *logger.Logger, repo repos.AlertRepo, checklistRepo repos.ChecklistItemRepo, notifier AlertNotifier) AlertService {
	serviceLog := log.With("service", "AlertService")
	return &alertService{db: db, log: serviceLog, repo: repo, checklistRepo: checklistRepo, notifier: notifier}
}

func (as *alertService) Create(ctx context.Context, tx *gorm.DB, alertType types.AlertType, title, description string, entityType *types.EntityType, entityID *uuid.UUID, dueDate *time.Time) (*types.Alert, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apierr.Validation(fmt.Errorf("alert title required"))
	}

	alert := &types.Alert{
		ID:          uuid.New(),
		Type:        alertType,
		Title:       title,
		Description: description,
		EntityType:  entityType,
		EntityID:    entityID,
		DueDate:     dueDate,
		CreatedAt:   time.Now(),
	}
	created, err := as.repo.Create(ctx, tx, []*types.Alert{alert})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if as.notifier != nil {
		as.notifier.AlertCreated(created[0])
	}
	return created[0], nil
}

// ListActive excludes dismissed alerts before any tab filter is applied.
// Tabs are views, not partitions: an alert may appear in several.
func (as *alertService) ListActive(ctx context.Context, tab string, now time.Time) ([]AlertView, error) {
	alerts, err := as.repo.ListActive(ctx, nil)
	if err != nil {
		return nil, apierr.Storage(err)
	}

	out := make([]AlertView, 0, len(alerts))
	for _, a := range alerts {
		if !inTab(a, tab) {
			continue
		}
		out = append(out, AlertView{Alert: a, Priority: PriorityOf(a, now)})
	}
	return out, nil
}

func (as *alertService) MarkAsRead(ctx context.Context, id uuid.UUID, isRead bool) (*types.Alert, error) {
	alert, err := as.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	alert.IsRead = isRead
	updated, err := as.repo.Update(ctx, nil, alert)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return updated, nil
}

// Dismiss is terminal: the row is kept but excluded from every active
// list from now on. There is no undismiss.
func (as *alertService) Dismiss(ctx context.Context, id uuid.UUID) (*types.Alert, error) {
	alert, err := as.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	alert.IsDismissed = true
	updated, err := as.repo.Update(ctx, nil, alert)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if as.notifier != nil {
		as.notifier.AlertDismissed(updated)
	}
	return updated, nil
}

func (as *alertService) getByID(ctx context.Context, id uuid.UUID) (*types.Alert, error) {
	alert, err := as.repo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("alert %s not found", id))
		}
		return nil, apierr.Storage(err)
	}
	return alert, nil
}

type alertSeedFile struct {
	Alerts []alertSeedEntry `yaml:"alerts"`
}

type alertSeedEntry struct {
	Type        string `yaml:"type"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	DueInDays   *int   `yaml:"due_in_days"`
}

// Seed loads sample alerts from a YAML file at an explicit lifecycle
// point (startup), never as a side effect of a read. Seeding is
// idempotent by content: an alert with the same type and title is not
// inserted twice, so re-running on restart is safe.
func (as *alertService) Seed(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read alert seed file: %w", err)
	}
	var file alertSeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return 0, fmt.Errorf("parse alert seed file: %w", err)
	}

	inserted := 0
	for _, entry := range file.Alerts {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}
		alertType := types.AlertType(entry.Type)
		exists, err := as.repo.ExistsByTypeAndTitle(ctx, nil, alertType, title)
		if err != nil {
			return inserted, apierr.Storage(err)
		}
		if exists {
			continue
		}
		var due *time.Time
		if entry.DueInDays != nil {
			d := time.Now().AddDate(0, 0, *entry.DueInDays)
			due = &d
		}
		if _, err := as.Create(ctx, nil, alertType, title, entry.Description, nil, nil, due); err != nil {
			return inserted, err
		}
		inserted++
	}
	as.log.Info("Alert seed complete", "path", path, "inserted", inserted)
	return inserted, nil
}

// SweepChecklistDue raises a checklist_due alert for every incomplete
// task due within the next three days (or already overdue). Invoked at
// explicit lifecycle points; idempotent by content like Seed.
func (as *alertService) SweepChecklistDue(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.AddDate(0, 0, 3)
	items, err := as.checklistRepo.ListDueBefore(ctx, nil, cutoff)
	if err != nil {
		return 0, apierr.Storage(err)
	}

	raised := 0
	for _, item := range items {
		title := fmt.Sprintf("Task due: %s", item.Title)
		exists, err := as.repo.ExistsByTypeAndTitle(ctx, nil, types.AlertTypeChecklistDue, title)
		if err != nil {
			return raised, apierr.Storage(err)
		}
		if exists {
			continue
		}
		entityType := item.EntityType
		entityID := item.EntityID
		if _, err := as.Create(ctx, nil, types.AlertTypeChecklistDue, title, item.Description, &entityType, &entityID, item.DueDate); err != nil {
			return raised, err
		}
		raised++
	}
	if raised > 0 {
		as.log.Info("Checklist due sweep raised alerts", "count", raised)
	}
	return raised, nil
}

// ceilDays is the whole-day distance from now to due, rounded up. A due
// date later today is 0 days out; any past due date is negative.
func ceilDays(due, now time.Time) int {
	diff := due.Sub(now)
	days := diff / (24 * time.Hour)
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return int(days)
}

// PriorityOf derives the priority tier from the due date. Callers pass
// an explicit now so the result is deterministic under test.
func PriorityOf(alert *types.Alert, now time.Time) types.AlertPriority {
	if alert == nil || alert.DueDate == nil {
		return types.AlertPriorityLow
	}
	days := ceilDays(*alert.DueDate, now)
	switch {
	case days <= 7:
		return types.AlertPriorityHigh
	case days <= 30:
		return types.AlertPriorityMedium
	default:
		return types.AlertPriorityLow
	}
}

func IsDeadline(alert *types.Alert) bool {
	return alert != nil && alert.DueDate != nil
}

func IsReview(alert *types.Alert) bool {
	return alert != nil && alert.Type == types.AlertTypeNewDisclosure
}

func IsUpdate(alert *types.Alert) bool {
	if alert == nil {
		return false
	}
	return alert.Type == types.AlertTypeCommentReply || alert.Type == types.AlertTypeLinkDeleted
}

func inTab(alert *types.Alert, tab string) bool {
	switch tab {
	case "", "all":
		return true
	case AlertTabDeadlines:
		return IsDeadline(alert)
	case AlertTabReviews:
		return IsReview(alert)
	case AlertTabUpdates:
		return IsUpdate(alert)
	default:
		return false
	}
}
