package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/requestdata"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

const (
	DueStatusOverdue  = "overdue"
	DueStatusToday    = "today"
	DueStatusSoon     = "soon"
	DueStatusUpcoming = "upcoming"
)

// ChecklistUpdate carries a partial edit. Nil fields are left untouched;
// IsCompleted rides the same path as every other field so a completion
// toggle is one mutation, not a separate endpoint.
type ChecklistUpdate struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	IsCompleted  *bool      `json:"is_completed,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
}

type ChecklistService interface {
	CreateItem(ctx context.Context, ref EntityRef, title, description string, dueDate *time.Time) (*types.ChecklistItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, patch ChecklistUpdate) (*types.ChecklistItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, ref EntityRef) ([]*types.ChecklistItem, error)
	ApplyTemplate(ctx context.Context, ref EntityRef) ([]*types.ChecklistItem, error)
}

type checklistService struct {
	db        *gorm.DB
	log       *logger.Logger
	repo      repos.ChecklistItemRepo
	resolver  EntityResolver
	activity  ActivityService
	templates map[types.EntityType][]checklistTemplateEntry
}

type checklistTemplateFile struct {
	Templates map[string][]checklistTemplateEntry `yaml:"templates"`
}

type checklistTemplateEntry struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	DueInDays   *int   `yaml:"due_in_days"`
}

func NewChecklistService(db *gorm.DB, log *logger.Logger, repo repos.ChecklistItemRepo, resolver EntityResolver, activity ActivityService, templatePath string) (ChecklistService, error) {
	serviceLog := log.With("service", "ChecklistService")

	templates := make(map[types.EntityType][]checklistTemplateEntry)
	if strings.TrimSpace(templatePath) != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("read checklist templates: %w", err)
		}
		var file checklistTemplateFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse checklist templates: %w", err)
		}
		for name, entries := range file.Templates {
			et := types.EntityType(name)
			if !types.IsValidEntityType(et) {
				return nil, fmt.Errorf("checklist template for unknown entity type %q", name)
			}
			templates[et] = entries
		}
		serviceLog.Info("Checklist templates loaded", "path", templatePath, "entityTypes", len(templates))
	}

	return &checklistService{
		db:        db,
		log:       serviceLog,
		repo:      repo,
		resolver:  resolver,
		activity:  activity,
		templates: templates,
	}, nil
}

func (cs *checklistService) CreateItem(ctx context.Context, ref EntityRef, title, description string, dueDate *time.Time) (*types.ChecklistItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apierr.Validation(fmt.Errorf("checklist item title required"))
	}

	var created *types.ChecklistItem
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolved, err := cs.resolver.Resolve(ctx, tx, ref)
		if err != nil {
			return err
		}

		createdBy := ""
		if rd := requestdata.GetRequestData(ctx); rd != nil {
			createdBy = rd.Email
		}
		item := &types.ChecklistItem{
			ID:          uuid.New(),
			EntityType:  resolved.Type,
			EntityID:    resolved.ID,
			Title:       title,
			Description: description,
			DueDate:     dueDate,
			CreatedBy:   createdBy,
		}
		rows, err := cs.repo.Create(ctx, tx, []*types.ChecklistItem{item})
		if err != nil {
			return apierr.Storage(err)
		}

		desc := fmt.Sprintf("Added checklist task %q", title)
		if _, err := cs.activity.Record(ctx, tx, resolved, types.ActivityActionChecklistUpdated, desc, nil); err != nil {
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

// UpdateItem merges the patch into the stored row and returns the
// store-confirmed result; callers re-render from that, never from a
// client-side merge.
func (cs *checklistService) UpdateItem(ctx context.Context, id uuid.UUID, patch ChecklistUpdate) (*types.ChecklistItem, error) {
	var updated *types.ChecklistItem
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := cs.repo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound(fmt.Errorf("checklist item %s not found", id))
			}
			return apierr.Storage(err)
		}

		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return apierr.Validation(fmt.Errorf("checklist item title required"))
			}
			item.Title = title
		}
		if patch.Description != nil {
			item.Description = *patch.Description
		}
		if patch.IsCompleted != nil {
			item.IsCompleted = *patch.IsCompleted
		}
		if patch.ClearDueDate {
			item.DueDate = nil
		} else if patch.DueDate != nil {
			item.DueDate = patch.DueDate
		}
		item.UpdatedAt = time.Now()

		row, err := cs.repo.Update(ctx, tx, item)
		if err != nil {
			return apierr.Storage(err)
		}

		ref := EntityRef{Type: item.EntityType, ID: item.EntityID}
		desc := fmt.Sprintf("Updated checklist task %q", item.Title)
		if patch.IsCompleted != nil {
			if *patch.IsCompleted {
				desc = fmt.Sprintf("Completed checklist task %q", item.Title)
			} else {
				desc = fmt.Sprintf("Reopened checklist task %q", item.Title)
			}
		}
		if _, err := cs.activity.Record(ctx, tx, ref, types.ActivityActionChecklistUpdated, desc, nil); err != nil {
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

func (cs *checklistService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := cs.repo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound(fmt.Errorf("checklist item %s not found", id))
			}
			return apierr.Storage(err)
		}

		if err := cs.repo.DeleteByID(ctx, tx, id); err != nil {
			return apierr.Storage(err)
		}

		ref := EntityRef{Type: item.EntityType, ID: item.EntityID}
		desc := fmt.Sprintf("Removed checklist task %q", item.Title)
		if _, err := cs.activity.Record(ctx, tx, ref, types.ActivityActionChecklistUpdated, desc, nil); err != nil {
			return err
		}
		return nil
	})
}

func (cs *checklistService) ListItems(ctx context.Context, ref EntityRef) ([]*types.ChecklistItem, error) {
	if !types.IsValidEntityType(ref.Type) {
		return nil, apierr.Validation(fmt.Errorf("unknown entity type %q", ref.Type))
	}
	items, err := cs.repo.ListByEntity(ctx, nil, ref.Type, ref.ID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if items == nil {
		items = []*types.ChecklistItem{}
	}
	return items, nil
}

// ApplyTemplate instantiates the configured default task list for the
// entity's type. It is an explicit call from the intake flow, never a
// side effect of a read.
func (cs *checklistService) ApplyTemplate(ctx context.Context, ref EntityRef) ([]*types.ChecklistItem, error) {
	entries := cs.templates[ref.Type]
	if len(entries) == 0 {
		return []*types.ChecklistItem{}, nil
	}

	var created []*types.ChecklistItem
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolved, err := cs.resolver.Resolve(ctx, tx, ref)
		if err != nil {
			return err
		}

		createdBy := ""
		if rd := requestdata.GetRequestData(ctx); rd != nil {
			createdBy = rd.Email
		}
		items := make([]*types.ChecklistItem, 0, len(entries))
		for _, entry := range entries {
			title := strings.TrimSpace(entry.Title)
			if title == "" {
				continue
			}
			var due *time.Time
			if entry.DueInDays != nil {
				d := time.Now().AddDate(0, 0, *entry.DueInDays)
				due = &d
			}
			items = append(items, &types.ChecklistItem{
				ID:          uuid.New(),
				EntityType:  resolved.Type,
				EntityID:    resolved.ID,
				Title:       title,
				Description: entry.Description,
				DueDate:     due,
				CreatedBy:   createdBy,
			})
		}
		rows, err := cs.repo.Create(ctx, tx, items)
		if err != nil {
			return apierr.Storage(err)
		}

		desc := fmt.Sprintf("Applied %s checklist template (%d tasks)", resolved.Type, len(rows))
		if _, err := cs.activity.Record(ctx, tx, resolved, types.ActivityActionChecklistUpdated, desc, nil); err != nil {
			return err
		}
		created = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CompletionRate is the percentage of completed items, rounded; an empty
// list is 0, not a division fault.
func CompletionRate(items []*types.ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range items {
		if item != nil && item.IsCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(items))))
}

// DueDateStatus classifies a due date against now. No due date means no
// status, not an error.
func DueDateStatus(due *time.Time, now time.Time) string {
	if due == nil {
		return ""
	}
	days := ceilDays(*due, now)
	switch {
	case days < 0:
		return DueStatusOverdue
	case days == 0:
		return DueStatusToday
	case days <= 3:
		return DueStatusSoon
	default:
		return DueStatusUpcoming
	}
}
