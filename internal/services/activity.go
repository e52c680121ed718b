package services

import (
	"context"
	"fmt"
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

type ActivityService interface {
	Record(ctx context.Context, tx *gorm.DB, ref EntityRef, action types.ActivityAction, description string, metadata datatypes.JSON) (*types.ActivityLog, error)
	Timeline(ctx context.Context, ref EntityRef) ([]*types.ActivityLog, error)
}

type activityService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ActivityLogRepo
}

func NewActivityService(db *gorm.DB, log *logger.Logger, repo repos.ActivityLogRepo) ActivityService {
	serviceLog := log.With("service", "ActivityService")
	return &activityService{db: db, log: serviceLog, repo: repo}
}

// Record appends one entry and commits before returning. Entries are
// immutable from here on; the repo has no update or delete.
func (as *activityService) Record(ctx context.Context, tx *gorm.DB, ref EntityRef, action types.ActivityAction, description string, metadata datatypes.JSON) (*types.ActivityLog, error) {
	if !types.IsValidEntityType(ref.Type) {
		return nil, apierr.Validation(fmt.Errorf("unknown entity type %q", ref.Type))
	}
	if ref.ID == uuid.Nil {
		return nil, apierr.Validation(fmt.Errorf("entity id required"))
	}
	if !types.IsValidActivityAction(action) {
		return nil, apierr.Validation(fmt.Errorf("unknown activity action %q", action))
	}

	createdBy := ""
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		createdBy = rd.Email
	}

	entry := &types.ActivityLog{
		ID:          uuid.New(),
		EntityType:  ref.Type,
		EntityID:    ref.ID,
		Action:      action,
		Description: description,
		Metadata:    metadata,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}
	created, err := as.repo.Create(ctx, tx, []*types.ActivityLog{entry})
	if err != nil {
		as.log.Error("Failed to record activity", "entityType", ref.Type, "entityID", ref.ID, "action", action, "error", err)
		return nil, apierr.Storage(err)
	}
	return created[0], nil
}

func (as *activityService) Timeline(ctx context.Context, ref EntityRef) ([]*types.ActivityLog, error) {
	if !types.IsValidEntityType(ref.Type) {
		return nil, apierr.Validation(fmt.Errorf("unknown entity type %q", ref.Type))
	}
	entries, err := as.repo.ListByEntity(ctx, nil, ref.Type, ref.ID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if entries == nil {
		entries = []*types.ActivityLog{}
	}
	return entries, nil
}

// FilterByAction is a pure predicate over an already-fetched timeline.
func FilterByAction(entries []*types.ActivityLog, action types.ActivityAction) []*types.ActivityLog {
	out := make([]*types.ActivityLog, 0, len(entries))
	for _, e := range entries {
		if e != nil && e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type TimelineGroup struct {
	Label   string               `json:"label"`
	Date    string               `json:"date"`
	Entries []*types.ActivityLog `json:"entries"`
}

// GroupTimeline partitions a descending timeline by local calendar date.
// Groups come out newest date first; within a group the incoming order is
// preserved. "now" is explicit so grouping is deterministic under test.
func GroupTimeline(entries []*types.ActivityLog, now time.Time) []TimelineGroup {
	loc := now.Location()
	today := now.In(loc).Format("2006-01-02")
	yesterday := now.In(loc).AddDate(0, 0, -1).Format("2006-01-02")

	var groups []TimelineGroup
	index := make(map[string]int)
	for _, e := range entries {
		if e == nil {
			continue
		}
		day := e.CreatedAt.In(loc)
		key := day.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			label := day.Format("Monday, January 2, 2006")
			switch key {
			case today:
				label = "Today"
			case yesterday:
				label = "Yesterday"
			}
			groups = append(groups, TimelineGroup{Label: label, Date: key})
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

// RelativeTime renders the age of t against now. Thresholds use
// floor-divided integer seconds.
func RelativeTime(t, now time.Time) string {
	secs := int64(now.Sub(t) / time.Second)
	switch {
	case secs < 60:
		return "Just now"
	case secs < 3600:
		return fmt.Sprintf("%d minutes ago", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%d hours ago", secs/3600)
	case secs < 7*86400:
		return fmt.Sprintf("%d days ago", secs/86400)
	default:
		return t.In(now.Location()).Format("January 2, 2006")
	}
}
