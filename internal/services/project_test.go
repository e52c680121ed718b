package services

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type projectFixture struct {
	svc      ProjectService
	activity ActivityService
	alerts   AlertService
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)

	activity := NewActivityService(db, log, repos.NewActivityLogRepo(db, log))
	alerts := NewAlertService(db, log, repos.NewAlertRepo(db, log), repos.NewChecklistItemRepo(db, log), nil)
	svc := NewProjectService(db, log, repos.NewProjectRepo(db, log), activity, alerts)
	return &projectFixture{svc: svc, activity: activity, alerts: alerts}
}

func (f *projectFixture) milestoneAlerts(t *testing.T) []AlertView {
	t.Helper()
	active, err := f.alerts.ListActive(context.Background(), "", time.Now())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	out := make([]AlertView, 0, len(active))
	for _, a := range active {
		if a.Type == types.AlertTypeProjectMilestone {
			out = append(out, a)
		}
	}
	return out
}

func TestProjectCreateDefaults(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, &types.Project{}); !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("missing name: want code=%s got=%v", apierr.CodeValidation, err)
	}

	created, err := f.svc.Create(ctx, &types.Project{Name: "Sensor commercialization"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != types.ProjectStatusActive {
		t.Fatalf("default status: want=%s got=%s", types.ProjectStatusActive, created.Status)
	}
}

func TestProjectCompletionRaisesMilestoneAlert(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &types.Project{Name: "Sensor commercialization"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Going on hold is a status change but not a milestone.
	if _, err := f.svc.Update(ctx, created.ID, &types.Project{Name: "Sensor commercialization", Status: types.ProjectStatusOnHold}); err != nil {
		t.Fatalf("Update to on_hold: %v", err)
	}
	if got := f.milestoneAlerts(t); len(got) != 0 {
		t.Fatalf("on_hold must not raise a milestone alert, got %d", len(got))
	}

	if _, err := f.svc.Update(ctx, created.ID, &types.Project{Name: "Sensor commercialization", Status: types.ProjectStatusCompleted}); err != nil {
		t.Fatalf("Update to completed: %v", err)
	}
	got := f.milestoneAlerts(t)
	if len(got) != 1 {
		t.Fatalf("milestone alerts: want=1 got=%d", len(got))
	}
	if got[0].Title != "Project completed: Sensor commercialization" {
		t.Fatalf("milestone title: got %q", got[0].Title)
	}

	entries, err := f.activity.Timeline(ctx, EntityRef{Type: types.EntityTypeProject, ID: created.ID})
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(FilterByAction(entries, types.ActivityActionStatusChange)) != 2 {
		t.Fatalf("both status moves must land on the timeline")
	}
}
