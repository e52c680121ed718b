package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type checklistFixture struct {
	checklist ChecklistService
	activity  ActivityService
	disc      repos.DisclosureRepo
}

func newChecklistFixture(t *testing.T, templateYAML string) *checklistFixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)

	discRepo := repos.NewDisclosureRepo(db, log)
	resolver := NewEntityResolver(
		log,
		discRepo,
		repos.NewProjectRepo(db, log),
		repos.NewAgreementRepo(db, log),
		repos.NewStartupRepo(db, log),
		repos.NewInventorRepo(db, log),
		repos.NewTeamMemberRepo(db, log),
		repos.NewFilingRepo(db, log),
	)
	activity := NewActivityService(db, log, repos.NewActivityLogRepo(db, log))

	templatePath := ""
	if templateYAML != "" {
		templatePath = filepath.Join(t.TempDir(), "templates.yaml")
		if err := os.WriteFile(templatePath, []byte(templateYAML), 0o600); err != nil {
			t.Fatalf("write template file: %v", err)
		}
	}
	checklist, err := NewChecklistService(db, log, repos.NewChecklistItemRepo(db, log), resolver, activity, templatePath)
	if err != nil {
		t.Fatalf("NewChecklistService: %v", err)
	}
	return &checklistFixture{checklist: checklist, activity: activity, disc: discRepo}
}

func (f *checklistFixture) makeDisclosure(t *testing.T, title string) EntityRef {
	t.Helper()
	row := &types.Disclosure{ID: uuid.New(), Title: title, Status: types.DisclosureStatusReceived}
	if _, err := f.disc.Create(context.Background(), nil, []*types.Disclosure{row}); err != nil {
		t.Fatalf("create disclosure: %v", err)
	}
	return EntityRef{Type: types.EntityTypeDisclosure, ID: row.ID}
}

func TestChecklistCreateUpdateDelete(t *testing.T) {
	f := newChecklistFixture(t, "")
	ctx := context.Background()
	ref := f.makeDisclosure(t, "Electrode coating")

	item, err := f.checklist.CreateItem(ctx, ref, "  File provisional  ", "Before public talk", nil)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Title != "File provisional" {
		t.Fatalf("title not trimmed: %q", item.Title)
	}

	if _, err := f.checklist.CreateItem(ctx, ref, "   ", "", nil); !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("blank title: want code=%s got=%v", apierr.CodeValidation, err)
	}

	done := true
	due := time.Now().AddDate(0, 0, 2)
	updated, err := f.checklist.UpdateItem(ctx, item.ID, ChecklistUpdate{IsCompleted: &done, DueDate: &due})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if !updated.IsCompleted || updated.DueDate == nil {
		t.Fatalf("patch not applied: completed=%v due=%v", updated.IsCompleted, updated.DueDate)
	}

	cleared, err := f.checklist.UpdateItem(ctx, item.ID, ChecklistUpdate{ClearDueDate: true})
	if err != nil {
		t.Fatalf("UpdateItem clear due: %v", err)
	}
	if cleared.DueDate != nil {
		t.Fatalf("due date should be cleared")
	}

	if err := f.checklist.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := f.checklist.DeleteItem(ctx, item.ID); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("delete missing: want code=%s got=%v", apierr.CodeNotFound, err)
	}

	// Every mutation above lands on the entity's timeline.
	entries, err := f.activity.Timeline(ctx, ref)
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	got := FilterByAction(entries, types.ActivityActionChecklistUpdated)
	if len(got) != 4 {
		t.Fatalf("checklist_updated entries: want=4 got=%d", len(got))
	}
}

func TestChecklistCreateUnknownEntity(t *testing.T) {
	f := newChecklistFixture(t, "")
	ghost := EntityRef{Type: types.EntityTypeDisclosure, ID: uuid.New()}
	if _, err := f.checklist.CreateItem(context.Background(), ghost, "Task", "", nil); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("unknown entity: want code=%s got=%v", apierr.CodeNotFound, err)
	}
}

func TestApplyTemplate(t *testing.T) {
	tmpl := `templates:
  disclosure:
    - title: "Confirm inventor list"
      description: "All contributors named"
      due_in_days: 3
    - title: "Prior art search"
    - title: "   "
`
	f := newChecklistFixture(t, tmpl)
	ctx := context.Background()
	ref := f.makeDisclosure(t, "Electrode coating")

	items, err := f.checklist.ApplyTemplate(ctx, ref)
	if err != nil {
		t.Fatalf("ApplyTemplate: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("template items: want=2 got=%d", len(items))
	}
	if items[0].Title != "Confirm inventor list" || items[0].DueDate == nil {
		t.Fatalf("first template item malformed: %+v", items[0])
	}
	if items[1].DueDate != nil {
		t.Fatalf("item without due_in_days must have no due date")
	}

	listed, err := f.checklist.ListItems(ctx, ref)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("listed items: want=2 got=%d", len(listed))
	}
}

func TestApplyTemplateNoEntryForType(t *testing.T) {
	f := newChecklistFixture(t, "")
	ref := f.makeDisclosure(t, "Electrode coating")

	items, err := f.checklist.ApplyTemplate(context.Background(), ref)
	if err != nil {
		t.Fatalf("ApplyTemplate: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("no template configured: want=0 got=%d", len(items))
	}
}

func TestNewChecklistServiceRejectsUnknownTemplateType(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	path := filepath.Join(t.TempDir(), "templates.yaml")
	if err := os.WriteFile(path, []byte("templates:\n  widget:\n    - title: x\n"), 0o600); err != nil {
		t.Fatalf("write template file: %v", err)
	}
	_, err := NewChecklistService(db, log, repos.NewChecklistItemRepo(db, log), nil, nil, path)
	if err == nil {
		t.Fatalf("unknown entity type in templates should fail construction")
	}
}

func TestCompletionRate(t *testing.T) {
	if got := CompletionRate(nil); got != 0 {
		t.Fatalf("empty list: want=0 got=%d", got)
	}
	items := []*types.ChecklistItem{
		{IsCompleted: true},
		{IsCompleted: false},
		{IsCompleted: true},
	}
	if got := CompletionRate(items); got != 67 {
		t.Fatalf("two of three: want=67 got=%d", got)
	}
	if got := CompletionRate(items[:2]); got != 50 {
		t.Fatalf("one of two: want=50 got=%d", got)
	}
}

func TestDueDateStatus(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		due  *time.Time
		want string
	}{
		{"no due date", nil, ""},
		{"yesterday", daysFrom(now, -1), DueStatusOverdue},
		{"right now", &now, DueStatusToday},
		{"in two days", daysFrom(now, 2), DueStatusSoon},
		{"in exactly three days", daysFrom(now, 3), DueStatusSoon},
		{"in ten days", daysFrom(now, 10), DueStatusUpcoming},
	}
	for _, tc := range cases {
		if got := DueDateStatus(tc.due, now); got != tc.want {
			t.Errorf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}
