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

type alertFixture struct {
	alerts    AlertService
	checklist repos.ChecklistItemRepo
}

func newAlertFixture(t *testing.T) *alertFixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	checklistRepo := repos.NewChecklistItemRepo(db, log)
	alerts := NewAlertService(db, log, repos.NewAlertRepo(db, log), checklistRepo, nil)
	return &alertFixture{alerts: alerts, checklist: checklistRepo}
}

func daysFrom(now time.Time, days int) *time.Time {
	d := now.AddDate(0, 0, days)
	return &d
}

func TestPriorityOf(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		due  *time.Time
		want types.AlertPriority
	}{
		{"no due date", nil, types.AlertPriorityLow},
		{"due in 4 days", daysFrom(now, 4), types.AlertPriorityHigh},
		{"already overdue", daysFrom(now, -2), types.AlertPriorityHigh},
		{"due in exactly 7 days", daysFrom(now, 7), types.AlertPriorityHigh},
		{"due in 19 days", daysFrom(now, 19), types.AlertPriorityMedium},
		{"due in exactly 30 days", daysFrom(now, 30), types.AlertPriorityMedium},
		{"due in 40 days", daysFrom(now, 40), types.AlertPriorityLow},
	}
	for _, tc := range cases {
		got := PriorityOf(&types.Alert{DueDate: tc.due}, now)
		if got != tc.want {
			t.Errorf("%s: want=%s got=%s", tc.name, tc.want, got)
		}
	}

	if got := PriorityOf(nil, now); got != types.AlertPriorityLow {
		t.Errorf("nil alert: want=%s got=%s", types.AlertPriorityLow, got)
	}
}

func TestCeilDaysRoundsUp(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		due  time.Time
		want int
	}{
		{"exactly now", now, 0},
		{"an hour from now", now.Add(time.Hour), 1},
		{"an hour ago", now.Add(-time.Hour), 0},
		{"25 hours out", now.Add(25 * time.Hour), 2},
		{"exactly two days", now.Add(48 * time.Hour), 2},
		{"25 hours ago", now.Add(-25 * time.Hour), -1},
	}
	for _, tc := range cases {
		if got := ceilDays(tc.due, now); got != tc.want {
			t.Errorf("%s: want=%d got=%d", tc.name, tc.want, got)
		}
	}
}

func TestTabsAreViewsNotPartitions(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	// A review alert with a due date belongs to both deadlines and
	// reviews at once.
	a := &types.Alert{Type: types.AlertTypeNewDisclosure, DueDate: daysFrom(now, 5)}
	for _, tab := range []string{"", "all", AlertTabDeadlines, AlertTabReviews} {
		if !inTab(a, tab) {
			t.Errorf("tab %q should include a due review alert", tab)
		}
	}
	if inTab(a, AlertTabUpdates) {
		t.Errorf("updates tab should not include a new_disclosure alert")
	}

	reply := &types.Alert{Type: types.AlertTypeCommentReply}
	if !inTab(reply, AlertTabUpdates) {
		t.Errorf("updates tab should include comment_reply alerts")
	}
	if inTab(reply, AlertTabDeadlines) {
		t.Errorf("deadlines tab should exclude alerts without a due date")
	}
	if inTab(reply, "unknown") {
		t.Errorf("unknown tab should match nothing")
	}
}

func TestListActiveFiltersByTab(t *testing.T) {
	f := newAlertFixture(t)
	ctx := context.Background()
	now := time.Now()

	if _, err := f.alerts.Create(ctx, nil, types.AlertTypeNewDisclosure, "New disclosure: coating", "", nil, nil, nil); err != nil {
		t.Fatalf("create review alert: %v", err)
	}
	if _, err := f.alerts.Create(ctx, nil, types.AlertTypeAgreementExpiry, "Agreement expiring: NDA", "", nil, nil, daysFrom(now, 10)); err != nil {
		t.Fatalf("create deadline alert: %v", err)
	}

	all, err := f.alerts.ListActive(ctx, "", now)
	if err != nil {
		t.Fatalf("ListActive all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all tab: want=2 got=%d", len(all))
	}

	deadlines, err := f.alerts.ListActive(ctx, AlertTabDeadlines, now)
	if err != nil {
		t.Fatalf("ListActive deadlines: %v", err)
	}
	if len(deadlines) != 1 || deadlines[0].Type != types.AlertTypeAgreementExpiry {
		t.Fatalf("deadlines tab: want the expiry alert, got %d entries", len(deadlines))
	}
	if deadlines[0].Priority != types.AlertPriorityMedium {
		t.Fatalf("deadline priority: want=%s got=%s", types.AlertPriorityMedium, deadlines[0].Priority)
	}
}

func TestDismissIsTerminal(t *testing.T) {
	f := newAlertFixture(t)
	ctx := context.Background()

	created, err := f.alerts.Create(ctx, nil, types.AlertTypeNewDisclosure, "New disclosure: coating", "", nil, nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	dismissed, err := f.alerts.Dismiss(ctx, created.ID)
	if err != nil {
		t.Fatalf("Dismiss: %v", err)
	}
	if !dismissed.IsDismissed {
		t.Fatalf("alert should be flagged dismissed")
	}

	active, err := f.alerts.ListActive(ctx, "", time.Now())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("dismissed alert must not appear in any active list, got %d", len(active))
	}

	if _, err := f.alerts.Dismiss(ctx, uuid.New()); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("dismiss unknown id: want code=%s got=%v", apierr.CodeNotFound, err)
	}
}

func TestMarkAsRead(t *testing.T) {
	f := newAlertFixture(t)
	ctx := context.Background()

	created, err := f.alerts.Create(ctx, nil, types.AlertTypeCommentReply, "New reply on coating", "", nil, nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := f.alerts.MarkAsRead(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	if !updated.IsRead {
		t.Fatalf("alert should be read")
	}

	// Read alerts stay in the active list until dismissed.
	active, err := f.alerts.ListActive(ctx, "", time.Now())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("read alert should remain active, got %d", len(active))
	}

	reverted, err := f.alerts.MarkAsRead(ctx, created.ID, false)
	if err != nil {
		t.Fatalf("MarkAsRead revert: %v", err)
	}
	if reverted.IsRead {
		t.Fatalf("alert should be unread again")
	}
}

func TestSeedIsIdempotentByTypeAndTitle(t *testing.T) {
	f := newAlertFixture(t)
	ctx := context.Background()

	seed := `alerts:
  - type: agreement_expiry
    title: "Agreement expiring: NDA with Acme"
    description: "Expires soon"
    due_in_days: 12
  - type: new_disclosure
    title: "New disclosure: electrode coating"
  - type: checklist_due
    title: "   "
`
	path := filepath.Join(t.TempDir(), "alert_seed.yaml")
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	inserted, err := f.alerts.Seed(ctx, path)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("first seed: want=2 inserted got=%d", inserted)
	}

	again, err := f.alerts.Seed(ctx, path)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if again != 0 {
		t.Fatalf("second seed must insert nothing, got %d", again)
	}

	if _, err := f.alerts.Seed(ctx, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("seeding from a missing file should fail")
	}
}

func TestSweepChecklistDue(t *testing.T) {
	f := newAlertFixture(t)
	ctx := context.Background()
	now := time.Now()

	entityID := uuid.New()
	items := []*types.ChecklistItem{
		{ID: uuid.New(), EntityType: types.EntityTypeProject, EntityID: entityID, Title: "File provisional", DueDate: daysFrom(now, 2)},
		{ID: uuid.New(), EntityType: types.EntityTypeProject, EntityID: entityID, Title: "Draft claims", DueDate: daysFrom(now, 10)},
		{ID: uuid.New(), EntityType: types.EntityTypeProject, EntityID: entityID, Title: "Sign NDA", DueDate: daysFrom(now, 1), IsCompleted: true},
	}
	if _, err := f.checklist.Create(ctx, nil, items); err != nil {
		t.Fatalf("create checklist items: %v", err)
	}

	raised, err := f.alerts.SweepChecklistDue(ctx, now)
	if err != nil {
		t.Fatalf("SweepChecklistDue: %v", err)
	}
	if raised != 1 {
		t.Fatalf("sweep: want=1 alert raised got=%d", raised)
	}

	active, err := f.alerts.ListActive(ctx, "", now)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 || active[0].Title != "Task due: File provisional" {
		t.Fatalf("sweep alert missing or mistitled, got %d entries", len(active))
	}
	if active[0].Type != types.AlertTypeChecklistDue {
		t.Fatalf("sweep alert type: want=%s got=%s", types.AlertTypeChecklistDue, active[0].Type)
	}

	again, err := f.alerts.SweepChecklistDue(ctx, now)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if again != 0 {
		t.Fatalf("second sweep must raise nothing, got %d", again)
	}
}
