package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/requestdata"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type disclosureFixture struct {
	svc      DisclosureService
	activity ActivityService
	alerts   AlertService
}

func newDisclosureFixture(t *testing.T) *disclosureFixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)

	activity := NewActivityService(db, log, repos.NewActivityLogRepo(db, log))
	alerts := NewAlertService(db, log, repos.NewAlertRepo(db, log), repos.NewChecklistItemRepo(db, log), nil)
	svc := NewDisclosureService(db, log, repos.NewDisclosureRepo(db, log), activity, alerts)
	return &disclosureFixture{svc: svc, activity: activity, alerts: alerts}
}

func TestDisclosureCreateDefaultsAndAlert(t *testing.T) {
	f := newDisclosureFixture(t)
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{Email: "intake@uni.edu"})

	created, err := f.svc.Create(ctx, &types.Disclosure{Title: "  Electrode coating  ", Summary: "Novel coating process"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Title != "Electrode coating" {
		t.Fatalf("title not trimmed: %q", created.Title)
	}
	if created.Status != types.DisclosureStatusReceived {
		t.Fatalf("default status: want=%s got=%s", types.DisclosureStatusReceived, created.Status)
	}
	if created.CreatedBy != "intake@uni.edu" {
		t.Fatalf("created_by: want=%q got=%q", "intake@uni.edu", created.CreatedBy)
	}

	ref := EntityRef{Type: types.EntityTypeDisclosure, ID: created.ID}
	entries, err := f.activity.Timeline(ctx, ref)
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(FilterByAction(entries, types.ActivityActionCreate)) != 1 {
		t.Fatalf("create activity missing")
	}

	reviews, err := f.alerts.ListActive(ctx, AlertTabReviews, time.Now())
	if err != nil {
		t.Fatalf("ListActive reviews: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Title != "New disclosure: Electrode coating" {
		t.Fatalf("new_disclosure alert missing or mistitled, got %d entries", len(reviews))
	}

	if _, err := f.svc.Create(ctx, &types.Disclosure{Title: "   "}); !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("blank title: want code=%s got=%v", apierr.CodeValidation, err)
	}
}

func TestDisclosureUpdateRecordsStatusChange(t *testing.T) {
	f := newDisclosureFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &types.Disclosure{Title: "Electrode coating"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := f.svc.Update(ctx, created.ID, &types.Disclosure{
		Title:  "Electrode coating",
		Status: types.DisclosureStatusUnderReview,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != types.DisclosureStatusUnderReview {
		t.Fatalf("status: want=%s got=%s", types.DisclosureStatusUnderReview, updated.Status)
	}

	ref := EntityRef{Type: types.EntityTypeDisclosure, ID: created.ID}
	entries, err := f.activity.Timeline(ctx, ref)
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	changes := FilterByAction(entries, types.ActivityActionStatusChange)
	if len(changes) != 1 {
		t.Fatalf("status_change entries: want=1 got=%d", len(changes))
	}
	want := `{"from":"received","to":"under_review"}`
	if string(changes[0].Metadata) != want {
		t.Fatalf("status_change metadata: want=%s got=%s", want, changes[0].Metadata)
	}
	if len(FilterByAction(entries, types.ActivityActionUpdate)) != 0 {
		t.Fatalf("a status change must not also record a plain update")
	}

	// A touch without a status move is a plain update entry.
	if _, err := f.svc.Update(ctx, created.ID, &types.Disclosure{Title: "Electrode coating v2", Status: updated.Status}); err != nil {
		t.Fatalf("second update: %v", err)
	}
	entries, err = f.activity.Timeline(ctx, ref)
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(FilterByAction(entries, types.ActivityActionUpdate)) != 1 {
		t.Fatalf("plain update entry missing")
	}
}

func TestDisclosureUpdateNotFound(t *testing.T) {
	f := newDisclosureFixture(t)
	_, err := f.svc.Update(context.Background(), uuid.New(), &types.Disclosure{Title: "Ghost"})
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("missing row: want code=%s got=%v", apierr.CodeNotFound, err)
	}
}

func TestDisclosureDelete(t *testing.T) {
	f := newDisclosureFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &types.Disclosure{Title: "Electrode coating"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.Get(ctx, created.ID); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("get after delete: want code=%s got=%v", apierr.CodeNotFound, err)
	}

	// The timeline survives the record; the delete entry is the tail.
	entries, err := f.activity.Timeline(ctx, EntityRef{Type: types.EntityTypeDisclosure, ID: created.ID})
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(FilterByAction(entries, types.ActivityActionDelete)) != 1 {
		t.Fatalf("delete activity missing")
	}
}

func TestDisclosureListEmpty(t *testing.T) {
	f := newDisclosureFixture(t)
	rows, err := f.svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("empty list must be a non-nil empty slice, got %v", rows)
	}
}
