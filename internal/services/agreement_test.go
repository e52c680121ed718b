package services

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type agreementFixture struct {
	svc    AgreementService
	alerts AlertService
}

func newAgreementFixture(t *testing.T) *agreementFixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)

	activity := NewActivityService(db, log, repos.NewActivityLogRepo(db, log))
	alerts := NewAlertService(db, log, repos.NewAlertRepo(db, log), repos.NewChecklistItemRepo(db, log), nil)
	svc := NewAgreementService(db, log, repos.NewAgreementRepo(db, log), activity, alerts)
	return &agreementFixture{svc: svc, alerts: alerts}
}

func (f *agreementFixture) expiryAlerts(t *testing.T) []AlertView {
	t.Helper()
	active, err := f.alerts.ListActive(context.Background(), "", time.Now())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	out := make([]AlertView, 0, len(active))
	for _, a := range active {
		if a.Type == types.AlertTypeAgreementExpiry {
			out = append(out, a)
		}
	}
	return out
}

func TestAgreementCreateValidation(t *testing.T) {
	f := newAgreementFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, &types.Agreement{AgreementType: "license"}); !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("missing title: want code=%s got=%v", apierr.CodeValidation, err)
	}
	if _, err := f.svc.Create(ctx, &types.Agreement{Title: "NDA with Acme"}); !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("missing type: want code=%s got=%v", apierr.CodeValidation, err)
	}

	created, err := f.svc.Create(ctx, &types.Agreement{Title: "NDA with Acme", AgreementType: "nda"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != types.AgreementStatusDraft {
		t.Fatalf("default status: want=%s got=%s", types.AgreementStatusDraft, created.Status)
	}
	if got := f.expiryAlerts(t); len(got) != 0 {
		t.Fatalf("no expiry date, no expiry alert; got %d", len(got))
	}
}

func TestAgreementCreateWithExpiryRaisesAlert(t *testing.T) {
	f := newAgreementFixture(t)
	expiry := time.Now().AddDate(0, 0, 20)

	created, err := f.svc.Create(context.Background(), &types.Agreement{
		Title:         "License with Acme",
		AgreementType: "license",
		ExpiryDate:    &expiry,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got := f.expiryAlerts(t)
	if len(got) != 1 {
		t.Fatalf("expiry alerts: want=1 got=%d", len(got))
	}
	if got[0].Title != "Agreement expiring: License with Acme" {
		t.Fatalf("alert title: got %q", got[0].Title)
	}
	if got[0].EntityID == nil || *got[0].EntityID != created.ID {
		t.Fatalf("alert must point back at the agreement")
	}
	if got[0].DueDate == nil || !got[0].DueDate.Equal(expiry) {
		t.Fatalf("alert due date must mirror the expiry date")
	}
}

func TestAgreementUpdateExpiryChangeRaisesAlert(t *testing.T) {
	f := newAgreementFixture(t)
	ctx := context.Background()
	expiry := time.Now().AddDate(0, 0, 20)

	created, err := f.svc.Create(ctx, &types.Agreement{
		Title:         "License with Acme",
		AgreementType: "license",
		ExpiryDate:    &expiry,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := f.expiryAlerts(t); len(got) != 1 {
		t.Fatalf("after create: want=1 expiry alert got=%d", len(got))
	}

	// Updating without moving the expiry date must not raise another.
	if _, err := f.svc.Update(ctx, created.ID, &types.Agreement{
		Title:         "License with Acme",
		AgreementType: "license",
		Counterparty:  "Acme Corp",
		ExpiryDate:    &expiry,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := f.expiryAlerts(t); len(got) != 1 {
		t.Fatalf("unchanged expiry: want=1 alert got=%d", len(got))
	}

	moved := expiry.AddDate(0, 1, 0)
	if _, err := f.svc.Update(ctx, created.ID, &types.Agreement{
		Title:         "License with Acme",
		AgreementType: "license",
		ExpiryDate:    &moved,
	}); err != nil {
		t.Fatalf("Update with new expiry: %v", err)
	}
	if got := f.expiryAlerts(t); len(got) != 2 {
		t.Fatalf("moved expiry: want=2 alerts got=%d", len(got))
	}
}

func TestSameDate(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)

	if !sameDate(nil, nil) {
		t.Fatalf("both nil must match")
	}
	if sameDate(&now, nil) || sameDate(nil, &now) {
		t.Fatalf("one nil must not match")
	}
	if !sameDate(&now, &now) {
		t.Fatalf("equal instants must match")
	}
	if sameDate(&now, &later) {
		t.Fatalf("different instants must not match")
	}
	utc := now.UTC()
	if !sameDate(&now, &utc) {
		t.Fatalf("same instant in another zone must match")
	}
}
