package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

func TestDashboardCounts(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	ctx := context.Background()
	now := time.Now()

	discRepo := repos.NewDisclosureRepo(db, log)
	agreementRepo := repos.NewAgreementRepo(db, log)
	checklistRepo := repos.NewChecklistItemRepo(db, log)
	alertRepo := repos.NewAlertRepo(db, log)

	disclosures := []*types.Disclosure{
		{ID: uuid.New(), Title: "A", Status: types.DisclosureStatusReceived},
		{ID: uuid.New(), Title: "B", Status: types.DisclosureStatusReceived},
		{ID: uuid.New(), Title: "C", Status: types.DisclosureStatusFiled},
	}
	if _, err := discRepo.Create(ctx, nil, disclosures); err != nil {
		t.Fatalf("seed disclosures: %v", err)
	}
	agreements := []*types.Agreement{
		{ID: uuid.New(), Title: "NDA", AgreementType: "nda", Status: types.AgreementStatusActive},
		{ID: uuid.New(), Title: "License", AgreementType: "license", Status: types.AgreementStatusDraft},
	}
	if _, err := agreementRepo.Create(ctx, nil, agreements); err != nil {
		t.Fatalf("seed agreements: %v", err)
	}
	overdue := now.AddDate(0, 0, -2)
	items := []*types.ChecklistItem{
		{ID: uuid.New(), EntityType: types.EntityTypeProject, EntityID: uuid.New(), Title: "Late", DueDate: &overdue},
		{ID: uuid.New(), EntityType: types.EntityTypeProject, EntityID: uuid.New(), Title: "Done late", DueDate: &overdue, IsCompleted: true},
	}
	if _, err := checklistRepo.Create(ctx, nil, items); err != nil {
		t.Fatalf("seed checklist: %v", err)
	}
	alerts := []*types.Alert{
		{ID: uuid.New(), Type: types.AlertTypeNewDisclosure, Title: "Unread", CreatedAt: now},
		{ID: uuid.New(), Type: types.AlertTypeNewDisclosure, Title: "Read", IsRead: true, CreatedAt: now},
	}
	if _, err := alertRepo.Create(ctx, nil, alerts); err != nil {
		t.Fatalf("seed alerts: %v", err)
	}

	svc := NewStatsService(
		log,
		discRepo,
		repos.NewProjectRepo(db, log),
		agreementRepo,
		repos.NewStartupRepo(db, log),
		repos.NewInventorRepo(db, log),
		repos.NewTeamMemberRepo(db, log),
		repos.NewFilingRepo(db, log),
		repos.NewEntityLinkRepo(db, log),
		checklistRepo,
		alertRepo,
	)

	stats, err := svc.Dashboard(ctx, now)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if stats.Disclosures != 3 {
		t.Errorf("disclosures: want=3 got=%d", stats.Disclosures)
	}
	if stats.Agreements != 2 || stats.ActiveAgreements != 1 {
		t.Errorf("agreements: want=2/1 got=%d/%d", stats.Agreements, stats.ActiveAgreements)
	}
	if stats.Projects != 0 || stats.Startups != 0 || stats.Links != 0 {
		t.Errorf("empty collections must count zero")
	}
	if stats.OverdueChecklistItem != 1 {
		t.Errorf("overdue checklist: want=1 got=%d", stats.OverdueChecklistItem)
	}
	if stats.UnreadAlerts != 1 {
		t.Errorf("unread alerts: want=1 got=%d", stats.UnreadAlerts)
	}
	if stats.DisclosuresByStatus[types.DisclosureStatusReceived] != 2 {
		t.Errorf("received by status: want=2 got=%d", stats.DisclosuresByStatus[types.DisclosureStatusReceived])
	}
	if stats.DisclosuresByStatus[types.DisclosureStatusFiled] != 1 {
		t.Errorf("filed by status: want=1 got=%d", stats.DisclosuresByStatus[types.DisclosureStatusFiled])
	}
	if stats.DisclosuresByStatus[types.DisclosureStatusAbandoned] != 0 {
		t.Errorf("absent status must be present with zero")
	}
}
