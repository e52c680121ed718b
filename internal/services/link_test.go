package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type linkFixture struct {
	db       *gorm.DB
	links    LinkService
	activity ActivityService
	alerts   repos.AlertRepo
	disc     repos.DisclosureRepo
	proj     repos.ProjectRepo
}

func newLinkFixture(t *testing.T) *linkFixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)

	discRepo := repos.NewDisclosureRepo(db, log)
	projRepo := repos.NewProjectRepo(db, log)
	resolver := NewEntityResolver(
		log,
		discRepo,
		projRepo,
		repos.NewAgreementRepo(db, log),
		repos.NewStartupRepo(db, log),
		repos.NewInventorRepo(db, log),
		repos.NewTeamMemberRepo(db, log),
		repos.NewFilingRepo(db, log),
	)
	activity := NewActivityService(db, log, repos.NewActivityLogRepo(db, log))
	alertRepo := repos.NewAlertRepo(db, log)
	alerts := NewAlertService(db, log, alertRepo, repos.NewChecklistItemRepo(db, log), nil)
	links := NewLinkService(db, log, repos.NewEntityLinkRepo(db, log), resolver, activity, alerts)

	return &linkFixture{db: db, links: links, activity: activity, alerts: alertRepo, disc: discRepo, proj: projRepo}
}

func (f *linkFixture) makeDisclosure(t *testing.T, title string) EntityRef {
	t.Helper()
	row := &types.Disclosure{ID: uuid.New(), Title: title, Status: types.DisclosureStatusReceived}
	if _, err := f.disc.Create(context.Background(), nil, []*types.Disclosure{row}); err != nil {
		t.Fatalf("create disclosure: %v", err)
	}
	return EntityRef{Type: types.EntityTypeDisclosure, ID: row.ID}
}

func (f *linkFixture) makeProject(t *testing.T, name string) EntityRef {
	t.Helper()
	row := &types.Project{ID: uuid.New(), Name: name, Status: types.ProjectStatusActive}
	if _, err := f.proj.Create(context.Background(), nil, []*types.Project{row}); err != nil {
		t.Fatalf("create project: %v", err)
	}
	return EntityRef{Type: types.EntityTypeProject, ID: row.ID}
}

func TestLinkEntitiesNormalizesPairOrder(t *testing.T) {
	f := newLinkFixture(t)
	disc := f.makeDisclosure(t, "Electrode coating")
	proj := f.makeProject(t, "Sensor commercialization")

	// Argument order is project first, but "disclosure" sorts before
	// "project" so the stored pair must be flipped.
	link, err := f.links.LinkEntities(context.Background(), proj, disc)
	if err != nil {
		t.Fatalf("LinkEntities: %v", err)
	}
	if link.FromEntityType != types.EntityTypeDisclosure {
		t.Fatalf("from side: want=%s got=%s", types.EntityTypeDisclosure, link.FromEntityType)
	}
	if link.FromEntityID != disc.ID || link.ToEntityID != proj.ID {
		t.Fatalf("pair ids not normalized: from=%s to=%s", link.FromEntityID, link.ToEntityID)
	}
}

func TestLinkEntitiesRejectsSelfLink(t *testing.T) {
	f := newLinkFixture(t)
	disc := f.makeDisclosure(t, "Electrode coating")

	_, err := f.links.LinkEntities(context.Background(), disc, disc)
	if !apierr.IsCode(err, apierr.CodeSelfLink) {
		t.Fatalf("self link: want code=%s got=%v", apierr.CodeSelfLink, err)
	}
}

func TestLinkEntitiesRejectsDuplicateEitherOrder(t *testing.T) {
	f := newLinkFixture(t)
	disc := f.makeDisclosure(t, "Electrode coating")
	proj := f.makeProject(t, "Sensor commercialization")

	if _, err := f.links.LinkEntities(context.Background(), disc, proj); err != nil {
		t.Fatalf("first link: %v", err)
	}
	_, err := f.links.LinkEntities(context.Background(), proj, disc)
	if !apierr.IsCode(err, apierr.CodeDuplicateLink) {
		t.Fatalf("duplicate link: want code=%s got=%v", apierr.CodeDuplicateLink, err)
	}
}

func TestLinkEntitiesUnknownEndpoint(t *testing.T) {
	f := newLinkFixture(t)
	disc := f.makeDisclosure(t, "Electrode coating")
	ghost := EntityRef{Type: types.EntityTypeProject, ID: uuid.New()}

	_, err := f.links.LinkEntities(context.Background(), disc, ghost)
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("unknown endpoint: want code=%s got=%v", apierr.CodeNotFound, err)
	}
}

func TestLinkEntitiesRecordsActivityOnBothEndpoints(t *testing.T) {
	f := newLinkFixture(t)
	disc := f.makeDisclosure(t, "Electrode coating")
	proj := f.makeProject(t, "Sensor commercialization")

	if _, err := f.links.LinkEntities(context.Background(), disc, proj); err != nil {
		t.Fatalf("LinkEntities: %v", err)
	}

	for _, ref := range []EntityRef{disc, proj} {
		entries, err := f.activity.Timeline(context.Background(), ref)
		if err != nil {
			t.Fatalf("Timeline(%s): %v", ref.Type, err)
		}
		got := FilterByAction(entries, types.ActivityActionLinkCreated)
		if len(got) != 1 {
			t.Fatalf("link_created entries for %s: want=1 got=%d", ref.Type, len(got))
		}
	}
}

func TestUnlinkEntities(t *testing.T) {
	f := newLinkFixture(t)
	disc := f.makeDisclosure(t, "Electrode coating")
	proj := f.makeProject(t, "Sensor commercialization")
	ctx := context.Background()

	link, err := f.links.LinkEntities(ctx, disc, proj)
	if err != nil {
		t.Fatalf("LinkEntities: %v", err)
	}
	if err := f.links.UnlinkEntities(ctx, link.ID); err != nil {
		t.Fatalf("UnlinkEntities: %v", err)
	}

	for _, ref := range []EntityRef{disc, proj} {
		entries, tErr := f.activity.Timeline(ctx, ref)
		if tErr != nil {
			t.Fatalf("Timeline(%s): %v", ref.Type, tErr)
		}
		if got := FilterByAction(entries, types.ActivityActionLinkRemoved); len(got) != 1 {
			t.Fatalf("link_removed entries for %s: want=1 got=%d", ref.Type, len(got))
		}
	}

	active, aErr := f.alerts.ListActive(ctx, nil)
	if aErr != nil {
		t.Fatalf("ListActive: %v", aErr)
	}
	found := false
	for _, a := range active {
		if a.Type == types.AlertTypeLinkDeleted {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a link_deleted alert after unlink")
	}

	// A second unlink of the same id is a not_found, not a no-op.
	if err := f.links.UnlinkEntities(ctx, link.ID); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("second unlink: want code=%s got=%v", apierr.CodeNotFound, err)
	}
}

func TestGetLinkedEntitiesResolvesCounterpart(t *testing.T) {
	f := newLinkFixture(t)
	a := f.makeDisclosure(t, "Electrode coating")
	b := f.makeDisclosure(t, "Battery chemistry")
	ctx := context.Background()

	if _, err := f.links.LinkEntities(ctx, a, b); err != nil {
		t.Fatalf("LinkEntities: %v", err)
	}

	linked, err := f.links.GetLinkedEntities(ctx, a)
	if err != nil {
		t.Fatalf("GetLinkedEntities: %v", err)
	}
	if len(linked) != 1 {
		t.Fatalf("linked count: want=1 got=%d", len(linked))
	}
	// Both sides share a type, so counterpart selection must compare ids.
	if linked[0].Counterpart.ID != b.ID {
		t.Fatalf("counterpart: want=%s got=%s", b.ID, linked[0].Counterpart.ID)
	}
	if linked[0].Counterpart.DisplayName != "Battery chemistry" {
		t.Fatalf("counterpart display name: want=%q got=%q", "Battery chemistry", linked[0].Counterpart.DisplayName)
	}
}
