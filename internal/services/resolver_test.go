package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

func TestEntityRefSame(t *testing.T) {
	id := uuid.New()
	a := EntityRef{Type: types.EntityTypeProject, ID: id, DisplayName: "Sensor"}
	b := EntityRef{Type: types.EntityTypeProject, ID: id}
	if !a.Same(b) {
		t.Fatalf("display name must not affect identity")
	}
	if a.Same(EntityRef{Type: types.EntityTypeDisclosure, ID: id}) {
		t.Fatalf("type mismatch must not be the same ref")
	}
	if a.Same(EntityRef{Type: types.EntityTypeProject, ID: uuid.New()}) {
		t.Fatalf("id mismatch must not be the same ref")
	}
}

func TestEntityRefLessOrdering(t *testing.T) {
	id := uuid.New()
	disc := EntityRef{Type: types.EntityTypeDisclosure, ID: id}
	proj := EntityRef{Type: types.EntityTypeProject, ID: id}
	if !disc.Less(proj) {
		t.Fatalf("disclosure must sort before project")
	}
	if proj.Less(disc) {
		t.Fatalf("ordering must be antisymmetric")
	}

	low := EntityRef{Type: types.EntityTypeProject, ID: uuid.MustParse("00000000-0000-0000-0000-000000000001")}
	high := EntityRef{Type: types.EntityTypeProject, ID: uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")}
	if !low.Less(high) || high.Less(low) {
		t.Fatalf("same-type refs must order by id string")
	}
	if low.Less(low) {
		t.Fatalf("a ref must not sort before itself")
	}
}

func newResolverFixture(t *testing.T) (EntityResolver, repos.InventorRepo) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	inventorRepo := repos.NewInventorRepo(db, log)
	resolver := NewEntityResolver(
		log,
		repos.NewDisclosureRepo(db, log),
		repos.NewProjectRepo(db, log),
		repos.NewAgreementRepo(db, log),
		repos.NewStartupRepo(db, log),
		inventorRepo,
		repos.NewTeamMemberRepo(db, log),
		repos.NewFilingRepo(db, log),
	)
	return resolver, inventorRepo
}

func TestResolveProjectsDisplayName(t *testing.T) {
	resolver, inventorRepo := newResolverFixture(t)
	ctx := context.Background()

	row := &types.Inventor{ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace"}
	if _, err := inventorRepo.Create(ctx, nil, []*types.Inventor{row}); err != nil {
		t.Fatalf("create inventor: %v", err)
	}

	resolved, err := resolver.Resolve(ctx, nil, EntityRef{Type: types.EntityTypeInventor, ID: row.ID})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.DisplayName != "Ada Lovelace" {
		t.Fatalf("display name: want=%q got=%q", "Ada Lovelace", resolved.DisplayName)
	}
}

func TestResolveErrors(t *testing.T) {
	resolver, _ := newResolverFixture(t)
	ctx := context.Background()

	if _, err := resolver.Resolve(ctx, nil, EntityRef{Type: "widget", ID: uuid.New()}); !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("unknown type: want code=%s got=%v", apierr.CodeValidation, err)
	}
	if _, err := resolver.Resolve(ctx, nil, EntityRef{Type: types.EntityTypeProject}); !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("nil id: want code=%s got=%v", apierr.CodeValidation, err)
	}
	if _, err := resolver.Resolve(ctx, nil, EntityRef{Type: types.EntityTypeProject, ID: uuid.New()}); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("missing row: want code=%s got=%v", apierr.CodeNotFound, err)
	}

	ok, err := resolver.Exists(ctx, nil, EntityRef{Type: "widget", ID: uuid.New()})
	if err != nil || ok {
		t.Fatalf("Exists on invalid ref: want false,nil got %v,%v", ok, err)
	}
}
