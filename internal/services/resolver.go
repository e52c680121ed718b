package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

// EntityRef identifies one record in any of the linkable collections.
// DisplayName is the collection-specific title/name projection; the link
// graph and timeline never touch any other field.
type EntityRef struct {
	Type        types.EntityType `json:"entity_type"`
	ID          uuid.UUID        `json:"entity_id"`
	DisplayName string           `json:"display_name,omitempty"`
}

func (r EntityRef) Same(other EntityRef) bool {
	return r.Type == other.Type && r.ID == other.ID
}

// Less orders refs lexicographically by (type, id). Link pairs are
// normalized with this ordering so an unordered pair maps to one row.
func (r EntityRef) Less(other EntityRef) bool {
	if r.Type != other.Type {
		return r.Type < other.Type
	}
	return strings.Compare(r.ID.String(), other.ID.String()) < 0
}

// EntityResolver maps a (type, id) pair to a display view by hitting the
// matching collection repo.
type EntityResolver interface {
	Resolve(ctx context.Context, tx *gorm.DB, ref EntityRef) (EntityRef, error)
	Exists(ctx context.Context, tx *gorm.DB, ref EntityRef) (bool, error)
}

type entityResolver struct {
	log            *logger.Logger
	disclosureRepo repos.DisclosureRepo
	projectRepo    repos.ProjectRepo
	agreementRepo  repos.AgreementRepo
	startupRepo    repos.StartupRepo
	inventorRepo   repos.InventorRepo
	teamMemberRepo repos.TeamMemberRepo
	filingRepo     repos.FilingRepo
}

func NewEntityResolver(
	log *logger.Logger,
	disclosureRepo repos.DisclosureRepo,
	projectRepo repos.ProjectRepo,
	agreementRepo repos.AgreementRepo,
	startupRepo repos.StartupRepo,
	inventorRepo repos.InventorRepo,
	teamMemberRepo repos.TeamMemberRepo,
	filingRepo repos.FilingRepo,
) EntityResolver {
	return &entityResolver{
		log:            log.With("service", "EntityResolver"),
		disclosureRepo: disclosureRepo,
		projectRepo:    projectRepo,
		agreementRepo:  agreementRepo,
		startupRepo:    startupRepo,
		inventorRepo:   inventorRepo,
		teamMemberRepo: teamMemberRepo,
		filingRepo:     filingRepo,
	}
}

func (er *entityResolver) Resolve(ctx context.Context, tx *gorm.DB, ref EntityRef) (EntityRef, error) {
	if !types.IsValidEntityType(ref.Type) {
		return EntityRef{}, apierr.Validation(fmt.Errorf("unknown entity type %q", ref.Type))
	}
	if ref.ID == uuid.Nil {
		return EntityRef{}, apierr.Validation(fmt.Errorf("entity id required"))
	}

	name, found, err := er.displayName(ctx, tx, ref)
	if err != nil {
		return EntityRef{}, fmt.Errorf("resolve %s/%s: %w", ref.Type, ref.ID, err)
	}
	if !found {
		return EntityRef{}, apierr.NotFound(fmt.Errorf("%s %s not found", ref.Type, ref.ID))
	}
	return EntityRef{Type: ref.Type, ID: ref.ID, DisplayName: name}, nil
}

func (er *entityResolver) Exists(ctx context.Context, tx *gorm.DB, ref EntityRef) (bool, error) {
	if !types.IsValidEntityType(ref.Type) || ref.ID == uuid.Nil {
		return false, nil
	}
	_, found, err := er.displayName(ctx, tx, ref)
	if err != nil {
		return false, err
	}
	return found, nil
}

func (er *entityResolver) displayName(ctx context.Context, tx *gorm.DB, ref EntityRef) (string, bool, error) {
	ids := []uuid.UUID{ref.ID}
	switch ref.Type {
	case types.EntityTypeDisclosure:
		rows, err := er.disclosureRepo.GetByIDs(ctx, tx, ids)
		if err != nil || len(rows) == 0 {
			return "", false, err
		}
		return rows[0].Title, true, nil
	case types.EntityTypeProject:
		rows, err := er.projectRepo.GetByIDs(ctx, tx, ids)
		if err != nil || len(rows) == 0 {
			return "", false, err
		}
		return rows[0].Name, true, nil
	case types.EntityTypeAgreement:
		rows, err := er.agreementRepo.GetByIDs(ctx, tx, ids)
		if err != nil || len(rows) == 0 {
			return "", false, err
		}
		return rows[0].Title, true, nil
	case types.EntityTypeStartup:
		rows, err := er.startupRepo.GetByIDs(ctx, tx, ids)
		if err != nil || len(rows) == 0 {
			return "", false, err
		}
		return rows[0].Name, true, nil
	case types.EntityTypeInventor:
		rows, err := er.inventorRepo.GetByIDs(ctx, tx, ids)
		if err != nil || len(rows) == 0 {
			return "", false, err
		}
		return rows[0].FirstName + " " + rows[0].LastName, true, nil
	case types.EntityTypeTeamMember:
		rows, err := er.teamMemberRepo.GetByIDs(ctx, tx, ids)
		if err != nil || len(rows) == 0 {
			return "", false, err
		}
		return rows[0].FirstName + " " + rows[0].LastName, true, nil
	case types.EntityTypeFiling:
		rows, err := er.filingRepo.GetByIDs(ctx, tx, ids)
		if err != nil || len(rows) == 0 {
			return "", false, err
		}
		return rows[0].Title, true, nil
	}
	return "", false, nil
}
