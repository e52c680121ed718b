package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/requestdata"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

// LinkedEntity is one edge of the cross-link graph as seen from a given
// entity: the raw link row plus the resolved counterpart, so callers
// never branch on which side matched.
type LinkedEntity struct {
	Link        *types.EntityLink `json:"link"`
	Counterpart EntityRef         `json:"counterpart"`
}

type LinkService interface {
	LinkEntities(ctx context.Context, a, b EntityRef) (*types.EntityLink, error)
	UnlinkEntities(ctx context.Context, linkID uuid.UUID) error
	GetLinkedEntities(ctx context.Context, ref EntityRef) ([]LinkedEntity, error)
}

type linkService struct {
	db       *gorm.DB
	log      *logger.Logger
	linkRepo repos.EntityLinkRepo
	resolver EntityResolver
	activity ActivityService
	alerts   AlertService
}

func NewLinkService(db *gorm.DB, log *logger.Logger, linkRepo repos.EntityLinkRepo, resolver EntityResolver, activity ActivityService, alerts AlertService) LinkService {
	serviceLog := log.With("service", "LinkService")
	return &linkService{
		db:       db,
		log:      serviceLog,
		linkRepo: linkRepo,
		resolver: resolver,
		activity: activity,
		alerts:   alerts,
	}
}

func (ls *linkService) LinkEntities(ctx context.Context, a, b EntityRef) (*types.EntityLink, error) {
	if a.Same(b) {
		return nil, apierr.SelfLink(fmt.Errorf("an entity cannot be linked to itself"))
	}

	var created *types.EntityLink
	err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolvedA, err := ls.resolver.Resolve(ctx, tx, a)
		if err != nil {
			return err
		}
		resolvedB, err := ls.resolver.Resolve(ctx, tx, b)
		if err != nil {
			return err
		}

		// Normalize the unordered pair: lexicographically smaller
		// (type, id) goes on the from side, so duplicate detection is a
		// single lookup regardless of argument order.
		from, to := resolvedA, resolvedB
		if to.Less(from) {
			from, to = to, from
		}

		existing, err := ls.linkRepo.GetByPair(ctx, tx, from.Type, from.ID, to.Type, to.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.Storage(err)
		}
		if existing != nil {
			return apierr.DuplicateLink(fmt.Errorf("%s %q is already linked to %s %q",
				from.Type, from.DisplayName, to.Type, to.DisplayName))
		}

		createdBy := ""
		if rd := requestdata.GetRequestData(ctx); rd != nil {
			createdBy = rd.Email
		}
		link := &types.EntityLink{
			ID:             uuid.New(),
			FromEntityType: from.Type,
			FromEntityID:   from.ID,
			ToEntityType:   to.Type,
			ToEntityID:     to.ID,
			CreatedBy:      createdBy,
		}
		if _, err := ls.linkRepo.Create(ctx, tx, link); err != nil {
			return apierr.Storage(err)
		}

		desc := fmt.Sprintf("Linked to %s %q", to.Type, to.DisplayName)
		if _, err := ls.activity.Record(ctx, tx, from, types.ActivityActionLinkCreated, desc, nil); err != nil {
			return err
		}
		desc = fmt.Sprintf("Linked to %s %q", from.Type, from.DisplayName)
		if _, err := ls.activity.Record(ctx, tx, to, types.ActivityActionLinkCreated, desc, nil); err != nil {
			return err
		}

		created = link
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UnlinkEntities removes the link and records a link_removed activity
// entry on both endpoints, not just the side that initiated the unlink.
func (ls *linkService) UnlinkEntities(ctx context.Context, linkID uuid.UUID) error {
	return ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		link, err := ls.linkRepo.GetByID(ctx, tx, linkID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound(fmt.Errorf("link %s not found", linkID))
			}
			return apierr.Storage(err)
		}

		from := EntityRef{Type: link.FromEntityType, ID: link.FromEntityID}
		to := EntityRef{Type: link.ToEntityType, ID: link.ToEntityID}
		// Display names are best-effort here; one endpoint may already be
		// deleted and the unlink must still succeed.
		if resolved, rErr := ls.resolver.Resolve(ctx, tx, from); rErr == nil {
			from = resolved
		}
		if resolved, rErr := ls.resolver.Resolve(ctx, tx, to); rErr == nil {
			to = resolved
		}

		if err := ls.linkRepo.DeleteByID(ctx, tx, linkID); err != nil {
			return apierr.Storage(err)
		}

		desc := fmt.Sprintf("Removed link to %s %q", to.Type, to.DisplayName)
		if _, err := ls.activity.Record(ctx, tx, from, types.ActivityActionLinkRemoved, desc, nil); err != nil {
			return err
		}
		desc = fmt.Sprintf("Removed link to %s %q", from.Type, from.DisplayName)
		if _, err := ls.activity.Record(ctx, tx, to, types.ActivityActionLinkRemoved, desc, nil); err != nil {
			return err
		}

		if ls.alerts != nil {
			title := fmt.Sprintf("Link removed: %s and %s", displayOrType(from), displayOrType(to))
			if _, aErr := ls.alerts.Create(ctx, tx, types.AlertTypeLinkDeleted, title, "", &from.Type, &from.ID, nil); aErr != nil {
				ls.log.Warn("Failed to create link_deleted alert", "linkID", linkID, "error", aErr)
			}
		}
		return nil
	})
}

func (ls *linkService) GetLinkedEntities(ctx context.Context, ref EntityRef) ([]LinkedEntity, error) {
	if !types.IsValidEntityType(ref.Type) {
		return nil, apierr.Validation(fmt.Errorf("unknown entity type %q", ref.Type))
	}

	links, err := ls.linkRepo.ListByEntity(ctx, nil, ref.Type, ref.ID)
	if err != nil {
		return nil, apierr.Storage(err)
	}

	out := make([]LinkedEntity, 0, len(links))
	for _, link := range links {
		counterpart := EntityRef{Type: link.FromEntityType, ID: link.FromEntityID}
		// Side selection must hold even when both sides share a type:
		// compare ids, not types.
		if link.FromEntityType == ref.Type && link.FromEntityID == ref.ID {
			counterpart = EntityRef{Type: link.ToEntityType, ID: link.ToEntityID}
		}
		if resolved, rErr := ls.resolver.Resolve(ctx, nil, counterpart); rErr == nil {
			counterpart = resolved
		}
		out = append(out, LinkedEntity{Link: link, Counterpart: counterpart})
	}
	return out, nil
}

func displayOrType(ref EntityRef) string {
	if ref.DisplayName != "" {
		return ref.DisplayName
	}
	return string(ref.Type)
}
