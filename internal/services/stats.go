package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

// DashboardStats is the headline card payload on the console landing
// page. Counts are read without a shared transaction, so concurrent
// writes may skew totals by a row or two between fields.
type DashboardStats struct {
	Disclosures          int64            `json:"disclosures"`
	Projects             int64            `json:"projects"`
	Agreements           int64            `json:"agreements"`
	ActiveAgreements     int64            `json:"active_agreements"`
	Startups             int64            `json:"startups"`
	Inventors            int64            `json:"inventors"`
	TeamMembers          int64            `json:"team_members"`
	Filings              int64            `json:"filings"`
	Links                int64            `json:"links"`
	DisclosuresByStatus  map[string]int64 `json:"disclosures_by_status"`
	OverdueChecklistItem int64            `json:"overdue_checklist_items"`
	UnreadAlerts         int64            `json:"unread_alerts"`
}

type StatsService interface {
	Dashboard(ctx context.Context, now time.Time) (*DashboardStats, error)
}

type statsService struct {
	log         *logger.Logger
	disclosures repos.DisclosureRepo
	projects    repos.ProjectRepo
	agreements  repos.AgreementRepo
	startups    repos.StartupRepo
	inventors   repos.InventorRepo
	teamMembers repos.TeamMemberRepo
	filings     repos.FilingRepo
	links       repos.EntityLinkRepo
	checklist   repos.ChecklistItemRepo
	alerts      repos.AlertRepo
}

func NewStatsService(
	log *logger.Logger,
	disclosures repos.DisclosureRepo,
	projects repos.ProjectRepo,
	agreements repos.AgreementRepo,
	startups repos.StartupRepo,
	inventors repos.InventorRepo,
	teamMembers repos.TeamMemberRepo,
	filings repos.FilingRepo,
	links repos.EntityLinkRepo,
	checklist repos.ChecklistItemRepo,
	alerts repos.AlertRepo,
) StatsService {
	serviceLog := log.With("service", "StatsService")
	return &statsService{
		log:         serviceLog,
		disclosures: disclosures,
		projects:    projects,
		agreements:  agreements,
		startups:    startups,
		inventors:   inventors,
		teamMembers: teamMembers,
		filings:     filings,
		links:       links,
		checklist:   checklist,
		alerts:      alerts,
	}
}

func (ss *statsService) Dashboard(ctx context.Context, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{DisclosuresByStatus: map[string]int64{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	count(&stats.Disclosures, func(c context.Context) (int64, error) { return ss.disclosures.Count(c, nil) })
	count(&stats.Projects, func(c context.Context) (int64, error) { return ss.projects.Count(c, nil) })
	count(&stats.Agreements, func(c context.Context) (int64, error) { return ss.agreements.Count(c, nil) })
	count(&stats.ActiveAgreements, func(c context.Context) (int64, error) {
		return ss.agreements.CountByStatus(c, nil, types.AgreementStatusActive)
	})
	count(&stats.Startups, func(c context.Context) (int64, error) { return ss.startups.Count(c, nil) })
	count(&stats.Inventors, func(c context.Context) (int64, error) { return ss.inventors.Count(c, nil) })
	count(&stats.TeamMembers, func(c context.Context) (int64, error) { return ss.teamMembers.Count(c, nil) })
	count(&stats.Filings, func(c context.Context) (int64, error) { return ss.filings.Count(c, nil) })
	count(&stats.Links, func(c context.Context) (int64, error) { return ss.links.Count(c, nil) })
	count(&stats.OverdueChecklistItem, func(c context.Context) (int64, error) {
		return ss.checklist.CountOverdue(c, nil, now)
	})
	count(&stats.UnreadAlerts, func(c context.Context) (int64, error) { return ss.alerts.CountUnread(c, nil) })

	for _, status := range []string{
		types.DisclosureStatusReceived,
		types.DisclosureStatusUnderReview,
		types.DisclosureStatusEvaluated,
		types.DisclosureStatusFiled,
		types.DisclosureStatusLicensed,
		types.DisclosureStatusAbandoned,
	} {
		status := status
		g.Go(func() error {
			n, err := ss.disclosures.CountByStatus(gctx, nil, status)
			if err != nil {
				return err
			}
			mu.Lock()
			stats.DisclosuresByStatus[status] = n
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apierr.Storage(err)
	}
	return stats, nil
}
