package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

type SiteResolver interface {
	SiteFor(ctx context.Context, employeeID string) (*domain.OfficeSite, error)
}

// DefaultSiteResolver assigns every employee to one configured site. The
// site is read from the cache first and from the repository on a miss.
type DefaultSiteResolver struct {
	siteID uuid.UUID
	repo   SiteRepository
	cache  SiteCache
	ttl    time.Duration
	logger *slog.Logger
}

func NewDefaultSiteResolver(siteID uuid.UUID, repo SiteRepository, cache SiteCache, ttl time.Duration, logger *slog.Logger) *DefaultSiteResolver {
	if ttl <= 0 {
		ttl = DefaultSiteCacheTTL
	}
	return &DefaultSiteResolver{
		siteID: siteID,
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *DefaultSiteResolver) SiteFor(ctx context.Context, employeeID string) (*domain.OfficeSite, error) {
	const op = "service.SiteResolver.SiteFor"

	if r.cache != nil {
		sites, err := r.cache.GetActive(ctx)
		if err != nil {
			r.logger.Warn("site cache read failed", slog.String("op", op), slog.Any("error", err))
		}
		for i := range sites {
			if sites[i].ID == r.siteID {
				site := sites[i]
				return &site, nil
			}
		}
	}

	site, err := r.repo.Get(ctx, r.siteID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if site.Status != domain.SiteActive {
		return nil, fmt.Errorf("%s: site %s is %s: %w", op, site.ID, site.Status, e.ErrNotFound)
	}

	if r.cache != nil {
		if err := RefreshSiteCache(ctx, r.repo, r.cache, r.ttl); err != nil {
			r.logger.Warn("site cache refill failed", slog.String("op", op), slog.Any("error", err))
		}
	}

	r.logger.Debug("site resolved from repository",
		slog.String("employee_id", employeeID),
		slog.String("site_id", site.ID.String()),
	)
	return site, nil
}
