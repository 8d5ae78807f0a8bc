package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
)

type SiteSource interface {
	ListActive(ctx context.Context) ([]*domain.OfficeSite, error)
}

type SiteCacheWriter interface {
	SetActive(ctx context.Context, sites []domain.OfficeSite, ttl time.Duration) error
}

// SiteRefresher keeps the active-site cache warm so check-ins rarely fall
// through to the database. The cache TTL should outlive the refresh interval.
type SiteRefresher struct {
	sites  SiteSource
	cache  SiteCacheWriter
	every  time.Duration
	ttl    time.Duration
	logger *slog.Logger
}

func NewSiteRefresher(sites SiteSource, cache SiteCacheWriter, every, ttl time.Duration, logger *slog.Logger) *SiteRefresher {
	if every <= 0 {
		every = time.Minute
	}
	if ttl < every {
		ttl = 2 * every
	}
	return &SiteRefresher{
		sites:  sites,
		cache:  cache,
		every:  every,
		ttl:    ttl,
		logger: logger,
	}
}

func (w *SiteRefresher) Run(ctx context.Context) {
	w.logger.Info("siteRefresher STARTED", slog.Duration("every", w.every))

	ticker := time.NewTicker(w.every)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("siteRefresher STOPPED", slog.String("reason", ctx.Err().Error()))
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *SiteRefresher) refresh(ctx context.Context) {
	active, err := w.sites.ListActive(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("list active sites failed", slog.Any("error", err))
		}
		return
	}

	out := make([]domain.OfficeSite, 0, len(active))
	for _, s := range active {
		out = append(out, *s)
	}
	if err := w.cache.SetActive(ctx, out, w.ttl); err != nil {
		if ctx.Err() == nil {
			w.logger.Error("set active sites failed", slog.Any("error", err))
		}
		return
	}
	w.logger.Debug("site cache refreshed", slog.Int("sites", len(out)))
}
