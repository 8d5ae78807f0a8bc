package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/validator"
)

const DefaultSiteCacheTTL = 10 * time.Minute

type SiteAdminService struct {
	repo   SiteRepository
	cache  SiteCache
	logger *slog.Logger
}

func NewSiteService(repo SiteRepository, cache SiteCache, logger *slog.Logger) *SiteAdminService {
	return &SiteAdminService{repo: repo, cache: cache, logger: logger}
}

func (s *SiteAdminService) Create(ctx context.Context, req domain.CreateSiteRequest) (uuid.UUID, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}

	site := &domain.OfficeSite{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		QRSecret:     req.QRSecret,
		Status:       domain.SiteActive,
	}
	if req.Status != "" {
		site.Status = req.Status
	}

	if err := s.repo.Create(ctx, site); err != nil {
		return uuid.Nil, err
	}
	s.refreshCache(ctx)
	return site.ID, nil
}

func (s *SiteAdminService) List(ctx context.Context, page, limit int) ([]*domain.OfficeSite, int64, error) {
	return s.repo.List(ctx, page, limit)
}

func (s *SiteAdminService) Get(ctx context.Context, id uuid.UUID) (*domain.OfficeSite, error) {
	return s.repo.Get(ctx, id)
}

func (s *SiteAdminService) Update(ctx context.Context, id uuid.UUID, req domain.UpdateSiteRequest) error {
	if err := validator.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}

	site, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if req.Name != nil {
		site.Name = strings.TrimSpace(*req.Name)
	}
	if req.Latitude != nil {
		site.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		site.Longitude = *req.Longitude
	}
	if req.RadiusMeters != nil {
		site.RadiusMeters = *req.RadiusMeters
	}
	if req.QRSecret != nil && *req.QRSecret != "" {
		site.QRSecret = *req.QRSecret
	}
	if req.Status != nil {
		site.Status = *req.Status
	}

	if err := s.repo.Update(ctx, site); err != nil {
		return err
	}
	s.refreshCache(ctx)
	return nil
}

func (s *SiteAdminService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshCache(ctx)
	return nil
}

// refreshCache rewrites the active-site cache after a change. A failure only
// costs a cache miss later, so it is logged and swallowed.
func (s *SiteAdminService) refreshCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := RefreshSiteCache(ctx, s.repo, s.cache, DefaultSiteCacheTTL); err != nil {
		s.logger.Warn("site cache refresh failed", slog.Any("error", err))
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Error("site cache invalidate failed", slog.Any("error", err))
		}
	}
}

// RefreshSiteCache loads active sites from repo into cache.
func RefreshSiteCache(ctx context.Context, repo SiteRepository, cache SiteCache, ttl time.Duration) error {
	active, err := repo.ListActive(ctx)
	if err != nil {
		return err
	}
	return cache.SetActive(ctx, toSites(active), ttl)
}

func toSites(src []*domain.OfficeSite) []domain.OfficeSite {
	out := make([]domain.OfficeSite, 0, len(src))
	for _, p := range src {
		out = append(out, *p)
	}
	return out
}
