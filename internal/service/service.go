package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type SiteService interface {
	Create(ctx context.Context, req domain.CreateSiteRequest) (uuid.UUID, error)
	List(ctx context.Context, page, limit int) ([]*domain.OfficeSite, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.OfficeSite, error)
	Update(ctx context.Context, id uuid.UUID, req domain.UpdateSiteRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SiteRepository interface {
	Create(ctx context.Context, site *domain.OfficeSite) error
	List(ctx context.Context, page, limit int) ([]*domain.OfficeSite, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.OfficeSite, error)
	Update(ctx context.Context, site *domain.OfficeSite) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context) ([]*domain.OfficeSite, error)
}

// CheckInStore persists accepted records. InsertDaily must be atomic per
// (employee, day): when a record already exists it returns that record and
// created=false instead of writing.
type CheckInStore interface {
	InsertDaily(ctx context.Context, rec *domain.CheckInRecord) (*domain.CheckInRecord, bool, error)
	FindDaily(ctx context.Context, employeeID, day string) (*domain.CheckInRecord, error)
	ListDay(ctx context.Context, day string) ([]*domain.CheckInRecord, error)
}

type SiteCache interface {
	GetActive(ctx context.Context) ([]domain.OfficeSite, error)
	SetActive(ctx context.Context, sites []domain.OfficeSite, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type EventQueue interface {
	Enqueue(ctx context.Context, ev domain.CheckInEvent) error
}

type StatsRepository interface {
	CountDay(ctx context.Context, day string) (*domain.DailyStats, error)
}

type StatsService interface {
	GetStats(ctx context.Context, req domain.StatsRequest) (*domain.DailyStats, error)
}

type ReportService interface {
	ExportDay(ctx context.Context, day string) ([]byte, error)
}

type Service struct {
	SiteService   SiteService
	StatsService  StatsService
	ReportService ReportService
	CheckIn       *CheckInFlow
}

func NewService(
	siteService SiteService,
	statsService StatsService,
	reportService ReportService,
	checkIn *CheckInFlow,
) *Service {
	return &Service{
		SiteService:   siteService,
		StatsService:  statsService,
		ReportService: reportService,
		CheckIn:       checkIn,
	}
}

func (s *Service) GetStats(ctx context.Context, req domain.StatsRequest) (*domain.DailyStats, error) {
	return s.StatsService.GetStats(ctx, req)
}

func (s *Service) ExportDay(ctx context.Context, day string) ([]byte, error) {
	return s.ReportService.ExportDay(ctx, day)
}
