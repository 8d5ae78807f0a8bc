package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
)

type SiteRepository interface {
	Create(ctx context.Context, site *domain.OfficeSite) error
	List(ctx context.Context, page, limit int) ([]*domain.OfficeSite, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.OfficeSite, error)
	Update(ctx context.Context, site *domain.OfficeSite) error
	Delete(ctx context.Context, id uuid.UUID) error // soft delete
	ListActive(ctx context.Context) ([]*domain.OfficeSite, error)
	Upsert(ctx context.Context, site *domain.OfficeSite) error
}

type CheckInRepository interface {
	InsertDaily(ctx context.Context, rec *domain.CheckInRecord) (*domain.CheckInRecord, bool, error)
	FindDaily(ctx context.Context, employeeID, day string) (*domain.CheckInRecord, error)
	ListDay(ctx context.Context, day string) ([]*domain.CheckInRecord, error)
}

type StatsRepository interface {
	CountDay(ctx context.Context, day string) (*domain.DailyStats, error)
}
