package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/service"
	mock_service "github.com/mpurwadi/tdi-main-app-employee-sub000/internal/service/mocks"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

func TestStatsService_GetStats_ExplicitDay(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockStatsRepository(ctrl)
	want := &domain.DailyStats{Day: "2025-09-15", Employees: 3, QRCount: 2, ManualCount: 1}
	repo.EXPECT().CountDay(gomock.Any(), "2025-09-15").Return(want, nil).Times(1)

	svc := service.NewStatsService(repo, jakarta)
	got, err := svc.GetStats(context.Background(), domain.StatsRequest{Day: "2025-09-15"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if *got != *want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestStatsService_GetStats_DefaultsToToday(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockStatsRepository(ctrl)
	var asked string
	repo.EXPECT().
		CountDay(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, day string) (*domain.DailyStats, error) {
			asked = day
			return &domain.DailyStats{Day: day}, nil
		}).
		Times(1)

	svc := service.NewStatsService(repo, jakarta)
	if _, err := svc.GetStats(context.Background(), domain.StatsRequest{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := time.Parse(service.DayLayout, asked); err != nil {
		t.Fatalf("expected a YYYY-MM-DD day, got %q", asked)
	}
}

func TestStatsService_GetStats_BadDay(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockStatsRepository(ctrl)
	repo.EXPECT().CountDay(gomock.Any(), gomock.Any()).Times(0)

	svc := service.NewStatsService(repo, jakarta)
	for _, day := range []string{"15-09-2025", "2025-13-01", "yesterday"} {
		_, err := svc.GetStats(context.Background(), domain.StatsRequest{Day: day})
		if !errors.Is(err, e.ErrInvalidInput) {
			t.Fatalf("day %q: expected ErrInvalidInput, got %v", day, err)
		}
	}
}

func TestStatsService_GetStats_RepoError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockStatsRepository(ctrl)
	repo.EXPECT().CountDay(gomock.Any(), gomock.Any()).Return(nil, e.ErrDeadline).Times(1)

	svc := service.NewStatsService(repo, jakarta)
	_, err := svc.GetStats(context.Background(), domain.StatsRequest{Day: "2025-09-15"})
	if !errors.Is(err, e.ErrDeadline) {
		t.Fatalf("expected ErrDeadline, got %v", err)
	}
}
