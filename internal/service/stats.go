package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

type statsService struct {
	repo StatsRepository
	loc  *time.Location
	now  func() time.Time
}

func NewStatsService(repo StatsRepository, loc *time.Location) StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &statsService{repo: repo, loc: loc, now: time.Now}
}

func (s *statsService) GetStats(ctx context.Context, req domain.StatsRequest) (*domain.DailyStats, error) {
	day, err := resolveDay(req.Day, s.now(), s.loc)
	if err != nil {
		return nil, err
	}
	return s.repo.CountDay(ctx, day)
}

// resolveDay returns day when it is a valid YYYY-MM-DD, or today in loc
// when it is empty.
func resolveDay(day string, now time.Time, loc *time.Location) (string, error) {
	if day == "" {
		return DayKey(now, loc), nil
	}
	if _, err := time.ParseInLocation(DayLayout, day, loc); err != nil {
		return "", fmt.Errorf("day %q: %w", day, e.ErrInvalidInput)
	}
	return day, nil
}
