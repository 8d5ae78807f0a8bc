package service

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/report"
)

type reportService struct {
	store  CheckInStore
	loc    *time.Location
	logger *slog.Logger
	now    func() time.Time
}

func NewReportService(store CheckInStore, loc *time.Location, logger *slog.Logger) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{store: store, loc: loc, logger: logger, now: time.Now}
}

func (s *reportService) ExportDay(ctx context.Context, day string) ([]byte, error) {
	day, err := resolveDay(day, s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	records, err := s.store.ListDay(ctx, day)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := report.WriteDailyCheckIns(&buf, day, records, s.loc); err != nil {
		return nil, err
	}
	s.logger.Info("daily export built", slog.String("day", day), slog.Int("rows", len(records)))
	return buf.Bytes(), nil
}
