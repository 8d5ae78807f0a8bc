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
)

const DayLayout = "2006-01-02"

type CheckInSubmitter struct {
	store  CheckInStore
	events EventQueue
	loc    *time.Location
	logger *slog.Logger
	now    func() time.Time
}

func NewCheckInSubmitter(store CheckInStore, events EventQueue, loc *time.Location, logger *slog.Logger) *CheckInSubmitter {
	if loc == nil {
		loc = time.UTC
	}
	return &CheckInSubmitter{
		store:  store,
		events: events,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// DayKey formats t as the calendar day in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// Submit validates attempt and records it once per employee per day.
//
// Rejections come back as *domain.CheckInError and are never stored. If the
// employee already has a record for the day, that record is returned as a
// success. Storage errors come back as ReasonStorageFailure and are safe to
// retry.
func (s *CheckInSubmitter) Submit(ctx context.Context, attempt domain.CheckInAttempt, site domain.OfficeSite) (*domain.CheckInRecord, error) {
	const op = "service.CheckInSubmitter.Submit"

	attempt.EmployeeID = strings.TrimSpace(attempt.EmployeeID)
	if attempt.EmployeeID == "" {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidEmployeeID)
	}
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = s.now()
	}

	outcome := Validate(attempt, site)
	if !outcome.Accepted {
		attrs := []any{
			slog.String("employee_id", attempt.EmployeeID),
			slog.String("site_id", site.ID.String()),
			slog.String("method", string(attempt.Method)),
			slog.String("reason", string(outcome.Reason)),
		}
		if outcome.DistanceMeters != nil {
			attrs = append(attrs, slog.Float64("distance_m", *outcome.DistanceMeters))
		}
		s.logger.Info("check-in rejected", attrs...)
		return nil, outcome.Err()
	}

	rec := &domain.CheckInRecord{
		ID:             uuid.New(),
		EmployeeID:     attempt.EmployeeID,
		SiteID:         site.ID,
		Method:         attempt.Method,
		DistanceMeters: outcome.DistanceMeters,
		Status:         domain.RecordAccepted,
		Day:            DayKey(attempt.AttemptedAt, s.loc),
		CreatedAt:      attempt.AttemptedAt.UTC(),
	}

	got, created, err := s.store.InsertDaily(ctx, rec)
	if err != nil {
		s.logger.Error("check-in store failed",
			slog.String("op", op),
			slog.String("employee_id", rec.EmployeeID),
			slog.String("day", rec.Day),
			slog.Any("error", err),
		)
		return nil, &domain.CheckInError{Reason: domain.ReasonStorageFailure, Err: err}
	}

	if !created {
		s.logger.Info("check-in already recorded",
			slog.String("employee_id", got.EmployeeID),
			slog.String("day", got.Day),
			slog.String("record_id", got.ID.String()),
		)
		return got, nil
	}

	s.logger.Info("check-in recorded",
		slog.String("employee_id", got.EmployeeID),
		slog.String("day", got.Day),
		slog.String("method", string(got.Method)),
		slog.String("record_id", got.ID.String()),
	)

	if s.events != nil {
		if err := s.events.Enqueue(ctx, domain.NewCheckInEvent(got)); err != nil {
			s.logger.Error("enqueue check-in event failed", slog.Any("error", err))
		}
	}
	return got, nil
}

// Today returns the employee's record for the current day, or e.ErrNotFound.
func (s *CheckInSubmitter) Today(ctx context.Context, employeeID string) (*domain.CheckInRecord, error) {
	return s.store.FindDaily(ctx, employeeID, DayKey(s.now(), s.loc))
}

func (s *CheckInSubmitter) Location() *time.Location { return s.loc }
