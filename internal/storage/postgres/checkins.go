package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

const dayLayout = "2006-01-02"

type CheckIns struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCheckIns(pool *pgxpool.Pool, logger *slog.Logger) *CheckIns {
	return &CheckIns{pool: pool, logger: logger}
}

const recordColumns = `id, employee_id, site_id, method, distance_m, status, reject_reason, check_in_day::text, created_at`

func scanRecord(row pgx.Row) (*domain.CheckInRecord, error) {
	var (
		r      domain.CheckInRecord
		reason *string
	)
	if err := row.Scan(
		&r.ID,
		&r.EmployeeID,
		&r.SiteID,
		&r.Method,
		&r.DistanceMeters,
		&r.Status,
		&reason,
		&r.Day,
		&r.CreatedAt,
	); err != nil {
		return nil, err
	}
	if reason != nil {
		rr := domain.Reason(*reason)
		r.RejectReason = &rr
	}
	return &r, nil
}

func parseDay(op, day string) (time.Time, error) {
	d, err := time.Parse(dayLayout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: day %q: %w", op, day, e.ErrInvalidInput)
	}
	return d, nil
}

// InsertDaily stores rec unless the employee already has an accepted record
// for rec.Day, in which case the stored record is returned with created=false.
// The partial unique index makes concurrent inserts for the same key collapse
// into one row.
func (p *CheckIns) InsertDaily(ctx context.Context, rec *domain.CheckInRecord) (*domain.CheckInRecord, bool, error) {
	const op = "postgres.CheckIn.InsertDaily"

	if rec == nil || strings.TrimSpace(rec.EmployeeID) == "" {
		return nil, false, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	day, err := parseDay(op, rec.Day)
	if err != nil {
		return nil, false, err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Status == "" {
		rec.Status = domain.RecordAccepted
	}

	var reason *string
	if rec.RejectReason != nil {
		s := string(*rec.RejectReason)
		reason = &s
	}

	const query = `
		INSERT INTO checkin_records (id, employee_id, site_id, method, distance_m, status, reject_reason, check_in_day, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, check_in_day) WHERE status = 'accepted' DO NOTHING
		RETURNING ` + recordColumns

	got, err := scanRecord(p.pool.QueryRow(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.SiteID,
		rec.Method,
		rec.DistanceMeters,
		rec.Status,
		reason,
		day,
		rec.CreatedAt,
	))
	if err == nil {
		return got, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		p.logger.Error("db insert failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("employee_id", rec.EmployeeID),
			slog.String("day", rec.Day),
		)
		return nil, false, e.WrapError(ctx, op, err)
	}

	// Conflict: the row was committed by an earlier statement, so a fresh
	// statement sees it.
	existing, err := p.FindDaily(ctx, rec.EmployeeID, rec.Day)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (p *CheckIns) FindDaily(ctx context.Context, employeeID, day string) (*domain.CheckInRecord, error) {
	const op = "postgres.CheckIn.FindDaily"

	d, err := parseDay(op, day)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT ` + recordColumns + `
		FROM checkin_records
		WHERE employee_id = $1 AND check_in_day = $2 AND status = 'accepted'
	`

	r, err := scanRecord(p.pool.QueryRow(ctx, query, employeeID, d))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("employee_id", employeeID))
		return nil, e.WrapError(ctx, op, err)
	}
	return r, nil
}

func (p *CheckIns) ListDay(ctx context.Context, day string) ([]*domain.CheckInRecord, error) {
	const op = "postgres.CheckIn.ListDay"

	d, err := parseDay(op, day)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT ` + recordColumns + `
		FROM checkin_records
		WHERE check_in_day = $1
		ORDER BY created_at ASC
	`

	rows, err := p.pool.Query(ctx, query, d)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var records []*domain.CheckInRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return records, nil
}
