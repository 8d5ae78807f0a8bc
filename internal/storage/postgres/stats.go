package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

type StatsRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewStats(pool *pgxpool.Pool, logger *slog.Logger) *StatsRepo {
	return &StatsRepo{pool: pool, logger: logger}
}

func (p *StatsRepo) CountDay(ctx context.Context, day string) (*domain.DailyStats, error) {
	const op = "postgres.Stats.CountDay"

	d, err := parseDay(op, day)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT COUNT(DISTINCT employee_id),
			   COUNT(*) FILTER (WHERE method = 'qr'),
			   COUNT(*) FILTER (WHERE method = 'manual')
		FROM checkin_records
		WHERE check_in_day = $1 AND status = 'accepted'
	`

	st := &domain.DailyStats{Day: day}
	if err := p.pool.QueryRow(ctx, query, d).Scan(&st.Employees, &st.QRCount, &st.ManualCount); err != nil {
		p.logger.Error("db queryrow scan failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("day", day),
		)
		return nil, e.WrapError(ctx, op, err)
	}

	return st, nil
}
