package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

type Sites struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewSites(pool *pgxpool.Pool, logger *slog.Logger) *Sites {
	return &Sites{pool: pool, logger: logger}
}

const siteColumns = `id, name, lat, lng, radius_m, qr_secret, status, created_at`

func scanSite(row pgx.Row) (*domain.OfficeSite, error) {
	var s domain.OfficeSite
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Latitude,
		&s.Longitude,
		&s.RadiusMeters,
		&s.QRSecret,
		&s.Status,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *Sites) Create(ctx context.Context, site *domain.OfficeSite) error {
	const op = "postgres.Site.Create"

	const query = `
		INSERT INTO office_sites (` + siteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if site.ID == uuid.Nil {
		site.ID = uuid.New()
	}
	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now().UTC()
	}
	if site.Status == "" {
		site.Status = domain.SiteActive
	}

	_, err := p.pool.Exec(ctx, query,
		site.ID,
		site.Name,
		site.Latitude,
		site.Longitude,
		site.RadiusMeters,
		site.QRSecret,
		site.Status,
		site.CreatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

// Upsert writes site as-is, replacing any row with the same id.
func (p *Sites) Upsert(ctx context.Context, site *domain.OfficeSite) error {
	const op = "postgres.Site.Upsert"

	const query = `
		INSERT INTO office_sites (` + siteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET name      = EXCLUDED.name,
			lat       = EXCLUDED.lat,
			lng       = EXCLUDED.lng,
			radius_m  = EXCLUDED.radius_m,
			qr_secret = EXCLUDED.qr_secret,
			status    = EXCLUDED.status
	`

	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now().UTC()
	}
	if site.Status == "" {
		site.Status = domain.SiteActive
	}

	_, err := p.pool.Exec(ctx, query,
		site.ID,
		site.Name,
		site.Latitude,
		site.Longitude,
		site.RadiusMeters,
		site.QRSecret,
		site.Status,
		site.CreatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", site.ID.String()))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (p *Sites) List(ctx context.Context, page, limit int) ([]*domain.OfficeSite, int64, error) {
	const op = "postgres.Site.List"

	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	const countQuery = `SELECT COUNT(*) FROM office_sites WHERE status = 'active'`

	var total int64
	if err := p.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		p.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	const listQuery = `
		SELECT ` + siteColumns + `
		FROM office_sites
		WHERE status = 'active'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := p.pool.Query(ctx, listQuery, limit, offset)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var sites []*domain.OfficeSite
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, 0, e.WrapError(ctx, op, err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	return sites, total, nil
}

func (p *Sites) Get(ctx context.Context, id uuid.UUID) (*domain.OfficeSite, error) {
	const op = "postgres.Site.Get"

	const query = `
		SELECT ` + siteColumns + `
		FROM office_sites
		WHERE id = $1
	`

	s, err := scanSite(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return s, nil
}

func (p *Sites) Update(ctx context.Context, site *domain.OfficeSite) error {
	const op = "postgres.Site.Update"

	const query = `
		UPDATE office_sites
		SET name      = $2,
			lat       = $3,
			lng       = $4,
			radius_m  = $5,
			qr_secret = $6,
			status    = $7
		WHERE id = $1
	`

	cmd, err := p.pool.Exec(ctx, query,
		site.ID,
		site.Name,
		site.Latitude,
		site.Longitude,
		site.RadiusMeters,
		site.QRSecret,
		site.Status,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", site.ID.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func (p *Sites) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.Site.Delete"

	const query = `
		UPDATE office_sites
		SET status = 'inactive'
		WHERE id = $1 AND status = 'active'
	`

	cmd, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func (p *Sites) ListActive(ctx context.Context) ([]*domain.OfficeSite, error) {
	const op = "postgres.Site.ListActive"

	const query = `
		SELECT ` + siteColumns + `
		FROM office_sites
		WHERE status = 'active'
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var sites []*domain.OfficeSite
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return sites, nil
}
