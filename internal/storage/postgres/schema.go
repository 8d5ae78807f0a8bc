package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

// Only accepted records take part in the one-per-day key.
const schema = `
CREATE TABLE IF NOT EXISTS office_sites (
	id         uuid PRIMARY KEY,
	name       text NOT NULL DEFAULT '',
	lat        double precision NOT NULL CHECK (lat BETWEEN -90 AND 90),
	lng        double precision NOT NULL CHECK (lng BETWEEN -180 AND 180),
	radius_m   double precision NOT NULL CHECK (radius_m > 0),
	qr_secret  text NOT NULL,
	status     text NOT NULL DEFAULT 'active',
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS checkin_records (
	id            uuid PRIMARY KEY,
	employee_id   text NOT NULL,
	site_id       uuid NOT NULL REFERENCES office_sites (id),
	method        text NOT NULL CHECK (method IN ('qr', 'manual')),
	distance_m    double precision,
	status        text NOT NULL CHECK (status IN ('accepted', 'rejected')),
	reject_reason text,
	check_in_day  date NOT NULL,
	created_at    timestamptz NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS checkin_records_employee_day_accepted
	ON checkin_records (employee_id, check_in_day)
	WHERE status = 'accepted';

CREATE INDEX IF NOT EXISTS checkin_records_day_idx
	ON checkin_records (check_in_day);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const op = "postgres.Migrate"
	if _, err := pool.Exec(ctx, schema); err != nil {
		return e.WrapError(ctx, op, err)
	}
	return nil
}
