package service_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
)

const officeCode = "TDI_OFFICE_QR_CODE"

var officeID = uuid.MustParse("5b0f3c8e-6a52-4f0e-9a47-2f1d8f0c1a01")

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func f64ptr(v float64) *float64 { return &v }

func office() domain.OfficeSite {
	return domain.OfficeSite{
		ID:           officeID,
		Name:         "TDI Jakarta",
		Latitude:     -6.200000,
		Longitude:    106.816666,
		RadiusMeters: 100,
		QRSecret:     officeCode,
		Status:       domain.SiteActive,
	}
}

func fixAt(lat, lng float64) *domain.LocationFix {
	return &domain.LocationFix{Latitude: lat, Longitude: lng, AccuracyMeters: f64ptr(12)}
}

// staticResolver hands out the same site to every employee.
type staticResolver struct {
	site domain.OfficeSite
	err  error
}

func (r staticResolver) SiteFor(context.Context, string) (*domain.OfficeSite, error) {
	if r.err != nil {
		return nil, r.err
	}
	site := r.site
	return &site, nil
}
