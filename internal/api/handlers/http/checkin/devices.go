package checkin

import (
	"context"
	"errors"
	"time"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/service"
)

var errScannerUnavailable = errors.New("qr: scanner unavailable")

// requestScanner replays the payload the browser already decoded.
type requestScanner struct {
	code    string
	scanErr string
}

func (s requestScanner) Scan(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch s.scanErr {
	case "":
		return s.code, nil
	case "permission_denied":
		return "", service.ErrCameraDenied
	default:
		return "", errScannerUnavailable
	}
}

// requestLocator replays the fix, or the positioning error, the browser got.
type requestLocator struct {
	fix       *domain.FixRequest
	locateErr domain.LocateErrorCode
	now       func() time.Time
}

func (l requestLocator) GetFix(ctx context.Context, _ time.Duration) (domain.LocationFix, error) {
	if err := ctx.Err(); err != nil {
		return domain.LocationFix{}, err
	}
	if l.locateErr != "" {
		return domain.LocationFix{}, &domain.LocateError{Code: l.locateErr}
	}
	if l.fix == nil {
		return domain.LocationFix{}, &domain.LocateError{Code: domain.LocatePositionUnavailable}
	}

	ts := l.now()
	if l.fix.TimestampMs > 0 {
		ts = time.UnixMilli(l.fix.TimestampMs)
	}
	return domain.LocationFix{
		Latitude:       l.fix.Latitude,
		Longitude:      l.fix.Longitude,
		AccuracyMeters: l.fix.AccuracyMeters,
		Timestamp:      ts,
	}, nil
}

func devicesFor(req domain.QRCheckInRequest) service.Devices {
	return service.Devices{
		Scanner: requestScanner{code: req.Code, scanErr: req.ScanError},
		Locator: requestLocator{fix: req.Fix, locateErr: req.LocateError, now: time.Now},
	}
}

// requestPermissions reports the authorization state the browser sent.
// Empty fields mean the browser could not tell.
type requestPermissions domain.PermissionsRequest

func (p requestPermissions) QueryPermissions(ctx context.Context) (domain.Permissions, error) {
	if err := ctx.Err(); err != nil {
		return domain.Permissions{}, err
	}
	return domain.Permissions{Camera: p.Camera, Location: p.Location}, nil
}
