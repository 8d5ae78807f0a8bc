package domain

import (
	"fmt"
	"time"
)

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies in latitude [-90,90] and
// longitude [-180,180]. NaN is never valid.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// LocationFix is a single position reading from the device. It is consumed
// to compute a distance and never stored as-is.
type LocationFix struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AccuracyMeters *float64  `json:"accuracy_meters,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

func (f LocationFix) Coordinate() Coordinate {
	return Coordinate{Latitude: f.Latitude, Longitude: f.Longitude}
}

// LocateErrorCode mirrors the three positioning failures a device reports.
type LocateErrorCode string

const (
	LocatePermissionDenied    LocateErrorCode = "permission_denied"
	LocatePositionUnavailable LocateErrorCode = "position_unavailable"
	LocateTimeout             LocateErrorCode = "timeout"
)

type LocateError struct {
	Code LocateErrorCode
	Err  error
}

func (e *LocateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("locate: %s: %v", e.Code, e.Err)
	}
	return "locate: " + string(e.Code)
}

func (e *LocateError) Unwrap() error { return e.Err }
