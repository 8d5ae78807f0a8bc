package domain

import (
	"fmt"
	"math"
)

// Reason classifies why a check-in attempt did not succeed.
type Reason string

const (
	ReasonCameraPermissionDenied   Reason = "camera_permission_denied"
	ReasonLocationPermissionDenied Reason = "location_permission_denied"
	ReasonInvalidCode              Reason = "invalid_code"
	ReasonLocationUnavailable      Reason = "location_unavailable"
	ReasonTimeout                  Reason = "timeout"
	ReasonOutOfRange               Reason = "out_of_range"
	ReasonStorageFailure           Reason = "storage_failure"
	ReasonScannerUnavailable       Reason = "scanner_unavailable"
	ReasonAttemptInProgress        Reason = "attempt_in_progress"
)

var reasonMessages = map[Reason]string{
	ReasonCameraPermissionDenied:   "Camera access is blocked. Allow camera access in your browser settings or use the office code instead.",
	ReasonLocationPermissionDenied: "Location access is blocked. Allow location access in your browser settings and try again.",
	ReasonInvalidCode:              "The code does not match this office. Check it and try again.",
	ReasonLocationUnavailable:      "Your location could not be determined. Make sure location services are on and try again.",
	ReasonTimeout:                  "Getting your location took too long. Try again.",
	ReasonOutOfRange:               "You are outside the office area.",
	ReasonStorageFailure:           "Your check-in could not be saved. Try again.",
	ReasonScannerUnavailable:       "The camera could not be started. Try again or use the office code instead.",
	ReasonAttemptInProgress:        "A check-in is already being processed.",
}

// Message is the user-facing text for the reason.
func (r Reason) Message() string {
	if m, ok := reasonMessages[r]; ok {
		return m
	}
	return "Check-in failed."
}

// Retryable reports whether trying again without changing settings can
// succeed. Permission denials need user action first.
func (r Reason) Retryable() bool {
	switch r {
	case ReasonCameraPermissionDenied, ReasonLocationPermissionDenied:
		return false
	default:
		return true
	}
}

// CheckInError is the typed failure returned by the check-in core.
// DistanceMeters is set only for ReasonOutOfRange.
type CheckInError struct {
	Reason         Reason
	DistanceMeters *float64
	Err            error
}

func (e *CheckInError) Error() string {
	msg := "check-in rejected: " + string(e.Reason)
	if e.DistanceMeters != nil {
		msg = fmt.Sprintf("%s (%.1f m)", msg, *e.DistanceMeters)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CheckInError) Unwrap() error { return e.Err }

// UserMessage renders the reason for display, including the distance on
// out-of-range rejections.
func (e *CheckInError) UserMessage() string {
	if e.Reason == ReasonOutOfRange && e.DistanceMeters != nil {
		return fmt.Sprintf("You are %d meters away from the office.", int(math.Round(*e.DistanceMeters)))
	}
	return e.Reason.Message()
}

func NewCheckInError(reason Reason) *CheckInError {
	return &CheckInError{Reason: reason}
}
