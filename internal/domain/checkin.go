package domain

import (
	"time"

	"github.com/google/uuid"
)

type Method string

const (
	MethodQR     Method = "qr"
	MethodManual Method = "manual"
)

type RecordStatus string

const (
	RecordAccepted RecordStatus = "accepted"
	RecordRejected RecordStatus = "rejected"
)

// CheckInAttempt lives for one validate/submit cycle. Fix is nil for the
// manual method.
type CheckInAttempt struct {
	EmployeeID    string
	Method        Method
	PresentedCode string
	Fix           *LocationFix
	AttemptedAt   time.Time
}

// CheckInRecord is the durable result of an accepted attempt. Day is the
// calendar day (YYYY-MM-DD) the uniqueness key is built from.
type CheckInRecord struct {
	ID             uuid.UUID    `json:"id"`
	EmployeeID     string       `json:"employee_id"`
	SiteID         uuid.UUID    `json:"site_id"`
	Method         Method       `json:"method"`
	DistanceMeters *float64     `json:"distance_meters,omitempty"`
	Status         RecordStatus `json:"status"`
	RejectReason   *Reason      `json:"reject_reason,omitempty"`
	Day            string       `json:"day"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Outcome is the validator's decision.
type Outcome struct {
	Accepted       bool
	Reason         Reason
	DistanceMeters *float64
}

func (o Outcome) Err() *CheckInError {
	if o.Accepted {
		return nil
	}
	return &CheckInError{Reason: o.Reason, DistanceMeters: o.DistanceMeters}
}

// CheckInEvent is published once per newly created record.
type CheckInEvent struct {
	RecordID       uuid.UUID `json:"record_id"`
	EmployeeID     string    `json:"employee_id"`
	SiteID         uuid.UUID `json:"site_id"`
	Method         Method    `json:"method"`
	DistanceMeters *float64  `json:"distance_meters,omitempty"`
	Day            string    `json:"day"`
	CheckedInAt    time.Time `json:"checked_in_at"`
}

func NewCheckInEvent(r *CheckInRecord) CheckInEvent {
	return CheckInEvent{
		RecordID:       r.ID,
		EmployeeID:     r.EmployeeID,
		SiteID:         r.SiteID,
		Method:         r.Method,
		DistanceMeters: r.DistanceMeters,
		Day:            r.Day,
		CheckedInAt:    r.CreatedAt,
	}
}
