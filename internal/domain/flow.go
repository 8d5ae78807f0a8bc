package domain

import "time"

type FlowPhase string

const (
	PhaseIdle        FlowPhase = "idle"
	PhaseScanning    FlowPhase = "scanning"
	PhaseLocating    FlowPhase = "locating"
	PhaseValidating  FlowPhase = "validating"
	PhaseManualEntry FlowPhase = "manual_entry"
	PhaseSubmitting  FlowPhase = "submitting"
	PhaseSucceeded   FlowPhase = "succeeded"
	PhaseFailed      FlowPhase = "failed"
)

// Busy reports whether an attempt is in flight in this phase.
func (p FlowPhase) Busy() bool {
	switch p {
	case PhaseScanning, PhaseLocating, PhaseValidating, PhaseManualEntry, PhaseSubmitting:
		return true
	}
	return false
}

func (p FlowPhase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// FlowState is one step of a check-in flow as seen by the caller.
type FlowState struct {
	Phase          FlowPhase      `json:"phase"`
	Method         Method         `json:"method,omitempty"`
	Reason         Reason         `json:"reason,omitempty"`
	Message        string         `json:"message,omitempty"`
	DistanceMeters *float64       `json:"distance_meters,omitempty"`
	Record         *CheckInRecord `json:"record,omitempty"`
	At             time.Time      `json:"at"`
}

type FixRequest struct {
	Latitude       float64  `json:"latitude" validate:"lat"`
	Longitude      float64  `json:"longitude" validate:"lng"`
	AccuracyMeters *float64 `json:"accuracy_meters" validate:"omitempty,gte=0"`
	TimestampMs    int64    `json:"timestamp_ms" validate:"gte=0"`
}

// QRCheckInRequest carries what the browser already has: the decoded QR
// payload, either a location fix or the positioning error it got, and
// optionally what its permission API reported just before the attempt.
type QRCheckInRequest struct {
	Code        string              `json:"code" validate:"max=512"`
	Fix         *FixRequest         `json:"fix" validate:"omitempty"`
	LocateError LocateErrorCode     `json:"locate_error" validate:"omitempty,oneof=permission_denied position_unavailable timeout"`
	ScanError   string              `json:"scan_error" validate:"omitempty,oneof=permission_denied unavailable"`
	Permissions *PermissionsRequest `json:"permissions" validate:"omitempty"`
}

type ManualCheckInRequest struct {
	Code string `json:"code" validate:"required,max=512"`
}

type SwitchMethodRequest struct {
	Method Method `json:"method" validate:"required,oneof=qr manual"`
}

type CheckInResponse struct {
	States  []FlowState    `json:"states,omitempty"`
	Record  *CheckInRecord `json:"record,omitempty"`
	Reason  Reason         `json:"reason,omitempty"`
	Message string         `json:"message"`
	Retry   bool           `json:"retryable,omitempty"`
}
