package service

import (
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/geo"
)

// Validate decides whether attempt is a valid presence at site. It has no
// side effects.
//
// The code is always checked first, so a wrong code far away is reported as
// InvalidCode rather than OutOfRange. Manual attempts skip the location check
// entirely.
func Validate(attempt domain.CheckInAttempt, site domain.OfficeSite) domain.Outcome {
	if attempt.PresentedCode != site.QRSecret {
		return domain.Outcome{Reason: domain.ReasonInvalidCode}
	}

	if attempt.Method == domain.MethodManual {
		return domain.Outcome{Accepted: true}
	}

	if attempt.Fix == nil || !attempt.Fix.Coordinate().Valid() {
		return domain.Outcome{Reason: domain.ReasonLocationUnavailable}
	}

	inside, distance := geo.Within(site.Center(), attempt.Fix.Coordinate(), site.RadiusMeters)
	if !inside {
		return domain.Outcome{Reason: domain.ReasonOutOfRange, DistanceMeters: &distance}
	}
	return domain.Outcome{Accepted: true, DistanceMeters: &distance}
}
