package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/service"
)

func TestValidate_Scenarios(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		attempt  domain.CheckInAttempt
		accepted bool
		reason   domain.Reason
		distance *float64
	}{
		{
			name: "qr at the office",
			attempt: domain.CheckInAttempt{
				EmployeeID: "E-1", Method: domain.MethodQR, PresentedCode: officeCode,
				Fix: fixAt(-6.200000, 106.816666),
			},
			accepted: true,
			distance: f64ptr(0),
		},
		{
			name: "qr one thousandth degree north",
			attempt: domain.CheckInAttempt{
				EmployeeID: "E-1", Method: domain.MethodQR, PresentedCode: officeCode,
				Fix: fixAt(-6.201000, 106.816666),
			},
			reason:   domain.ReasonOutOfRange,
			distance: f64ptr(111.19),
		},
		{
			name: "qr wrong code",
			attempt: domain.CheckInAttempt{
				EmployeeID: "E-1", Method: domain.MethodQR, PresentedCode: "SOME_OTHER_CODE",
				Fix: fixAt(-6.200000, 106.816666),
			},
			reason: domain.ReasonInvalidCode,
		},
		{
			name: "manual right code",
			attempt: domain.CheckInAttempt{
				EmployeeID: "E-1", Method: domain.MethodManual, PresentedCode: officeCode,
			},
			accepted: true,
		},
		{
			name: "manual wrong code",
			attempt: domain.CheckInAttempt{
				EmployeeID: "E-1", Method: domain.MethodManual, PresentedCode: "tdi_office_qr_code",
			},
			reason: domain.ReasonInvalidCode,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := service.Validate(tc.attempt, office())
			assert.Equal(t, tc.accepted, got.Accepted)
			assert.Equal(t, tc.reason, got.Reason)
			if tc.distance == nil {
				assert.Nil(t, got.DistanceMeters)
				return
			}
			require.NotNil(t, got.DistanceMeters)
			assert.InDelta(t, *tc.distance, *got.DistanceMeters, 0.5)
		})
	}
}

func TestValidate_CodeCheckedBeforeDistance(t *testing.T) {
	t.Parallel()

	got := service.Validate(domain.CheckInAttempt{
		EmployeeID:    "E-1",
		Method:        domain.MethodQR,
		PresentedCode: "WRONG",
		Fix:           fixAt(55.75, 37.61),
	}, office())

	assert.False(t, got.Accepted)
	assert.Equal(t, domain.ReasonInvalidCode, got.Reason)
	assert.Nil(t, got.DistanceMeters)
}

func TestValidate_ManualIgnoresLocation(t *testing.T) {
	t.Parallel()

	got := service.Validate(domain.CheckInAttempt{
		EmployeeID:    "E-1",
		Method:        domain.MethodManual,
		PresentedCode: officeCode,
		Fix:           fixAt(55.75, 37.61),
	}, office())

	assert.True(t, got.Accepted)
	assert.Nil(t, got.DistanceMeters)
}

func TestValidate_QRWithoutFix(t *testing.T) {
	t.Parallel()

	got := service.Validate(domain.CheckInAttempt{
		EmployeeID:    "E-1",
		Method:        domain.MethodQR,
		PresentedCode: officeCode,
	}, office())

	assert.False(t, got.Accepted)
	assert.Equal(t, domain.ReasonLocationUnavailable, got.Reason)
}

func TestValidate_QRInvalidCoordinates(t *testing.T) {
	t.Parallel()

	got := service.Validate(domain.CheckInAttempt{
		EmployeeID:    "E-1",
		Method:        domain.MethodQR,
		PresentedCode: officeCode,
		Fix:           fixAt(91, 106.816666),
	}, office())

	assert.False(t, got.Accepted)
	assert.Equal(t, domain.ReasonLocationUnavailable, got.Reason)
}

func TestValidate_RadiusIsInclusive(t *testing.T) {
	t.Parallel()

	site := office()
	here := fixAt(-6.201000, 106.816666)

	out := service.Validate(domain.CheckInAttempt{
		EmployeeID: "E-1", Method: domain.MethodQR, PresentedCode: officeCode, Fix: here,
	}, site)
	require.NotNil(t, out.DistanceMeters)

	site.RadiusMeters = *out.DistanceMeters
	got := service.Validate(domain.CheckInAttempt{
		EmployeeID: "E-1", Method: domain.MethodQR, PresentedCode: officeCode, Fix: here,
	}, site)
	assert.True(t, got.Accepted, "a fix exactly on the boundary is inside")
}

func TestCheckInError_UserMessage(t *testing.T) {
	t.Parallel()

	out := service.Validate(domain.CheckInAttempt{
		EmployeeID: "E-1", Method: domain.MethodQR, PresentedCode: officeCode,
		Fix: fixAt(-6.201000, 106.816666),
	}, office())

	ce := out.Err()
	require.NotNil(t, ce)
	assert.Equal(t, "You are 111 meters away from the office.", ce.UserMessage())
	assert.True(t, ce.Reason.Retryable())
	assert.False(t, domain.ReasonCameraPermissionDenied.Retryable())
}
