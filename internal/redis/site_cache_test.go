package redis

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
)

func TestEncodeDecodeSites_KeepsSecret(t *testing.T) {
	t.Parallel()

	site := domain.OfficeSite{
		ID:           uuid.New(),
		Name:         "Jakarta HQ",
		Latitude:     -6.2,
		Longitude:    106.816666,
		RadiusMeters: 100,
		QRSecret:     "TDI_OFFICE_QR_CODE",
		Status:       domain.SiteActive,
		CreatedAt:    time.Date(2025, 9, 15, 1, 0, 0, 0, time.UTC),
	}

	b, err := encodeSites([]domain.OfficeSite{site})
	require.NoError(t, err)

	got, err := decodeSites(b)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, site, got[0])
}

func TestDecodeSites_Garbage(t *testing.T) {
	t.Parallel()

	_, err := decodeSites([]byte("{not json"))
	assert.Error(t, err)
}
