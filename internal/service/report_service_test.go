package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/service"
	mock_service "github.com/mpurwadi/tdi-main-app-employee-sub000/internal/service/mocks"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/storage/memory"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

func TestReportService_ExportDay(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	sub := service.NewCheckInSubmitter(store, nil, jakarta, discardLogger())
	at := time.Date(2025, 9, 15, 8, 5, 0, 0, jakarta)

	_, err := sub.Submit(context.Background(), qrAttempt("E-1", at), office())
	require.NoError(t, err)
	_, err = sub.Submit(context.Background(), qrAttempt("E-2", at.Add(time.Minute)), office())
	require.NoError(t, err)

	svc := service.NewReportService(store, jakarta, discardLogger())
	data, err := svc.ExportDay(context.Background(), "2025-09-15")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Check-ins")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Employee ID", rows[2][0])
	assert.ElementsMatch(t, []string{"E-1", "E-2"}, []string{rows[3][0], rows[4][0]})
}

func TestReportService_ExportDay_BadDay(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mock_service.NewMockCheckInStore(ctrl)
	store.EXPECT().ListDay(gomock.Any(), gomock.Any()).Times(0)

	svc := service.NewReportService(store, jakarta, discardLogger())
	_, err := svc.ExportDay(context.Background(), "2025/09/15")
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestReportService_ExportDay_StoreError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("query failed")
	store := mock_service.NewMockCheckInStore(ctrl)
	store.EXPECT().ListDay(gomock.Any(), "2025-09-15").Return(nil, boom).Times(1)

	svc := service.NewReportService(store, jakarta, discardLogger())
	_, err := svc.ExportDay(context.Background(), "2025-09-15")
	assert.ErrorIs(t, err, boom)
}
