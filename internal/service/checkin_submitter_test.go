package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/service"
	mock_service "github.com/mpurwadi/tdi-main-app-employee-sub000/internal/service/mocks"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/storage/memory"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

var jakarta = time.FixedZone("WIB", 7*3600)

func qrAttempt(employeeID string, at time.Time) domain.CheckInAttempt {
	return domain.CheckInAttempt{
		EmployeeID:    employeeID,
		Method:        domain.MethodQR,
		PresentedCode: officeCode,
		Fix:           fixAt(-6.200300, 106.816666),
		AttemptedAt:   at,
	}
}

func TestCheckInSubmitter_Submit_OncePerDay(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	sub := service.NewCheckInSubmitter(store, nil, jakarta, discardLogger())
	ctx := context.Background()
	morning := time.Date(2025, 9, 15, 8, 0, 0, 0, jakarta)

	first, err := sub.Submit(ctx, qrAttempt("E-1", morning), office())
	require.NoError(t, err)
	assert.Equal(t, "2025-09-15", first.Day)
	assert.Equal(t, domain.RecordAccepted, first.Status)
	require.NotNil(t, first.DistanceMeters)
	assert.InDelta(t, 33.4, *first.DistanceMeters, 0.5)

	manual := domain.CheckInAttempt{
		EmployeeID:    "E-1",
		Method:        domain.MethodManual,
		PresentedCode: officeCode,
		AttemptedAt:   morning.Add(2 * time.Hour),
	}
	second, err := sub.Submit(ctx, manual, office())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.MethodQR, second.Method)

	nextDay, err := sub.Submit(ctx, qrAttempt("E-1", morning.Add(24*time.Hour)), office())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, nextDay.ID)
	assert.Equal(t, "2025-09-16", nextDay.Day)
}

func TestCheckInSubmitter_Submit_DayUsesLocation(t *testing.T) {
	t.Parallel()

	sub := service.NewCheckInSubmitter(memory.NewStore(), nil, jakarta, discardLogger())

	// 23:30 UTC is already the next morning in Jakarta.
	at := time.Date(2025, 9, 15, 23, 30, 0, 0, time.UTC)
	rec, err := sub.Submit(context.Background(), qrAttempt("E-1", at), office())
	require.NoError(t, err)
	assert.Equal(t, "2025-09-16", rec.Day)
}

func TestCheckInSubmitter_Submit_RejectionNotStored(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	sub := service.NewCheckInSubmitter(store, nil, jakarta, discardLogger())
	ctx := context.Background()
	at := time.Date(2025, 9, 15, 8, 0, 0, 0, jakarta)

	attempt := qrAttempt("E-1", at)
	attempt.Fix = fixAt(-6.201000, 106.816666)

	_, err := sub.Submit(ctx, attempt, office())
	var ce *domain.CheckInError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, domain.ReasonOutOfRange, ce.Reason)
	require.NotNil(t, ce.DistanceMeters)
	assert.InDelta(t, 111.19, *ce.DistanceMeters, 0.5)

	_, err = store.FindDaily(ctx, "E-1", "2025-09-15")
	assert.ErrorIs(t, err, e.ErrNotFound)

	rec, err := sub.Submit(ctx, qrAttempt("E-1", at.Add(time.Minute)), office())
	require.NoError(t, err, "a rejection does not block a later valid attempt")
	assert.Equal(t, "2025-09-15", rec.Day)
}

func TestCheckInSubmitter_Submit_BlankEmployee(t *testing.T) {
	t.Parallel()

	sub := service.NewCheckInSubmitter(memory.NewStore(), nil, jakarta, discardLogger())

	_, err := sub.Submit(context.Background(), qrAttempt("   ", time.Now()), office())
	assert.ErrorIs(t, err, e.ErrInvalidEmployeeID)
}

func TestCheckInSubmitter_Submit_Concurrent(t *testing.T) {
	t.Parallel()

	sub := service.NewCheckInSubmitter(memory.NewStore(), nil, jakarta, discardLogger())
	at := time.Date(2025, 9, 15, 8, 0, 0, 0, jakarta)

	const n = 20
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := sub.Submit(context.Background(), qrAttempt("E-1", at), office())
			if err == nil {
				ids <- rec.ID.String()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]struct{}{}
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1)
}

func TestCheckInSubmitter_Submit_StorageFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mock_service.NewMockCheckInStore(ctrl)
	events := mock_service.NewMockEventQueue(ctrl)
	boom := errors.New("connection reset")

	store.EXPECT().
		InsertDaily(gomock.Any(), gomock.Any()).
		Return(nil, false, boom).
		Times(1)
	events.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Times(0)

	sub := service.NewCheckInSubmitter(store, events, jakarta, discardLogger())
	_, err := sub.Submit(context.Background(), qrAttempt("E-1", time.Now()), office())

	var ce *domain.CheckInError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CheckInError, got %v", err)
	}
	if ce.Reason != domain.ReasonStorageFailure {
		t.Fatalf("expected storage_failure, got %s", ce.Reason)
	}
	if !ce.Reason.Retryable() {
		t.Fatalf("storage failure must be retryable")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to be kept, got %v", err)
	}
}

func TestCheckInSubmitter_Submit_PublishesOnlyNewRecords(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := mock_service.NewMockEventQueue(ctrl)
	var got domain.CheckInEvent
	events.EXPECT().
		Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev domain.CheckInEvent) error {
			got = ev
			return nil
		}).
		Times(1)

	sub := service.NewCheckInSubmitter(memory.NewStore(), events, jakarta, discardLogger())
	at := time.Date(2025, 9, 15, 8, 0, 0, 0, jakarta)

	rec, err := sub.Submit(context.Background(), qrAttempt("E-1", at), office())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := sub.Submit(context.Background(), qrAttempt("E-1", at.Add(time.Hour)), office()); err != nil {
		t.Fatalf("unexpected err on repeat: %v", err)
	}

	if got.RecordID != rec.ID || got.EmployeeID != "E-1" || got.Day != "2025-09-15" {
		t.Fatalf("unexpected event: %+v", got)
	}
}

func TestCheckInSubmitter_Submit_EnqueueFailureKeepsRecord(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := mock_service.NewMockEventQueue(ctrl)
	events.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(errors.New("redis down")).Times(1)

	store := memory.NewStore()
	sub := service.NewCheckInSubmitter(store, events, jakarta, discardLogger())
	at := time.Date(2025, 9, 15, 8, 0, 0, 0, jakarta)

	rec, err := sub.Submit(context.Background(), qrAttempt("E-1", at), office())
	require.NoError(t, err)

	stored, err := store.FindDaily(context.Background(), "E-1", "2025-09-15")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, stored.ID)
}

func TestCheckInSubmitter_Today(t *testing.T) {
	t.Parallel()

	sub := service.NewCheckInSubmitter(memory.NewStore(), nil, jakarta, discardLogger())
	ctx := context.Background()

	_, err := sub.Today(ctx, "E-1")
	assert.ErrorIs(t, err, e.ErrNotFound)

	rec, err := sub.Submit(ctx, qrAttempt("E-1", time.Time{}), office())
	require.NoError(t, err)

	today, err := sub.Today(ctx, "E-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, today.ID)
}
