package admin_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/api/handlers/http/admin"
	mock_admin "github.com/mpurwadi/tdi-main-app-employee-sub000/internal/api/handlers/http/admin/mocks"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func addChiURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v, body=%s", err, rr.Body.String())
	}
	return out
}

type mocks struct {
	sites    *mock_admin.MockSites
	stats    *mock_admin.MockStatsGetter
	exporter *mock_admin.MockExporter
}

func newHandler(ctrl *gomock.Controller) (*admin.Handler, mocks) {
	m := mocks{
		sites:    mock_admin.NewMockSites(ctrl),
		stats:    mock_admin.NewMockStatsGetter(ctrl),
		exporter: mock_admin.NewMockExporter(ctrl),
	}
	return admin.NewHandler(newTestLogger(), m.sites, m.stats, m.exporter), m
}

func TestSiteCreate_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newHandler(ctrl)

	reqBody := `{"name":"HQ","latitude":-6.2,"longitude":106.816666,"radius_meters":100,"qr_secret":"TDI_OFFICE_QR_CODE"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sites/", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	wantID := uuid.New()
	m.sites.EXPECT().
		Create(gomock.Any(), domain.CreateSiteRequest{
			Name:         "HQ",
			Latitude:     -6.2,
			Longitude:    106.816666,
			RadiusMeters: 100,
			QRSecret:     "TDI_OFFICE_QR_CODE",
		}).
		Return(wantID, nil).
		Times(1)

	h.SiteCreate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d got %d, body=%s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	got := decodeJSON[map[string]string](t, rr)
	if got["id"] != wantID.String() {
		t.Fatalf("expected id=%s got=%s", wantID, got["id"])
	}
}

func TestSiteCreate_InvalidJSON_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newHandler(ctrl)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sites/", bytes.NewBufferString("{bad json"))
	rr := httptest.NewRecorder()

	h.SiteCreate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d, body=%s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
}

func TestSiteCreate_ServiceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("wrap: %w", e.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", e.ErrUniqueViolation), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		ctrl := gomock.NewController(t)
		h, m := newHandler(ctrl)

		m.sites.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uuid.Nil, tt.err).Times(1)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sites/", bytes.NewBufferString(`{"name":"x"}`))
		rr := httptest.NewRecorder()
		h.SiteCreate(rr, req)

		if rr.Code != tt.code {
			t.Fatalf("err=%v: expected %d got %d", tt.err, tt.code, rr.Code)
		}
		ctrl.Finish()
	}
}

func TestSiteList_LimitClampedTo100(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newHandler(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/sites/?page=2&limit=500", nil)
	rr := httptest.NewRecorder()

	m.sites.EXPECT().
		List(gomock.Any(), 2, 100).
		Return([]*domain.OfficeSite{}, int64(0), nil).
		Times(1)

	h.SiteList(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
	resp := decodeJSON[domain.ListSitesResponse](t, rr)
	if resp.Page != 2 || resp.Limit != 100 {
		t.Fatalf("unexpected pagination: %+v", resp)
	}
}

func TestSiteGet_HidesSecret(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newHandler(ctrl)

	id := uuid.New()
	m.sites.EXPECT().
		Get(gomock.Any(), id).
		Return(&domain.OfficeSite{ID: id, RadiusMeters: 100, QRSecret: "TDI_OFFICE_QR_CODE", Status: domain.SiteActive}, nil).
		Times(1)

	req := addChiURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/admin/sites/"+id.String(), nil), "id", id.String())
	rr := httptest.NewRecorder()
	h.SiteGet(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if bytes.Contains(rr.Body.Bytes(), []byte("TDI_OFFICE_QR_CODE")) {
		t.Fatalf("secret leaked in response: %s", rr.Body.String())
	}
}

func TestSiteGet_InvalidID_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newHandler(ctrl)

	req := addChiURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/admin/sites/bad", nil), "id", "not-a-uuid")
	rr := httptest.NewRecorder()
	h.SiteGet(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d body=%s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
}

func TestSiteDelete_NotFound_404(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newHandler(ctrl)

	id := uuid.New()
	m.sites.EXPECT().Delete(gomock.Any(), id).Return(fmt.Errorf("x: %w", e.ErrNotFound)).Times(1)

	req := addChiURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/sites/"+id.String(), nil), "id", id.String())
	rr := httptest.NewRecorder()
	h.SiteDelete(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected %d got %d body=%s", http.StatusNotFound, rr.Code, rr.Body.String())
	}
}

func TestSiteUpdate_NoContent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newHandler(ctrl)

	id := uuid.New()
	m.sites.EXPECT().
		Update(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, req domain.UpdateSiteRequest) error {
			if req.RadiusMeters == nil || *req.RadiusMeters != 150 {
				t.Errorf("unexpected radius in update: %v", req.RadiusMeters)
			}
			return nil
		}).
		Times(1)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/sites/"+id.String(), bytes.NewBufferString(`{"radius_meters":150}`))
	req = addChiURLParam(req, "id", id.String())
	rr := httptest.NewRecorder()
	h.SiteUpdate(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected %d got %d body=%s", http.StatusNoContent, rr.Code, rr.Body.String())
	}
}

func TestAdminStats_Day(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newHandler(ctrl)

	m.stats.EXPECT().
		GetStats(gomock.Any(), domain.StatsRequest{Day: "2025-09-15"}).
		Return(&domain.DailyStats{Day: "2025-09-15", Employees: 4, QRCount: 3, ManualCount: 1}, nil).
		Times(1)

	rr := httptest.NewRecorder()
	h.AdminStats(rr, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats?day=2025-09-15", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
	got := decodeJSON[domain.DailyStats](t, rr)
	if got.Employees != 4 || got.QRCount != 3 || got.ManualCount != 1 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestAdminStats_BadDay_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newHandler(ctrl)

	rr := httptest.NewRecorder()
	h.AdminStats(rr, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats?day=15-09-2025", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d body=%s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
}

func TestExportCheckIns_Attachment(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newHandler(ctrl)

	m.exporter.EXPECT().ExportDay(gomock.Any(), "2025-09-15").Return([]byte("PK-xlsx"), nil).Times(1)

	rr := httptest.NewRecorder()
	h.ExportCheckIns(rr, httptest.NewRequest(http.MethodGet, "/api/v1/admin/checkins/export?day=2025-09-15", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="checkins-2025-09-15.xlsx"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if rr.Body.String() != "PK-xlsx" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}
