package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/validator"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Sites interface {
	Create(ctx context.Context, req domain.CreateSiteRequest) (uuid.UUID, error)
	List(ctx context.Context, page, limit int) ([]*domain.OfficeSite, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.OfficeSite, error)
	Update(ctx context.Context, id uuid.UUID, req domain.UpdateSiteRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type StatsGetter interface {
	GetStats(ctx context.Context, req domain.StatsRequest) (*domain.DailyStats, error)
}

type Exporter interface {
	ExportDay(ctx context.Context, day string) ([]byte, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	logger   *slog.Logger
	Sites    Sites
	Stats    StatsGetter
	Exporter Exporter
}

func NewHandler(logger *slog.Logger, sites Sites, stats StatsGetter, exporter Exporter) *Handler {
	return &Handler{
		logger:   logger,
		Sites:    sites,
		Stats:    stats,
		Exporter: exporter,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) SiteCreate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("SiteCreate", slog.String("remote", r.RemoteAddr))

	var req domain.CreateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	l.Info("creating site",
		slog.String("name", req.Name),
		slog.Float64("lat", req.Latitude),
		slog.Float64("lng", req.Longitude),
		slog.Float64("radius_m", req.RadiusMeters),
	)

	id, err := h.Sites.Create(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("site created", slog.String("id", id.String()))
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (h *Handler) SiteList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("SiteList", slog.String("query", r.URL.RawQuery), slog.String("remote", r.RemoteAddr))

	page := parseInt(r.URL.Query().Get("page"), 1)
	limit := parseInt(r.URL.Query().Get("limit"), 20)
	if limit > 100 {
		limit = 100
		l.Warn("limit capped", slog.Int("limit", limit))
	}

	sites, total, err := h.Sites.List(r.Context(), page, limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("sites listed", slog.Int("count", len(sites)), slog.Int64("total", total))
	h.writeJSON(w, http.StatusOK, domain.ListSitesResponse{
		Sites: sites,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (h *Handler) SiteGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.siteID(w, r)
	if !ok {
		return
	}

	site, err := h.Sites.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, site)
}

func (h *Handler) SiteUpdate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	id, ok := h.siteID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.Sites.Update(r.Context(), id, req); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("site updated", slog.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SiteDelete(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	id, ok := h.siteID(w, r)
	if !ok {
		return
	}

	if err := h.Sites.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("site deactivated", slog.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) siteID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.log(r).Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AdminStats", slog.String("query", r.URL.RawQuery), slog.String("remote", r.RemoteAddr))

	req := domain.StatsRequest{Day: r.URL.Query().Get("day")}
	if err := validator.ValidateStruct(req); err != nil {
		l.Warn("invalid day", slog.String("day", req.Day))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day must be YYYY-MM-DD"})
		return
	}

	stats, err := h.Stats.GetStats(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("stats success", slog.String("day", stats.Day))
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) ExportCheckIns(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	day := r.URL.Query().Get("day")
	if err := validator.ValidateStruct(domain.StatsRequest{Day: day}); err != nil {
		l.Warn("invalid day", slog.String("day", day))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day must be YYYY-MM-DD"})
		return
	}

	body, err := h.Exporter.ExportDay(r.Context(), day)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	name := "checkins.xlsx"
	if day != "" {
		name = fmt.Sprintf("checkins-%s.xlsx", day)
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		l.Warn("export write failed", slog.Any("error", err))
	}
}
