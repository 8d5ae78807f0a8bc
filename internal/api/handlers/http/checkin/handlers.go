package checkin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/middleware"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/service"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type CheckIns interface {
	StartQRCheckIn(ctx context.Context, employeeID string, dev service.Devices) (<-chan domain.FlowState, bool)
	SubmitManualCheckIn(ctx context.Context, employeeID, code string) (*domain.CheckInRecord, error)
	PermissionState(employeeID string) domain.Permissions
	RefreshPermissions(ctx context.Context, employeeID string, q service.PermissionQuerier) (domain.Permissions, error)
	SubscribePermissions(employeeID string, fn func(domain.Permissions)) func()
	State(employeeID string) domain.FlowState
	Retry(employeeID string) bool
	SwitchMethod(employeeID string, method domain.Method) domain.FlowState
	Today(ctx context.Context, employeeID string) (*domain.CheckInRecord, error)
}

type Handler struct {
	logger   *slog.Logger
	CheckIns CheckIns
}

func NewHandler(logger *slog.Logger, checkIns CheckIns) *Handler {
	return &Handler{
		logger:   logger,
		CheckIns: checkIns,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	l := h.logger
	if reqID := chimw.GetReqID(r.Context()); reqID != "" {
		l = l.With(slog.String("request_id", reqID))
	}
	if id, ok := middleware.EmployeeID(r.Context()); ok {
		l = l.With(slog.String("employee_id", id))
	}
	return l
}

func (h *Handler) employee(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.EmployeeID(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return "", false
	}
	return id, true
}

// QRCheckIn runs one scan attempt from the payload and fix the browser sent.
// The state sequence is returned as JSON, or streamed as server-sent events
// when the client asks for text/event-stream.
func (h *Handler) QRCheckIn(w http.ResponseWriter, r *http.Request, req domain.QRCheckInRequest) {
	l := h.log(r)
	employeeID, ok := h.employee(w, r)
	if !ok {
		return
	}

	if req.Permissions != nil {
		if _, err := h.CheckIns.RefreshPermissions(r.Context(), employeeID, requestPermissions(*req.Permissions)); err != nil {
			h.handleError(w, r, err)
			return
		}
	}

	if wantsEventStream(r) {
		h.streamQR(w, r, employeeID, req)
		return
	}

	states, started := h.CheckIns.StartQRCheckIn(r.Context(), employeeID, devicesFor(req))
	if !started {
		l.Info("qr check-in ignored, attempt in flight")
		h.writeReason(w, domain.NewCheckInError(domain.ReasonAttemptInProgress), nil)
		return
	}

	var seen []domain.FlowState
	for st := range states {
		seen = append(seen, st)
	}
	h.writeFinal(w, seen)
}

func (h *Handler) writeFinal(w http.ResponseWriter, seen []domain.FlowState) {
	if len(seen) == 0 {
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	last := seen[len(seen)-1]

	switch last.Phase {
	case domain.PhaseSucceeded:
		h.writeJSON(w, http.StatusOK, domain.CheckInResponse{
			States:  seen,
			Record:  last.Record,
			Message: last.Message,
		})
	case domain.PhaseFailed:
		ce := &domain.CheckInError{Reason: last.Reason, DistanceMeters: last.DistanceMeters}
		h.writeReason(w, ce, seen)
	default:
		h.writeJSON(w, http.StatusConflict, domain.CheckInResponse{
			States:  seen,
			Message: "Check-in was cancelled.",
		})
	}
}

// streamQR runs the attempt and writes each state as a server-sent event.
// Permission changes observed during the attempt go out as "permissions"
// events ahead of the state that caused them.
func (h *Handler) streamQR(w http.ResponseWriter, r *http.Request, employeeID string, req domain.QRCheckInRequest) {
	// Subscribed before the start so a denial found by the attempt is seen.
	perms := make(chan domain.Permissions, 4)
	unsubscribe := h.CheckIns.SubscribePermissions(employeeID, func(p domain.Permissions) {
		select {
		case perms <- p:
		default:
		}
	})
	defer unsubscribe()

	states, started := h.CheckIns.StartQRCheckIn(r.Context(), employeeID, devicesFor(req))
	if !started {
		h.log(r).Info("qr check-in ignored, attempt in flight")
		h.writeReason(w, domain.NewCheckInError(domain.ReasonAttemptInProgress), nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		var seen []domain.FlowState
		for st := range states {
			seen = append(seen, st)
		}
		h.writeFinal(w, seen)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	flushPerms := func() {
		for {
			select {
			case p := <-perms:
				h.writeEvent(w, r, "permissions", p)
			default:
				flusher.Flush()
				return
			}
		}
	}

	for st := range states {
		flushPerms()
		h.writeEvent(w, r, string(st.Phase), st)
		flusher.Flush()
	}
	flushPerms()
}

func (h *Handler) writeEvent(w http.ResponseWriter, r *http.Request, event string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log(r).Error("marshal event failed", slog.Any("error", err))
		return
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b); err != nil {
		// Client went away; the request context cancels the attempt.
		h.log(r).Debug("event stream write failed", slog.Any("error", err))
	}
}

func wantsEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

func (h *Handler) ManualCheckIn(w http.ResponseWriter, r *http.Request, req domain.ManualCheckInRequest) {
	l := h.log(r)
	employeeID, ok := h.employee(w, r)
	if !ok {
		return
	}

	rec, err := h.CheckIns.SubmitManualCheckIn(r.Context(), employeeID, req.Code)
	if err != nil {
		var ce *domain.CheckInError
		if errors.As(err, &ce) {
			l.Info("manual check-in rejected", slog.String("reason", string(ce.Reason)))
			h.writeReason(w, ce, nil)
			return
		}
		if errors.Is(err, service.ErrAttemptCancelled) {
			l.Info("manual check-in cancelled")
			h.writeJSON(w, http.StatusConflict, domain.CheckInResponse{Message: "Check-in was cancelled."})
			return
		}
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, domain.CheckInResponse{Record: rec, Message: "Checked in."})
}

func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.employee(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.CheckIns.PermissionState(employeeID))
}

func (h *Handler) PutPermissions(w http.ResponseWriter, r *http.Request, req domain.PermissionsRequest) {
	employeeID, ok := h.employee(w, r)
	if !ok {
		return
	}

	p, err := h.CheckIns.RefreshPermissions(r.Context(), employeeID, requestPermissions(req))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.log(r).Debug("permissions updated", slog.String("camera", string(p.Camera)), slog.String("location", string(p.Location)))
	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.employee(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.CheckIns.State(employeeID))
}

func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.employee(w, r)
	if !ok {
		return
	}
	if !h.CheckIns.Retry(employeeID) {
		h.writeJSON(w, http.StatusConflict, map[string]string{"error": "nothing to retry"})
		return
	}
	h.writeJSON(w, http.StatusOK, h.CheckIns.State(employeeID))
}

func (h *Handler) SwitchMethod(w http.ResponseWriter, r *http.Request, req domain.SwitchMethodRequest) {
	employeeID, ok := h.employee(w, r)
	if !ok {
		return
	}
	st := h.CheckIns.SwitchMethod(employeeID, req.Method)
	h.log(r).Info("check-in method switched", slog.String("method", string(req.Method)))
	h.writeJSON(w, http.StatusOK, st)
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.employee(w, r)
	if !ok {
		return
	}

	rec, err := h.CheckIns.Today(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "no check-in today"})
			return
		}
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}
