package checkin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

var reasonStatus = map[domain.Reason]int{
	domain.ReasonCameraPermissionDenied:   http.StatusForbidden,
	domain.ReasonLocationPermissionDenied: http.StatusForbidden,
	domain.ReasonInvalidCode:              http.StatusUnprocessableEntity,
	domain.ReasonOutOfRange:               http.StatusUnprocessableEntity,
	domain.ReasonLocationUnavailable:      http.StatusUnprocessableEntity,
	domain.ReasonScannerUnavailable:       http.StatusUnprocessableEntity,
	domain.ReasonTimeout:                  http.StatusGatewayTimeout,
	domain.ReasonStorageFailure:           http.StatusServiceUnavailable,
	domain.ReasonAttemptInProgress:        http.StatusConflict,
}

func statusFor(r domain.Reason) int {
	if code, ok := reasonStatus[r]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeReason(w http.ResponseWriter, ce *domain.CheckInError, states []domain.FlowState) {
	h.writeJSON(w, statusFor(ce.Reason), domain.CheckInResponse{
		States:  states,
		Reason:  ce.Reason,
		Message: ce.UserMessage(),
		Retry:   ce.Reason.Retryable(),
	})
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	h.log(r).Error("handler error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)

	var status int
	switch {
	case errors.Is(err, e.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, e.ErrInvalidInput), errors.Is(err, e.ErrInvalidEmployeeID):
		status = http.StatusBadRequest
	case errors.Is(err, e.ErrConflict):
		status = http.StatusConflict
	default:
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("encode response failed", slog.Any("error", err))
	}
}
