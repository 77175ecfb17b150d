package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/grocerybuddy/internal/middleware"
	"github.com/dukerupert/grocerybuddy/internal/model"
)

const genericErrorMessage = "Something went wrong"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorStatus maps a service error onto an HTTP status and the message safe
// to show the caller. ok is false for unexpected errors.
func errorStatus(err error) (status int, msg string, ok bool) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, model.UserMessage(err), true
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, model.UserMessage(err), true
	case errors.Is(err, model.ErrInvalidCredentials), errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized, model.UserMessage(err), true
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, model.UserMessage(err), true
	}
	return http.StatusInternalServerError, genericErrorMessage, false
}

// errorWriter renders service errors as JSON. Unexpected errors are logged
// and hidden behind a generic message; outside production the raw error is
// added as "detail".
type errorWriter struct {
	production bool
	logger     *slog.Logger
}

func (e errorWriter) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg, ok := errorStatus(err)
	if !ok {
		e.logger.Error(op, "error", err, "request_id", middleware.RequestIDFromContext(r.Context()))
		body := map[string]string{"error": msg}
		if !e.production {
			body["detail"] = err.Error()
		}
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
