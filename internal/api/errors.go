package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/fleet-gps-core/internal/device"
	"github.com/nerrad567/fleet-gps-core/internal/position"
	"github.com/nerrad567/fleet-gps-core/internal/validation"
)

// Error is the body of every non-2xx response.
type Error struct {
	Status     int                    `json:"status"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Violations []validation.Violation `json:"violations,omitempty"`
}

const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeInternal       = "internal_error"
	ErrCodeValidation     = "validation_error"
	ErrCodeMethodNotAllow = "method_not_allowed"
	ErrCodeTooLarge       = "request_too_large"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{Status: status, Code: code, Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// errorMappings turns core sentinels into responses. First match wins.
var errorMappings = []struct {
	target  error
	status  int
	code    string
	message string
}{
	{validation.ErrMalformedBody, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body"},
	{device.ErrDeviceNotFound, http.StatusNotFound, ErrCodeNotFound, "device not found"},
	{position.ErrDeviceNotFound, http.StatusNotFound, ErrCodeNotFound, "device not found"},
	{position.ErrPositionNotFound, http.StatusNotFound, ErrCodeNotFound, "position not found"},
	{position.ErrNoReports, http.StatusNotFound, ErrCodeNotFound, "device has no position reports"},
	{device.ErrExternalCodeExists, http.StatusConflict, ErrCodeConflict, "external_code already registered"},
}

// writeServiceError renders err from the fleet service. Validation failures
// carry their violations; anything unmapped is logged and becomes a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	if errors.Is(err, validation.ErrValidationFailed) {
		writeJSON(w, http.StatusUnprocessableEntity, Error{
			Status:     http.StatusUnprocessableEntity,
			Code:       ErrCodeValidation,
			Message:    "request validation failed",
			Violations: validation.Violations(err),
		})
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			writeError(w, m.status, m.code, m.message)
			return
		}
	}

	s.logger.Error("request failed",
		"operation", op,
		"error", err,
		"request_id", requestIDFrom(r.Context()),
	)
	writeInternalError(w, "failed to "+op)
}
