package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"minibar/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// WriteError logs and writes a JSON error response. Middleware shares it so
// every error body has the same shape.
func WriteError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", message).Str("code", code).Int("status", status).Msg("request failed")
	writeJSON(w, status, model.ErrorResponse{Error: message, Code: code})
}

// writeServiceError maps a service error to its HTTP status and writes it.
// Errors that are not domain errors are reported as internal errors.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("unexpected service error")
		WriteError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}
	WriteError(w, statusFor(err), domainErr.Code, domainErr.Message, logger)
}

// statusFor returns the HTTP status code for a domain error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidRoom),
		errors.Is(err, model.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrOrderLineNotFound):
		return http.StatusNotFound
	case isSlotError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func isSlotError(err error) bool {
	return errors.Is(err, model.ErrSlotEndBeforeStart) ||
		errors.Is(err, model.ErrSlotTooShort) ||
		errors.Is(err, model.ErrSlotTooLong)
}

// decodeJSON decodes the request body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

// uuidParam parses the named URL parameter as a UUID, writing a 400 on failure.
func uuidParam(w http.ResponseWriter, r *http.Request, name string, logger zerolog.Logger) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidID, name+" is required", logger)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidID, "invalid "+name+" format", logger)
		return uuid.Nil, false
	}
	return id, true
}
