package middleware

import (
	"net/http"
	"strings"
	"time"

	"minibar/internal/handler"
	"minibar/internal/model"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	apiKeyHeader = "X-API-Key"
	healthPath   = "/health"
)

var (
	corsMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}, ", ")
	corsHeaders = strings.Join([]string{"Content-Type", apiKeyHeader}, ", ")
)

// CORS lets browser clients on any origin call the guest API.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", corsMethods)
		h.Set("Access-Control-Allow-Headers", corsHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// APIKeyAuth rejects requests without the shared API key. The health check is public.
func APIKeyAuth(apiKey string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == healthPath {
				next.ServeHTTP(w, r)
				return
			}

			var reason string
			switch provided := r.Header.Get(apiKeyHeader); {
			case provided == "":
				reason = "missing API key"
			case provided != apiKey:
				reason = "invalid API key"
				// Only a prefix of a wrong key is logged.
				logger.Debug().Str("key_prefix", provided[:min(8, len(provided))]).Msg("API key mismatch")
			default:
				next.ServeHTTP(w, r)
				return
			}

			handler.WriteError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised,
				"unauthorised: "+reason, logger.With().Str("path", r.URL.Path).Logger())
		})
	}
}

// RequireSession rejects requests whose {room} URL parameter has not signed in.
func RequireSession(signedIn func(room string) bool, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			room := chi.URLParam(r, "room")
			if signedIn(room) {
				next.ServeHTTP(w, r)
				return
			}

			handler.WriteError(w, http.StatusUnauthorized, model.ErrSessionNotFound.Code,
				model.ErrSessionNotFound.Message, logger.With().Str("room", room).Logger())
		})
	}
}

// Logging writes one access log entry per request. Client errors log at warn
// and server errors at error.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			event := logger.Info()
			switch {
			case rw.statusCode >= http.StatusInternalServerError:
				event = logger.Error()
			case rw.statusCode >= http.StatusBadRequest:
				event = logger.Warn()
			}
			event.
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("room", chi.URLParam(r, "room")).
				Int("status", rw.statusCode).
				Int("bytes", rw.bytes).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}

// Recovery turns a panicking handler into a JSON 500.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error().
					Interface("panic", rec).
					Str("request_id", chimiddleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("panic recovered")

				handler.WriteError(w, http.StatusInternalServerError, model.ErrCodeInternalError,
					"internal server error", logger)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter records the status code and body size for the access log.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}
