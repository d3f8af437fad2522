package router

import (
	"net/http"

	"minibar/internal/handler"
	"minibar/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers the router dispatches to.
type Handlers struct {
	Session  *handler.SessionHandler
	Product  *handler.ProductHandler
	Order    *handler.OrderHandler
	Schedule *handler.ScheduleHandler
}

// New creates a new HTTP router with all routes and middleware configured.
// signedIn reports whether a room has an open session.
func New(h Handlers, signedIn func(room string) bool, apiKey string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	r.Use(chimiddleware.RequestID, chimiddleware.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(apiKey, logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Session.Login)

		r.Get("/products", h.Product.GetAll)
		r.Get("/products/{id}", h.Product.GetByID)

		r.Route("/rooms/{room}", func(r chi.Router) {
			r.Use(middleware.RequireSession(signedIn, logger))

			r.Get("/orders", h.Order.History)
			r.Post("/orders", h.Order.Add)
			r.Put("/orders/{id}", h.Order.Update)
			r.Delete("/orders/{id}", h.Order.Delete)

			r.Get("/schedule", h.Schedule.State)
			r.Delete("/schedule", h.Schedule.Delete)
			r.Put("/schedule/draft", h.Schedule.SetDraft)
			r.Post("/schedule/load", h.Schedule.Load)
			r.Post("/schedule/edit", h.Schedule.Edit)
			r.Post("/schedule/save", h.Schedule.Save)
		})
	})

	return r
}
