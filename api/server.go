/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Connects URLs to handlers and sets up the middleware stack.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request, echoed in the access log
  2. Logger:     zerolog access log (middleware.go)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for a dashboard frontend

ROUTES:
  GET  /api/health            Liveness and last run id
  GET  /api/employees         Derived records of the latest run (?format=csv)
  GET  /api/employees/{id}    One derived record
  GET  /api/roster            Cached feed records as fetched
  GET  /api/roster/{id}       One cached feed record
  POST /api/calculate         Transform a posted roster (?as_of=YYYY-MM-DD)
  POST /api/refresh           Re-fetch the feed and record a run
  GET  /api/runs              Run history
  GET  /api/summary           Totals of the latest run
  POST /api/reset             Drop the cache and run history

SECURITY NOTE:
  No authentication. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{RunIDHeader},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Get("/{id}", h.GetEmployee)
		})

		r.Route("/roster", func(r chi.Router) {
			r.Get("/", h.ListRoster)
			r.Get("/{id}", h.GetRosterEntry)
		})

		r.Post("/calculate", h.Calculate)
		r.Post("/refresh", h.Refresh)
		r.Get("/runs", h.ListRuns)
		r.Get("/summary", h.GetSummary)
		r.Post("/reset", h.Reset)
	})

	return r
}
