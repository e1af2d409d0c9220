/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. CleanPath:  Normalize request paths
  3. httplog:    Structured slog request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/calculations/*   Run and fetch calculations
  /api/employees/*      Employee configuration
  /api/business-units/* Business unit configuration
  /api/overrides/*      Rate and hours overrides
  /api/import/*         Revenue and timesheet imports
  /api/reports/*        XLSX export
  /api/scenarios/*      Demo scenarios

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, logger *slog.Logger, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.CleanPath)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/calculations", func(r chi.Router) {
			r.Post("/", h.Calculate)
			r.Get("/", h.ListCalculations)
			r.Get("/{id}", h.GetCalculation)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.SaveEmployee)
		})

		r.Route("/business-units", func(r chi.Router) {
			r.Get("/", h.ListBusinessUnits)
			r.Post("/", h.SaveBusinessUnit)
		})

		r.Route("/overrides", func(r chi.Router) {
			r.Post("/rates", h.SetRateOverride)
			r.Post("/hours", h.SetHoursOverride)
		})

		r.Route("/import", func(r chi.Router) {
			r.Post("/revenue", h.ImportRevenue)
			r.Post("/hours", h.ImportHours)
		})

		r.Get("/reports/commission.xlsx", h.ExportReport)

		r.Route("/scenarios", func(r chi.Router) {
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
