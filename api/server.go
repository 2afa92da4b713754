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
  1. RequestID:   Unique ID per request for tracing
  2. Recoverer:   Panic recovery (500 instead of crash)
  3. requestLog:  Structured request logging (zerolog)
  4. CORS:        Cross-origin requests for frontend
  5. RequireUser: Caller identity (all /api routes except the webhook)

ROUTE GROUPS:
  /api/accounts/*        Account management
  /api/transactions/*    Transaction ledger
  /api/summary/*         Reporting
  /api/budget            Monthly budget
  /api/jobs/recurring/*  Recurring orchestrator entry points
  /api/webhook/user      User provisioning (no caller identity)

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: Caller identity middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLog(h.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", userIDHeader},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Webhook is called by the identity provider, before any local
		// user exists, so it sits outside the caller-identity group.
		r.Post("/webhook/user", h.UserWebhook)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", h.GetAccountDetails)
				r.Post("/", h.CreateAccount)
				r.Post("/default", h.SetDefaultAccount)
				r.Delete("/{id}", h.DeleteAccount)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", h.ListTransactions)
				r.Post("/", h.CreateTransaction)
				r.Put("/{id}", h.EditTransaction)
				r.Delete("/{id}", h.DeleteTransaction)
			})

			r.Get("/summary/daily", h.GetDailySummary)

			r.Route("/budget", func(r chi.Router) {
				r.Get("/", h.GetCurrentBudget)
				r.Post("/", h.UpsertBudget)
			})

			r.Route("/jobs/recurring", func(r chi.Router) {
				r.Post("/trigger", h.TriggerRecurring)
				r.Post("/process", h.ProcessRecurring)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}

// requestLog logs one line per request with method, path, status and
// latency.
func requestLog(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
