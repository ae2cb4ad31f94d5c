// Package http provides HTTP routing and middleware configuration
// for the dev API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atinyakov/tourney/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the dev API.
//
// Routes:
//
//	GET  /                   → welcome message
//	GET  /health             → {"status":"healthy"}
//	GET  /metrics            → Prometheus metrics from gatherer
//	POST /api/auth/register  → authHandler.Register
//	POST /api/auth/login     → authHandler.Login
//	GET  /api/users/me       → userHandler.Me (protected by BearerAuth)
//
// Middleware chain (applied in order):
//  1. RequestID tags each request for the logs
//  2. WithRequestLogging(logger) logs incoming requests
//  3. Metrics records request counters and durations
//  4. cors.Handler lets browser clients call the API
func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	authenticator middleware.Authenticator,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Gaming Tournament API"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(authenticator))
			r.Get("/users/me", userHandler.Me)
		})
	})

	return r
}
