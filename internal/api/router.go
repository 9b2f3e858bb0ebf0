package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Unknown routes and methods get the same terse 404 regardless of verb.
	r.NotFound(s.handleRouteNotFound)
	r.MethodNotAllowed(s.handleRouteNotFound)

	// Health check (no auth required)
	r.Get("/health", s.handleHealth)

	// System metrics (no auth required for basic monitoring)
	r.Get("/metrics", s.handleMetrics)

	// Auth endpoints (no auth required)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/reset-password", s.handleResetPassword)
	})

	// Account endpoints (bearer token, owner or admin only)
	r.Route("/user/{id}", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(s.requireSelf)

		r.Get("/profile", s.handleGetProfile)
		r.Patch("/account-info", s.handleUpdateAccountInfo)
		r.Patch("/change-password", s.handleChangePassword)
		r.Post("/validate-password", s.handleValidatePassword)
	})

	// Property endpoints
	r.Route("/properties", func(r chi.Router) {
		r.Get("/", s.handleListProperties)
		r.Get("/{id}", s.handleGetProperty)

		// Mutations require authentication
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Post("/", s.handleCreateProperty)
			r.Delete("/{id}", s.handleDeleteProperty)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// handleRouteNotFound answers every unknown route or method.
func (s *Server) handleRouteNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, "Route not found")
}
