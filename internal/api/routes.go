package api

import (
	"github.com/websitemybusiness/contact-relay/internal/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes. The public contact endpoint gets
// permissive CORS so the form can post from anywhere; the admin API allows
// credentials from the known frontends only.
func SetupRoutes(h *Handlers, authManager *auth.Manager) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// Health check (no auth required)
	r.Get("/health", h.HealthCheck)

	// Public contact endpoint: wildcard origin, preflight included.
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
		r.Post("/api/contact", h.SubmitContact)
		r.Get("/api/widget", h.GetChatWidget)
	})

	// Everything below shares credentialed CORS for the admin frontend.
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"https://websitemybusiness.com", "http://localhost:5173", "http://localhost:8080"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		// Auth routes (no auth required)
		if authManager != nil {
			r.Get("/auth/login", authManager.HandleLogin)
			r.Get("/auth/callback", authManager.HandleCallback)
			r.Get("/auth/logout", authManager.HandleLogout)
			r.Get("/auth/user", authManager.HandleUserInfo)
		}

		// Admin API: session required plus the admin role.
		r.Route("/api/admin", func(r chi.Router) {
			if authManager != nil {
				r.Use(authManager.RequireAdmin)
			}
			r.Get("/submissions", h.ListSubmissions)
			r.Get("/submissions/export", h.ExportSubmissions)
			r.Delete("/submissions/{id}", h.DeleteSubmission)
		})
	})

	return r
}
