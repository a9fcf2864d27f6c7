package router

import (
	"net/http"

	"github.com/clientspot/clientspot/backend/internal/setup"
	mw "github.com/clientspot/clientspot/shared/middleware"
	"github.com/clientspot/clientspot/shared/middleware/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New creates and configures a chi router with all the routes.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// setup CORS for frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(deps.Config.Public.SecureCookies))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
			r.Post("/password_reset", h.SendPasswordResetCode)
			r.Post("/password_reset/confirm", h.ResetPassword)
			r.With(authMw.NeedAuth()).Post("/logout", h.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Get("/users/profile", h.Profile)
			r.Put("/users/profile", h.UpdateProfile)
			r.Post("/companies", h.CreateCompany)
			r.Put("/companies/{companyId}", h.UpdateCompany)
			r.Delete("/companies/{companyId}", h.DeleteCompany)
		})

		// public listings
		r.Get("/companies", h.ListCompanies)
		r.Get("/companies/{companyId}", h.GetCompany)

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMw.AdminOnly())
			r.Post("/signup_codes", h.SendSignupCode)
			r.Delete("/users/{userId}", h.DeleteAccount)
			r.Delete("/companies/{companyId}", h.AdminDeleteCompany)
		})
	})

	return r
}
