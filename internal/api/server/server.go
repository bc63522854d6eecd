// Package server binds the job tracker api routes to a chi router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ServerInterface is implemented by the api handlers.
type ServerInterface interface {
	// (GET /health)
	Health(w http.ResponseWriter, r *http.Request)

	// (GET /api/jobs)
	ListJobs(w http.ResponseWriter, r *http.Request)
	// (POST /api/jobs)
	CreateJob(w http.ResponseWriter, r *http.Request)
	// (PUT /api/jobs/{id})
	UpdateJob(w http.ResponseWriter, r *http.Request, id string)
	// (DELETE /api/jobs/{id})
	DeleteJob(w http.ResponseWriter, r *http.Request, id string)

	// (POST /api/auth/google)
	SignIn(w http.ResponseWriter, r *http.Request)
	// (GET /api/auth/google/login)
	OAuthLogin(w http.ResponseWriter, r *http.Request)
	// (GET /api/auth/google/callback)
	OAuthCallback(w http.ResponseWriter, r *http.Request)
}

type MiddlewareFunc func(http.Handler) http.Handler

type ChiServerOptions struct {
	BaseRouter chi.Router
	// AuthMiddleware guards every jobs route and runs before the handler sees the request.
	AuthMiddleware MiddlewareFunc
	// SignInMiddlewares wrap the sign-in routes, e.g. a rate limiter.
	SignInMiddlewares []MiddlewareFunc
}

func HandlerFromMux(si ServerInterface, r chi.Router, authMiddleware MiddlewareFunc) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter:     r,
		AuthMiddleware: authMiddleware,
	})
}

func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	authMiddleware := options.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = func(next http.Handler) http.Handler { return next }
	}

	r.Get("/health", si.Health)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/jobs", si.ListJobs)
			r.Post("/jobs", si.CreateJob)

			// no id in the path; handlers answer 400
			for _, p := range []string{"/jobs", "/jobs/"} {
				r.Put(p, func(w http.ResponseWriter, r *http.Request) { si.UpdateJob(w, r, "") })
				r.Delete(p, func(w http.ResponseWriter, r *http.Request) { si.DeleteJob(w, r, "") })
			}
			r.Put("/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
				si.UpdateJob(w, r, chi.URLParam(r, "id"))
			})
			r.Delete("/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
				si.DeleteJob(w, r, chi.URLParam(r, "id"))
			})
		})

		r.Route("/auth/google", func(r chi.Router) {
			for _, m := range options.SignInMiddlewares {
				r.Use(m)
			}
			r.Post("/", si.SignIn)
			r.Get("/login", si.OAuthLogin)
			r.Get("/callback", si.OAuthCallback)
		})
	})

	return r
}
