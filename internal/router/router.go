// Package router sets up all HTTP routes and middleware chains for the
// Inkpress API. It organizes routes into public and authenticated groups
// with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
	"inkpress/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. uploads may be nil when S3 storage is not
// configured; the upload routes are simply not mounted then.
func New(sessionStore *session.Store, authLimiter *middleware.RateLimiter, auth *handlers.Auth, drafts *handlers.Drafts, posts *handlers.Posts, uploads *handlers.Uploads) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Auth endpoints — rate-limited to slow down credential stuffing.
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/auth/signup", auth.Signup)
			r.Post("/auth/signin", auth.Signin)
		})
		r.Post("/auth/signout", auth.Signout)

		// Public reads — the feed and rendered posts.
		r.Get("/posts", posts.List)
		r.Get("/posts/{id}", posts.Get)

		// Authenticated area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/auth/me", auth.Me)
			r.Get("/my-blogs", posts.MyBlogs)
			r.Delete("/posts/{id}", posts.Delete)

			// Draft composition.
			r.Route("/drafts", func(r chi.Router) {
				r.Post("/", drafts.Create)
				r.Get("/{id}", drafts.Get)
				r.Put("/{id}", drafts.Update)
				r.Post("/{id}/blocks", drafts.AppendBlock)
				r.Put("/{id}/blocks/{blockID}", drafts.UpdateBlock)
				r.Delete("/{id}/blocks/{blockID}", drafts.DeleteBlock)
				r.Post("/{id}/blocks/{blockID}/upload", drafts.UploadBlockImage)
				r.Post("/{id}/cover", drafts.UploadCover)
				r.Post("/{id}/submit", drafts.Submit)
			})

			if uploads != nil {
				r.Post("/uploads", uploads.Upload)
			}
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
