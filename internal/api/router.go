package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/erazemk/freshrack/internal/metrics"
	"github.com/erazemk/freshrack/internal/sanitize"
)

// Deps are the collaborators shared by the API handlers. Metrics and Now are
// optional.
type Deps struct {
	DB        *sql.DB
	JWTSecret string
	Metrics   *metrics.Collector
	Now       func() time.Time
}

// NewRouter creates the API router with all endpoints registered. Reads are
// public; every mutation needs a bearer token and, for existing items,
// ownership.
func NewRouter(deps Deps) http.Handler {
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewCollector(prometheus.NewRegistry())
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	validate := newValidator()
	sanitizer := sanitize.New()

	authHandler := &AuthHandler{
		DB:        deps.DB,
		JWTSecret: deps.JWTSecret,
		Metrics:   deps.Metrics,
		Validate:  validate,
		Sanitizer: sanitizer,
	}
	foodsHandler := &FoodsHandler{
		DB:        deps.DB,
		Metrics:   deps.Metrics,
		Validate:  validate,
		Sanitizer: sanitizer,
		Now:       deps.Now,
	}
	notesHandler := &NotesHandler{
		DB:        deps.DB,
		Metrics:   deps.Metrics,
		Validate:  validate,
		Sanitizer: sanitizer,
		Now:       deps.Now,
	}
	policyHandler := &PolicyHandler{DB: deps.DB}

	authMW := AuthMiddleware(deps.JWTSecret, deps.DB)

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		// Auth.
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.With(authMW).Post("/auth/logout", authHandler.Logout)
		r.With(authMW).Get("/auth/me", authHandler.Me)

		r.Get("/policy", policyHandler.Get)

		// Food items: read (anyone), write (owner).
		r.Route("/items", func(r chi.Router) {
			r.Get("/", foodsHandler.List)
			r.With(authMW).Post("/", foodsHandler.Create)
			r.Get("/stats", foodsHandler.Stats)
			r.Get("/nearly-expiring", foodsHandler.NearlyExpiring)
			r.Get("/expired", foodsHandler.Expired)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", foodsHandler.Get)
				r.With(authMW).Put("/", foodsHandler.Update)
				r.With(authMW).Delete("/", foodsHandler.Delete)
				r.Get("/image", foodsHandler.GetImage)
				r.With(authMW).Put("/image", foodsHandler.UploadImage)
				r.Get("/notes", notesHandler.List)
				r.With(authMW).Post("/notes", notesHandler.Create)
			})
		})
	})

	return r
}
