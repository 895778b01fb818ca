package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/freshrack/internal/client"
	"github.com/erazemk/freshrack/internal/expiry"
	webembed "github.com/erazemk/freshrack/web"
)

// Server holds all dependencies for page handlers. Pages read and write
// through the API client only.
type Server struct {
	Client       *client.Client
	Templates    *Templates
	CookieSecure bool
	Now          func() time.Time
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(c *client.Client, cookieSecure bool, now func() time.Time) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}

	s := &Server{
		Client:       c,
		Templates:    templates,
		CookieSecure: cookieSecure,
		Now:          now,
	}

	r := chi.NewRouter()
	r.Use(SessionMiddleware(now))
	r.NotFound(s.NotFoundPage)

	// Static assets.
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public pages.
	r.Get("/", s.HomePage)
	r.Get("/fridge", s.FridgePage)
	r.Get("/food/{id}", s.FoodDetailPage)
	r.Get("/login", s.LoginPage)
	r.Post("/login", s.LoginSubmit)
	r.Get("/register", s.RegisterPage)
	r.Post("/register", s.RegisterSubmit)
	r.Post("/logout", s.Logout)

	// Pages that need a signed-in user.
	r.Group(func(r chi.Router) {
		r.Use(RequireLogin)
		r.Post("/food/{id}/notes", s.NoteSubmit)
		r.Get("/add-food", s.AddFoodPage)
		r.Post("/add-food", s.AddFoodSubmit)
		r.Get("/my-items", s.MyItemsPage)
		r.Post("/my-items/{id}", s.MyItemUpdateSubmit)
		r.Post("/my-items/{id}/delete", s.MyItemDeleteSubmit)
		r.Post("/my-items/{id}/image", s.MyItemImageSubmit)
	})

	return r, nil
}

// NotFoundPage renders the not-found page.
func (s *Server) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, http.StatusNotFound, "not_found.html", &PageData{
		Title:   "Not found",
		Session: GetSession(r.Context()),
	})
}

// policy fetches the expiry policy used for this render. When the API cannot
// be reached the default policy is used so pages still classify.
func (s *Server) policy(ctx context.Context) expiry.Policy {
	p, err := s.Client.Policy(ctx)
	if err != nil {
		slog.Warn("failed to fetch expiry policy, using default", "error", err)
		return expiry.DefaultPolicy()
	}
	return p
}

// fail renders the page matching an API client error.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	session := GetSession(r.Context())

	switch {
	case errors.Is(err, client.ErrNotFound):
		s.NotFoundPage(w, r)
		return
	case errors.Is(err, client.ErrUnauthorized) && !session.LoggedIn():
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	status := http.StatusInternalServerError
	msg := "Something went wrong."
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		status = http.StatusForbidden
		msg = "You can only change items you own."
	case client.IsTransport(err):
		status = http.StatusBadGateway
		msg = "The inventory service is unavailable. Please try again later."
	}

	slog.Error("page request failed", "path", r.URL.Path, "error", err)
	s.Templates.Render(w, status, "error.html", &PageData{
		Title:   "Error",
		Session: session,
		Error:   msg,
	})
}
