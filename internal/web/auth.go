package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/freshrack/internal/client"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, http.StatusOK, "login.html", &PageData{Title: "Log in"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		s.Templates.Render(w, http.StatusBadRequest, "login.html", &PageData{
			Title: "Log in",
			Error: "Enter your email and password.",
		})
		return
	}

	session, err := s.Client.Login(r.Context(), email, password)
	if err != nil {
		msg := "Could not log in. Please try again."
		status := http.StatusBadGateway
		if errors.Is(err, client.ErrUnauthorized) {
			msg = "Wrong email or password."
			status = http.StatusUnauthorized
		} else {
			slog.Error("login request failed", "error", err)
		}
		s.Templates.Render(w, status, "login.html", &PageData{Title: "Log in", Error: msg})
		return
	}

	setAuthCookie(w, session.Token, s.CookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, http.StatusOK, "register.html", &PageData{Title: "Register"})
}

// RegisterSubmit handles POST /register.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	session, err := s.Client.Register(r.Context(),
		r.FormValue("name"),
		r.FormValue("email"),
		strings.TrimSpace(r.FormValue("photoUrl")),
		r.FormValue("password"),
	)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			s.Templates.Render(w, apiErr.StatusCode, "register.html", &PageData{
				Title: "Register",
				Error: userMessage(apiErr.Message),
			})
			return
		}
		slog.Error("register request failed", "error", err)
		s.Templates.Render(w, http.StatusBadGateway, "register.html", &PageData{
			Title: "Register",
			Error: "Could not create your account. Please try again.",
		})
		return
	}

	setAuthCookie(w, session.Token, s.CookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. The token is revoked on the server and the
// cookie cleared even if revocation fails.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.Client.Logout(r.Context(), GetSession(r.Context())); err != nil {
		slog.Warn("failed to revoke token on logout", "error", err)
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// userMessage capitalizes an API error message for display.
func userMessage(msg string) string {
	if msg == "" {
		return "Something went wrong."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
