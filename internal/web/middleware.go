package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/freshrack/internal/auth"
	"github.com/erazemk/freshrack/internal/client"
)

type webContextKey string

const sessionKey webContextKey = "session"

// cookieName holds the API token in the browser.
const cookieName = "token"

// SessionMiddleware decodes the token cookie into a client.Session and puts
// it on the request context. A missing or unreadable cookie yields an
// anonymous session; the API verifies the token on every call that needs it.
func SessionMiddleware(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var s client.Session

			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				claims, err := auth.ReadToken(cookie.Value, now())
				switch {
				case err == nil:
					s = client.Session{Token: cookie.Value, Email: claims.Email, Name: claims.Name}
				case errors.Is(err, auth.ErrTokenExpired):
					clearAuthCookie(w)
				default:
					slog.Warn("discarding unreadable session cookie", "error", err)
					clearAuthCookie(w)
				}
			}

			ctx := context.WithValue(r.Context(), sessionKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin redirects anonymous visitors to the login page.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetSession(r.Context()).LoggedIn() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSession retrieves the session from the request context.
func GetSession(ctx context.Context) client.Session {
	s, _ := ctx.Value(sessionKey).(client.Session)
	return s
}

func setAuthCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(auth.TokenExpiry / time.Second),
	})
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
