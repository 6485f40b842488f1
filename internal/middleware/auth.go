package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dukerupert/bookclub/internal/apperror"
	"github.com/dukerupert/bookclub/internal/auth"
)

const SessionCookieName = "session_token"

// Resolver maps a session token to its principal.
type Resolver interface {
	Resolve(ctx context.Context, token string) (auth.Principal, error)
}

// RequireAuth validates the session cookie and stores the Principal in the
// request context. Invalid or expired cookies are cleared and answered 401.
func RequireAuth(resolver Resolver, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			p, err := resolver.Resolve(r.Context(), cookie.Value)
			if err != nil {
				if apperror.Is(err, apperror.KindAuth) {
					ClearSessionCookie(w, secureCookie)
				}
				writeError(w, apperror.Status(err), apperror.Message(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// OptionalAuth attaches the Principal when the cookie is valid and otherwise
// lets the request through anonymously, clearing a stale cookie.
func OptionalAuth(resolver Resolver, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			p, err := resolver.Resolve(r.Context(), cookie.Value)
			switch {
			case err == nil:
				r = r.WithContext(auth.WithPrincipal(r.Context(), p))
			case apperror.Is(err, apperror.KindAuth):
				ClearSessionCookie(w, secureCookie)
			default:
				writeError(w, apperror.Status(err), apperror.Message(err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin checks that the authenticated user has the admin role.
// Club operations repeat the check themselves.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
