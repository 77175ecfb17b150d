package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/grocerybuddy/internal/auth"
	"github.com/dukerupert/grocerybuddy/internal/session"
)

// WantsJSON reports whether r comes from an API-style client: any /api/ path,
// or an Accept header asking for JSON.
func WantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// RequireAuth resolves the session cookie into an auth.Identity. Requests
// without a live session never reach next: API clients get 401 JSON,
// browsers are sent to /login. A failing session store is a 500, not a
// sign-out.
func RequireAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Load(r.Context(), r)
			if err != nil {
				slog.Error("load session", "error", err, "request_id", RequestIDFromContext(r.Context()))
				rejectStoreFailure(w, r)
				return
			}
			if sess == nil {
				rejectUnauthenticated(w, r)
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.IdentityFromSession(sess))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches an Identity when a live session exists and otherwise
// passes the request through untouched. Store failures answer 500.
func OptionalAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Load(r.Context(), r)
			if err != nil {
				slog.Error("load session", "error", err, "request_id", RequestIDFromContext(r.Context()))
				rejectStoreFailure(w, r)
				return
			}
			if sess != nil {
				r = r.WithContext(auth.WithIdentity(r.Context(), auth.IdentityFromSession(sess)))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rejectUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func rejectStoreFailure(w http.ResponseWriter, r *http.Request) {
	if WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Something went wrong"})
		return
	}
	http.Error(w, "Something went wrong", http.StatusInternalServerError)
}
