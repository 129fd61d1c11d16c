package middleware

import (
	"context"
	"net/http"

	"github.com/RaymondAhuren/swedru-konnect/internal/domain"
	"github.com/RaymondAhuren/swedru-konnect/internal/session"
)

type contextKey string

const userKey contextKey = "session_user"

// SessionReader is the slice of the session manager the middleware needs
type SessionReader interface {
	Snapshot() session.Snapshot
	Touch()
}

// Activity records user activity on every request passing through. It is
// the gateway analog of the browser's pointer/key/scroll/touch listeners:
// any view intent counts as activity, nothing else happens.
func Activity(sess SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess.Touch()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests while the session is anonymous. The view
// layer turns the 401 into its login redirect.
func RequireAuth(sess SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := sess.Snapshot()
			if !snap.Authenticated() {
				http.Error(w, `{"error":"Not authenticated"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, snap.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated users whose backend-reported role is
// not in roles. The gateway never decides roles itself; the 403 is the
// view layer's /unauthorized redirect.
func RequireRole(sess SessionReader, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := sess.Snapshot()
			if !snap.Authenticated() {
				http.Error(w, `{"error":"Not authenticated"}`, http.StatusUnauthorized)
				return
			}
			if !allowed[snap.User.Role] {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, snap.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the session user attached by RequireAuth/RequireRole
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}
