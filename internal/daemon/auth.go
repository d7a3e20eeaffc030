package daemon

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Tokens holds the bearer secrets accepted by the API. The admin token also
// grants user access.
type Tokens struct {
	User  string
	Admin string
}

func (t Tokens) roleFor(candidate string) Role {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return RoleNone
	}
	if tokenEqual(candidate, t.Admin) {
		return RoleAdmin
	}
	if tokenEqual(candidate, t.User) {
		return RoleUser
	}
	return RoleNone
}

func tokenEqual(candidate, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(want)) == 1
}

type roleContextKey struct{}

func withRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleContextKey{}, role)
}

func RoleFromContext(ctx context.Context) Role {
	if ctx == nil {
		return RoleNone
	}
	role, _ := ctx.Value(roleContextKey{}).(Role)
	return role
}

func isPublicPath(path string) bool {
	return path == "/api/health" || !strings.HasPrefix(path, "/api/")
}

func TokenAuthMiddleware(tokens Tokens, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		role := tokens.roleFor(auth[len(prefix):])
		if role == RoleNone {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(withRole(r.Context(), role)))
	})
}
