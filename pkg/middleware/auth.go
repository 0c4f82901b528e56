// Package middleware provides the HTTP middleware chain for the API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/duolink/cotizador/pkg/auth"
	"github.com/duolink/cotizador/pkg/response"
)

type userIDKey struct{}
type roleKey struct{}

// ProfileSource resolves a caller's profile from the users store. The role
// is intentionally NOT read from the token: it lives in a separate profile
// record keyed by the caller's identity.
type ProfileSource interface {
	// RoleByID returns the stored role string and whether the account is
	// active. A missing user must return an error.
	RoleByID(id uint) (role string, active bool, err error)
}

// Auth validates the bearer token, resolves the caller's role from the
// profile store, and injects both into the request context.
func Auth(profiles ProfileSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				response.Unauthorized(w)
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			role, active, err := profiles.RoleByID(claims.UserID)
			if err != nil || !active {
				response.Unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
			ctx = context.WithValue(ctx, roleKey{}, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromCtx returns the authenticated caller's user ID.
func UserIDFromCtx(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey{}).(uint)
	return id, ok
}

// RoleFromCtx returns the caller's role string as stored in the profile
// record. Callers must treat unknown values as unauthorized.
func RoleFromCtx(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey{}).(string)
	return role, ok
}
