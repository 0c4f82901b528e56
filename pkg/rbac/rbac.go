// Package rbac defines the closed role set and the access policy that gates
// both restricted routes and privileged operations.
package rbac

import (
	"fmt"
	"net/http"

	"github.com/duolink/cotizador/pkg/middleware"
	"github.com/duolink/cotizador/pkg/response"
)

// Role is a closed enumeration. Profile records read from the users store
// must parse into one of these; unknown strings are rejected rather than
// silently mapped to least or most privileged.
type Role string

const (
	RoleWorker     Role = "worker"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// rank orders roles for tier checks. Zero means "not a role" and is what an
// unauthenticated caller carries, so it satisfies nothing.
var rank = map[Role]int{
	RoleWorker:     1,
	RoleAdmin:      2,
	RoleSuperadmin: 3,
}

// ParseRole validates a role string read from the identity store.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := rank[r]; !ok {
		return "", fmt.Errorf("rbac: unrecognized role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// IsAllowed reports whether a caller holding callerRole satisfies the
// requiredRole tier. The admin tier is satisfied by admin or superadmin;
// the superadmin tier only by superadmin. An empty or unknown caller role
// (unauthenticated, or a corrupt profile record) is always denied.
func IsAllowed(callerRole, requiredRole Role) bool {
	cr, ok := rank[callerRole]
	if !ok {
		return false
	}
	rr, ok := rank[requiredRole]
	if !ok {
		return false
	}
	return cr >= rr
}

// Require returns middleware that admits only callers whose role satisfies
// the required tier. The Auth middleware must have run first so the role is
// in the request context.
func Require(required Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r.Context())
			if !ok || !IsAllowed(Role(role), required) {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
