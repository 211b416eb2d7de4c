package httpx

import (
	"net/http"
	"slices"
	"strings"
)

// RequireAnyRole enforces that the authenticated identity holds one of the
// allowed roles. A request with no identity (guard ordered before
// AuthnMiddleware, or authentication failed open) gets 401, distinct from
// the 403 an authenticated-but-wrong-role caller gets. Disclosing the
// permitted role set in the 403 body is fine for this threat model: the
// caller already knows who they are.
func RequireAnyRole(allowed ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, "Not authenticated.")
				return
			}

			if !slices.Contains(allowed, id.Role) {
				WriteJSON(w, http.StatusForbidden, map[string]any{
					"status":        "error",
					"message":       "Access denied. Allowed roles: " + strings.Join(allowed, ", "),
					"allowed_roles": allowed,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
