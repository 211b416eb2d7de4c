package httpx

import (
	"errors"
	"net/http"

	"github.com/openhire/jobboard/pkg/slogx"
	"github.com/openhire/jobboard/pkg/tokenx"
)

// AuthnMiddleware resolves the caller's identity from the access cookie.
//
// Per-request outcomes:
//   - no access cookie: 401, even if a refresh cookie is present (renewal
//     is only for expiry, never for absence)
//   - access token verifies: identity attached to context, proceed
//   - access token malformed or forged: clear both cookies, 403, no
//     renewal attempt
//   - access token expired: renew transparently from the refresh cookie
//     when it verifies, otherwise clear both cookies and 401
//
// Renewal mints a new access cookie carrying the refresh token's embedded
// identity unchanged, so it can never escalate privilege.
func AuthnMiddleware(sessions *SessionManager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			cookie, err := r.Cookie(AccessCookie)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "Not authenticated. Please log in to continue.")
				return
			}

			id, err := sessions.VerifyAccess(cookie.Value)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, id)))
				return
			}

			if !errors.Is(err, tokenx.ErrExpired) {
				// Malformed or forged: treat as tampering, not a renewable
				// condition.
				log.Warn("access token rejected", "err", err)
				sessions.ClearSession(w)
				WriteError(w, http.StatusForbidden, "Invalid token. Please log in again.")
				return
			}

			refreshCookie, err := r.Cookie(RefreshCookie)
			if err != nil {
				sessions.ClearSession(w)
				WriteError(w, http.StatusUnauthorized, "Session expired. Please log in again.")
				return
			}

			id, err = sessions.VerifyRefresh(refreshCookie.Value)
			if err != nil {
				log.Warn("session renewal failed", "err", err)
				sessions.ClearSession(w)
				WriteError(w, http.StatusUnauthorized, "Session expired. Please log in again.")
				return
			}

			// Single-request transparent renewal: the caller never gets
			// bounced to a login page for an expired access token alone.
			if err := sessions.IssueAccess(w, id); err != nil {
				log.Error("failed to mint renewed access token", "err", err)
				WriteError(w, http.StatusInternalServerError, "Internal server error.")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, id)))
		})
	}
}
