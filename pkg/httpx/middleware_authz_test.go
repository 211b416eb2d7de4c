package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openhire/jobboard/pkg/httpx"
	"github.com/openhire/jobboard/pkg/tokenx"
	"github.com/stretchr/testify/require"
)

func TestRequireAnyRole(t *testing.T) {
	sessions := testSessions()

	handler := func(roles ...string) http.Handler {
		return httpx.Chain(okHandler(),
			httpx.AuthnMiddleware(sessions),
			httpx.RequireAnyRole(roles...),
		)
	}

	authed := func(role string) *http.Request {
		id := tokenx.Identity{UserID: "u1", Role: role, Email: "u1@example.com"}
		raw, err := sessions.Codec.Issue(id, sessions.AccessSecret, time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/security-logs", nil)
		req.AddCookie(&http.Cookie{Name: httpx.AccessCookie, Value: raw})
		return req
	}

	t.Run("allowed role", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler("admin").ServeHTTP(rec, authed("admin"))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("any of several roles", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler("admin", "company").ServeHTTP(rec, authed("company"))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler("admin").ServeHTTP(rec, authed("candidate"))
		require.Equal(t, http.StatusForbidden, rec.Code)

		// The permitted role set is disclosed to authenticated callers.
		require.Contains(t, rec.Body.String(), "admin")
	})

	t.Run("no identity yields 401 not 403", func(t *testing.T) {
		// Guard invoked without the authentication middleware in front.
		h := httpx.Chain(okHandler(), httpx.RequireAnyRole("admin"))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/security-logs", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
