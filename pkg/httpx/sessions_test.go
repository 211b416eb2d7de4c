package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openhire/jobboard/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestIssueSessionSetsBothCookies(t *testing.T) {
	sessions := testSessions()
	sessions.Secure = true

	rec := httptest.NewRecorder()
	require.NoError(t, sessions.IssueSession(rec, testIdentity))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	access := byName[httpx.AccessCookie]
	require.NotNil(t, access)
	require.NotEmpty(t, access.Value)
	require.Equal(t, "/", access.Path)
	require.Equal(t, int((15 * time.Minute).Seconds()), access.MaxAge)
	require.True(t, access.HttpOnly)
	require.True(t, access.Secure)
	require.Equal(t, http.SameSiteStrictMode, access.SameSite)

	refresh := byName[httpx.RefreshCookie]
	require.NotNil(t, refresh)
	require.NotEmpty(t, refresh.Value)
	require.Equal(t, int((7 * 24 * time.Hour).Seconds()), refresh.MaxAge)

	// The two cookies hold different tokens under different secrets.
	id, err := sessions.VerifyAccess(access.Value)
	require.NoError(t, err)
	require.Equal(t, testIdentity, id)

	id, err = sessions.VerifyRefresh(refresh.Value)
	require.NoError(t, err)
	require.Equal(t, testIdentity, id)

	_, err = sessions.VerifyAccess(refresh.Value)
	require.Error(t, err)
}

func TestClearSessionMirrorsAttributes(t *testing.T) {
	sessions := testSessions()
	sessions.Secure = true

	rec := httptest.NewRecorder()
	sessions.ClearSession(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	for _, c := range cookies {
		require.Empty(t, c.Value)
		require.Equal(t, -1, c.MaxAge)

		// Browsers only drop a cookie when the clearing attributes match
		// the setting ones exactly.
		require.Equal(t, "/", c.Path)
		require.True(t, c.HttpOnly)
		require.True(t, c.Secure)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
	}
}

func TestSecureDefaultsOffInDev(t *testing.T) {
	sessions := testSessions() // Secure not set

	rec := httptest.NewRecorder()
	require.NoError(t, sessions.IssueAccess(rec, testIdentity))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.False(t, cookies[0].Secure)
}
