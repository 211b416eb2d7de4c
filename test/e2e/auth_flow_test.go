package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/openhire/jobboard/internal/audit"
	httpapi "github.com/openhire/jobboard/internal/http"
	"github.com/openhire/jobboard/internal/service"
	"github.com/openhire/jobboard/internal/store/drivers/sqlite"
	"github.com/openhire/jobboard/pkg/httpx"
	"github.com/openhire/jobboard/pkg/slogx"
	"github.com/openhire/jobboard/pkg/tokenx"
	"github.com/stretchr/testify/require"
)

type env struct {
	Server   *httptest.Server
	Client   *http.Client
	Audit    *audit.Log
	Sessions *httpx.SessionManager
}

// setupServer wires the full stack in-process: sqlite store in a temp dir,
// audit log, session manager and router. Short TTLs let expiry paths run
// in real time.
func setupServer(t *testing.T, accessTTL, refreshTTL time.Duration) *env {
	t.Helper()

	dir := t.TempDir()
	logger := slogx.New(slogx.Config{Service: "e2e", Format: "text", Level: "error"})

	st, err := sqlite.NewStore("file:" + filepath.Join(dir, "e2e.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	auditLog, err := audit.Open(filepath.Join(dir, "security.log"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = auditLog.Close() })

	sessions := &httpx.SessionManager{
		Codec:         &tokenx.Codec{Issuer: "e2e"},
		AccessSecret:  []byte("e2e-access-secret"),
		RefreshSecret: []byte("e2e-refresh-secret"),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}

	router := httpapi.NewRouter(sessions, auditLog, st, logger, httpapi.RouterConfig{
		Env:          "dev",
		BuildVersion: "e2e",
		MaxBodyBytes: 10240,
	})
	router.AuthService = &service.AuthService{Store: st}
	router.UserService = &service.UserService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &env{
		Server:   server,
		Client:   &http.Client{Jar: jar},
		Audit:    auditLog,
		Sessions: sessions,
	}
}

func (e *env) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := e.Client.Post(e.Server.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func (e *env) get(t *testing.T, path string) *http.Response {
	t.Helper()

	resp, err := e.Client.Get(e.Server.URL + path)
	require.NoError(t, err)
	return resp
}

func (e *env) register(t *testing.T, name, email, password, role string) {
	t.Helper()

	resp := e.postJSON(t, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func (e *env) cookie(t *testing.T, name string) *http.Cookie {
	t.Helper()

	u, err := url.Parse(e.Server.URL)
	require.NoError(t, err)
	for _, c := range e.Client.Jar.Cookies(u) {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestRegisterLoginMe(t *testing.T) {
	e := setupServer(t, 15*time.Minute, 7*24*time.Hour)

	e.register(t, "Alice Example", "alice@example.com", "secret123", "")

	require.NotNil(t, e.cookie(t, httpx.AccessCookie), "register establishes a session")
	require.NotNil(t, e.cookie(t, httpx.RefreshCookie))

	resp := e.postJSON(t, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginBody struct {
		Status string `json:"status"`
		User   struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decodeJSON(t, resp, &loginBody)
	require.Equal(t, "success", loginBody.Status)
	require.Equal(t, "candidate", loginBody.User.Role)

	resp = e.get(t, "/auth/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	decodeJSON(t, resp, &me)
	require.Equal(t, loginBody.User.ID, me.ID)
	require.Equal(t, "alice@example.com", me.Email)
}

func TestLoginRateLimit(t *testing.T) {
	e := setupServer(t, 15*time.Minute, 7*24*time.Hour)
	e.register(t, "Alice Example", "alice@example.com", "secret123", "")

	login := func(password string) *http.Response {
		return e.postJSON(t, "/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": password,
		})
	}

	// Five attempts per window, wrong or right. Four wrong guesses and one
	// correct login fill the quota.
	for range 4 {
		resp := login("wrong-password")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}

	resp := login("secret123")
	require.Equal(t, http.StatusOK, resp.StatusCode, "correct password before the limit still works")
	resp.Body.Close()

	resp = login("secret123")
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "limit counts successes too")
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
	require.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	decodeJSON(t, resp, &body)
	require.Equal(t, "rate_limit_exceeded", body.Error)
	require.Contains(t, body.Message, "try again in 15 minutes")
}

func TestTransparentRenewal(t *testing.T) {
	e := setupServer(t, 1*time.Second, 7*24*time.Hour)
	e.register(t, "Alice Example", "alice@example.com", "secret123", "")

	before := e.cookie(t, httpx.AccessCookie)
	require.NotNil(t, before)

	time.Sleep(1200 * time.Millisecond)

	resp := e.get(t, "/auth/me")
	require.Equal(t, http.StatusOK, resp.StatusCode, "expired access renews from the refresh cookie")
	resp.Body.Close()

	after := e.cookie(t, httpx.AccessCookie)
	require.NotNil(t, after)
	require.NotEqual(t, before.Value, after.Value, "a fresh access token was minted")

	id, err := e.Sessions.VerifyAccess(after.Value)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", id.Email, "renewal carries the identity unchanged")
}

func TestSessionFullyExpired(t *testing.T) {
	e := setupServer(t, 500*time.Millisecond, 1*time.Second)
	e.register(t, "Alice Example", "alice@example.com", "secret123", "")

	time.Sleep(1200 * time.Millisecond)

	resp := e.get(t, "/auth/me")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// The guard expired both cookies; the jar must have dropped them.
	require.Nil(t, e.cookie(t, httpx.AccessCookie))
	require.Nil(t, e.cookie(t, httpx.RefreshCookie))
}

func TestRefreshEndpoint(t *testing.T) {
	e := setupServer(t, 15*time.Minute, 7*24*time.Hour)
	e.register(t, "Alice Example", "alice@example.com", "secret123", "")

	before := e.cookie(t, httpx.AccessCookie)
	refreshBefore := e.cookie(t, httpx.RefreshCookie)

	time.Sleep(1100 * time.Millisecond) // tokens embed second-granularity timestamps

	resp := e.postJSON(t, "/auth/refresh", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	after := e.cookie(t, httpx.AccessCookie)
	require.NotEqual(t, before.Value, after.Value)

	refreshAfter := e.cookie(t, httpx.RefreshCookie)
	require.Equal(t, refreshBefore.Value, refreshAfter.Value, "refresh cookie is never reissued")
}

func TestLogout(t *testing.T) {
	e := setupServer(t, 15*time.Minute, 7*24*time.Hour)
	e.register(t, "Alice Example", "alice@example.com", "secret123", "")

	resp := e.postJSON(t, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Nil(t, e.cookie(t, httpx.AccessCookie))
	require.Nil(t, e.cookie(t, httpx.RefreshCookie))

	resp = e.get(t, "/auth/me")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestSecurityLogsAccess(t *testing.T) {
	e := setupServer(t, 15*time.Minute, 7*24*time.Hour)
	e.register(t, "Admin", "admin@example.com", "secret123", "admin")

	// Generate one failed and one successful attempt.
	resp := e.postJSON(t, "/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = e.postJSON(t, "/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = e.get(t, "/auth/security-logs")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status  string        `json:"status"`
		Count   int           `json:"count"`
		Entries []audit.Entry `json:"entries"`
	}
	decodeJSON(t, resp, &body)
	require.Equal(t, "success", body.Status)
	require.Equal(t, 2, body.Count, "only login attempts are recorded")

	// Newest first: the successful login, then the failed one.
	require.True(t, body.Entries[0].Success)
	require.False(t, body.Entries[1].Success)
	require.Equal(t, "admin@example.com", body.Entries[1].Email)
}

func TestSecurityLogsForbiddenForNonAdmin(t *testing.T) {
	e := setupServer(t, 15*time.Minute, 7*24*time.Hour)
	e.register(t, "Alice Example", "alice@example.com", "secret123", "")

	resp := e.get(t, "/auth/security-logs")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body struct {
		Message      string   `json:"message"`
		AllowedRoles []string `json:"allowed_roles"`
	}
	decodeJSON(t, resp, &body)
	require.Equal(t, []string{"admin"}, body.AllowedRoles)
}

func TestSecurityLogsUnauthenticated(t *testing.T) {
	e := setupServer(t, 15*time.Minute, 7*24*time.Hour)

	resp := e.get(t, "/auth/security-logs")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestDuplicateRegistration(t *testing.T) {
	e := setupServer(t, 15*time.Minute, 7*24*time.Hour)
	e.register(t, "Alice Example", "alice@example.com", "secret123", "")

	resp := e.postJSON(t, "/auth/register", map[string]string{
		"name":     "Impostor",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthEndpoint(t *testing.T) {
	e := setupServer(t, 15*time.Minute, 7*24*time.Hour)

	resp := e.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	decodeJSON(t, resp, &body)
	require.Equal(t, "ok", body.Status)
	require.Equal(t, "e2e", body.Version)
}

func TestSecurityHeadersPresent(t *testing.T) {
	e := setupServer(t, 15*time.Minute, 7*24*time.Hour)

	resp := e.get(t, "/")
	defer resp.Body.Close()

	require.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	require.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
}

func TestBodySizeLimit(t *testing.T) {
	e := setupServer(t, 15*time.Minute, 7*24*time.Hour)

	huge := make([]byte, 20_000)
	for i := range huge {
		huge[i] = 'a'
	}
	payload := fmt.Sprintf(`{"email":"a@example.com","password":%q}`, huge)

	resp, err := e.Client.Post(e.Server.URL+"/auth/login", "application/json", bytes.NewReader([]byte(payload)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, "oversized bodies fail to decode")
}
