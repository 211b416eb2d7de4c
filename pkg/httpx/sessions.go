package httpx

import (
	"net/http"
	"time"

	"github.com/openhire/jobboard/pkg/tokenx"
)

// Cookie names for the two halves of a session. Both are HttpOnly,
// SameSite=Strict and scoped to the whole site.
const (
	AccessCookie  = "access"
	RefreshCookie = "refresh"
)

// SessionManager binds the token codec to the HTTP request/response cycle.
// It owns the two signing secrets, the cookie attributes and the TTLs, so
// issuing and clearing can never drift apart. A session is nothing but the
// two cookies: there is no server-side session record, and revocation
// before natural expiry is only possible by rotating the secrets.
type SessionManager struct {
	Codec *tokenx.Codec

	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Secure controls the cookie Secure attribute. Leave it on everywhere
	// except local non-TLS development.
	Secure bool
}

// IssueSession mints both tokens for the identity and sets both cookies.
func (m *SessionManager) IssueSession(w http.ResponseWriter, id tokenx.Identity) error {
	if err := m.IssueAccess(w, id); err != nil {
		return err
	}

	refresh, err := m.Codec.Issue(id, m.RefreshSecret, m.RefreshTTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(RefreshCookie, refresh, m.RefreshTTL))
	return nil
}

// IssueAccess mints a new access token only, leaving any refresh cookie
// untouched. Used by the refresh endpoint and by guard-triggered renewal:
// refresh tokens are fixed-lifetime, which bounds the maximum session
// length regardless of access-token churn.
func (m *SessionManager) IssueAccess(w http.ResponseWriter, id tokenx.Identity) error {
	access, err := m.Codec.Issue(id, m.AccessSecret, m.AccessTTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(AccessCookie, access, m.AccessTTL))
	return nil
}

// ClearSession expires both cookies. The attributes must mirror the ones
// used at set time or real browsers silently keep the cookie.
func (m *SessionManager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(AccessCookie, "", -time.Second))
	http.SetCookie(w, m.cookie(RefreshCookie, "", -time.Second))
}

// VerifyAccess verifies a raw access token.
func (m *SessionManager) VerifyAccess(raw string) (tokenx.Identity, error) {
	return m.Codec.Verify(raw, m.AccessSecret)
}

// VerifyRefresh verifies a raw refresh token.
func (m *SessionManager) VerifyRefresh(raw string) (tokenx.Identity, error) {
	return m.Codec.Verify(raw, m.RefreshSecret)
}

func (m *SessionManager) cookie(name, value string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}

	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
