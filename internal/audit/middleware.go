package audit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/openhire/jobboard/pkg/httpx"
)

const (
	loginMethod = http.MethodPost
	loginPath   = "/auth/login"
)

// Middleware records every login attempt with its final outcome. It wraps
// the response writer rather than the request entry so the logged status
// code reflects what was actually sent, including rejections produced by
// guards further down the chain. Non-login requests pass through
// untouched.
func (l *Log) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != loginMethod || r.URL.Path != loginPath {
				next.ServeHTTP(w, r)
				return
			}

			// The claimed email lives in the body, which the handler will
			// consume; peek it and hand the handler a replayable copy.
			email := "unknown"
			if r.Body != nil {
				body, err := io.ReadAll(r.Body)
				if err == nil {
					r.Body = io.NopCloser(bytes.NewReader(body))
					if claimed := claimedEmail(body); claimed != "" {
						email = claimed
					}
				}
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			// The attempt already happened; append even if the client has
			// gone away.
			l.Append(Entry{
				Timestamp:  time.Now().UTC(),
				IP:         httpx.IPKeyExtractor(r),
				Method:     r.Method,
				Path:       r.URL.Path,
				StatusCode: sw.status,
				UserAgent:  userAgent(r),
				Email:      email,
				Success:    sw.status < 400,
			})
		})
	}
}

func claimedEmail(body []byte) string {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Email
}

func userAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return "unknown"
}

type statusWriter struct {
	http.ResponseWriter

	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}
