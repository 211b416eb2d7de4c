package httpx

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/openhire/jobboard/pkg/slogx"
)

// RateLimitConfig defines fixed-window rate limiting parameters. A counter
// per key resets entirely when its window elapses; bursts straddling a
// window boundary are accepted, which slows brute force without trying to
// eliminate it.
type RateLimitConfig struct {
	// Requests is the number of requests allowed per window.
	Requests int
	// Window is the fixed counting window.
	Window time.Duration
	// Message, when set, is returned to the caller on rejection instead of
	// the generic rate-limit message.
	Message string
}

// Rate limit profiles. Keying is per client network address, which is
// coarse for clients behind shared NAT or proxies; accepted for now.
var (
	// LoginLimit protects credential-guessing surfaces.
	// Override with: RATELIMIT_LOGIN_REQUESTS, RATELIMIT_LOGIN_WINDOW_SEC
	LoginLimit = RateLimitConfig{
		Requests: 5,
		Window:   15 * time.Minute,
		Message:  "Too many login attempts. Please try again in 15 minutes.",
	}

	// APILimit applies globally ahead of routing.
	// Override with: RATELIMIT_API_REQUESTS, RATELIMIT_API_WINDOW_SEC
	APILimit = RateLimitConfig{
		Requests: 100,
		Window:   15 * time.Minute,
	}
)

func init() {
	// Allow overriding rate limits via environment variables (useful for testing)
	LoginLimit = ParseRateLimitFromEnv("LOGIN", LoginLimit)
	APILimit = ParseRateLimitFromEnv("API", APILimit)
}

// ParseRateLimitFromEnv reads rate limit configuration from environment
// variables following the pattern RATELIMIT_{prefix}_{field}, e.g.
// RATELIMIT_LOGIN_REQUESTS and RATELIMIT_LOGIN_WINDOW_SEC.
func ParseRateLimitFromEnv(prefix string, defaultConfig RateLimitConfig) RateLimitConfig {
	config := defaultConfig

	if val := os.Getenv("RATELIMIT_" + prefix + "_REQUESTS"); val != "" {
		if requests, err := strconv.Atoi(val); err == nil && requests > 0 {
			config.Requests = requests
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC"); val != "" {
		if windowSec, err := strconv.Atoi(val); err == nil && windowSec > 0 {
			config.Window = time.Duration(windowSec) * time.Second
		}
	}

	return config
}

// KeyExtractor is a function that extracts a unique key from the request
// for rate limiting purposes (e.g., IP address).
type KeyExtractor func(*http.Request) string

// IPKeyExtractor extracts the client IP address from the request.
// It handles X-Forwarded-For and X-Real-IP headers for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	// Check X-Forwarded-For header (comma-separated list)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fallback to RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

type window struct {
	count   int
	resetAt time.Time
}

// fixedWindowLimiter counts requests per key in discrete, non-overlapping
// windows. The single mutex gives exact increment-and-compare semantics
// under concurrent requests.
type fixedWindowLimiter struct {
	mu      sync.Mutex
	windows map[string]*window

	limit     int
	window    time.Duration
	lastSweep time.Time
}

func newFixedWindowLimiter(limit int, win time.Duration) *fixedWindowLimiter {
	return &fixedWindowLimiter{
		windows:   make(map[string]*window),
		limit:     limit,
		window:    win,
		lastSweep: time.Now(),
	}
}

// take records one request for key and reports whether it is within the
// limit, along with the remaining quota and the window reset time.
func (l *fixedWindowLimiter) take(key string, now time.Time) (allowed bool, remaining int, resetAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeSweep(now)

	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.window)}
		l.windows[key] = w
	}

	w.count++
	if w.count > l.limit {
		return false, 0, w.resetAt
	}
	return true, l.limit - w.count, w.resetAt
}

// maybeSweep drops elapsed windows so ephemeral keys don't accumulate
// forever. Runs at most once per window, under the lock.
func (l *fixedWindowLimiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now

	for key, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, key)
		}
	}
}

// RateLimitMiddleware creates a fixed-window rate limiting middleware.
// The keyExtractor determines how requests are grouped. Standard
// X-RateLimit headers are emitted on every response so well-behaved
// clients can back off before hitting the limit.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	limiter := newFixedWindowLimiter(config.Requests, config.Window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			key := keyExtractor(r)
			if key == "" {
				// If we can't extract a key, allow the request but log it
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			now := time.Now()
			allowed, remaining, resetAt := limiter.take(key, now)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !allowed {
				retryAfter := max(int(resetAt.Sub(now).Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				log.Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)

				message := config.Message
				if message == "" {
					message = "Too many requests. Please try again later."
				}
				WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"status":  "error",
					"error":   "rate_limit_exceeded",
					"message": message,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP creates a rate limiter that limits by IP address only.
func RateLimitByIP(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, IPKeyExtractor)
}
