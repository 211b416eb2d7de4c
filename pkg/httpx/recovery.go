package httpx

import (
	"fmt"
	"net/http"

	"github.com/openhire/jobboard/pkg/slogx"
)

// Recovery is the catch-all error boundary. Handlers deal with their own
// failures; anything that still panics becomes a 500 with details
// suppressed outside dev mode.
func Recovery(env string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				slogx.FromContext(r.Context()).Error("panic recovered", "panic", rec)

				message := "Internal server error."
				if env == "dev" {
					message = fmt.Sprintf("Internal server error: %v", rec)
				}
				WriteError(w, http.StatusInternalServerError, message)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
