package http

import (
	"net/http"
	"time"

	"github.com/openhire/jobboard/internal/store"
	"github.com/openhire/jobboard/pkg/httpx"
)

type healthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// HealthHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Returns service status, uptime and version. Reports degraded when the database is unreachable.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	healthResponse	"status, uptime, version"
//	@Failure		503	{object}	healthResponse	"database unreachable"
//	@Router			/ [get].
func HealthHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := healthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}

		code := http.StatusOK
		if err := st.Ping(r.Context()); err != nil {
			response.Status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, response)
	}
}
