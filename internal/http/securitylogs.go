package http

import (
	"net/http"
	"strconv"

	"github.com/openhire/jobboard/internal/audit"
	"github.com/openhire/jobboard/pkg/httpx"
	"github.com/openhire/jobboard/pkg/slogx"
)

type SecurityLogsHandler struct {
	Audit *audit.Log
}

type securityLogsResponse struct {
	Status  string        `json:"status"`
	Count   int           `json:"count"`
	Entries []audit.Entry `json:"entries"`
}

// ServeHTTP returns recent login-attempt records, newest first. Admin only;
// the role check runs in the route chain before this handler.
//
//	@Summary		Query the security audit log
//	@Description	Returns up to `limit` recent login attempts, newest first. Capped at 100.
//	@Tags			Admin
//	@Produce		json
//	@Param			limit	query		int						false	"Maximum entries to return (default and cap 100)"
//	@Success		200		{object}	securityLogsResponse	"Recent entries"
//	@Failure		401		{object}	httpx.ErrorResponse		"Not authenticated"
//	@Failure		403		{object}	httpx.ErrorResponse		"Admin role required"
//	@Failure		500		{object}	httpx.ErrorResponse		"Internal server error"
//	@Router			/auth/security-logs [get].
func (h *SecurityLogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "limit must be an integer.")
			return
		}
		limit = n
	}

	entries, err := h.Audit.Recent(limit)
	if err != nil {
		log.Error("failed to read security log", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, securityLogsResponse{
		Status:  "success",
		Count:   len(entries),
		Entries: entries,
	})
}
