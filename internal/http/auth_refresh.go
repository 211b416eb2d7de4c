package http

import (
	"net/http"

	"github.com/openhire/jobboard/pkg/httpx"
	"github.com/openhire/jobboard/pkg/slogx"
)

type RefreshHandler struct {
	Sessions *httpx.SessionManager
}

// ServeHTTP mints a fresh access cookie from a valid refresh cookie. The
// refresh cookie itself is never reissued here, so the maximum session
// length stays bounded by the refresh TTL set at login.
//
//	@Summary		Refresh the access token
//	@Description	Issues a new access cookie from the refresh cookie. Does not extend the session.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]string	"Access token renewed"
//	@Failure		401	{object}	httpx.ErrorResponse	"Missing or invalid refresh token"
//	@Failure		500	{object}	httpx.ErrorResponse	"Internal server error"
//	@Router			/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	cookie, err := r.Cookie(httpx.RefreshCookie)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated. Please log in to continue.")
		return
	}

	id, err := h.Sessions.VerifyRefresh(cookie.Value)
	if err != nil {
		log.Warn("refresh rejected", "err", err)
		h.Sessions.ClearSession(w)
		httpx.WriteError(w, http.StatusUnauthorized, "Session expired. Please log in again.")
		return
	}

	if err := h.Sessions.IssueAccess(w, id); err != nil {
		log.Error("failed to mint renewed access token", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Access token renewed.",
	})
}
