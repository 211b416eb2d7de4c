package http

import (
	"net/http"

	"github.com/openhire/jobboard/pkg/httpx"
)

type LogoutHandler struct {
	Sessions *httpx.SessionManager
}

// ServeHTTP clears both session cookies. Always succeeds: logging out
// without a session is not an error, and there is no server-side state to
// tear down.
//
//	@Summary		Log out
//	@Description	Expires both session cookies. Idempotent.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]string	"Logged out"
//	@Router			/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Sessions.ClearSession(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Logged out.",
	})
}
