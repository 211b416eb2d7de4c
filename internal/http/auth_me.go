package http

import (
	"errors"
	"net/http"

	"github.com/openhire/jobboard/internal/service"
	"github.com/openhire/jobboard/internal/store"
	"github.com/openhire/jobboard/pkg/httpx"
	"github.com/openhire/jobboard/pkg/slogx"
)

type MeHandler struct {
	UserService *service.UserService
}

// ServeHTTP returns the authenticated user's profile. The user is loaded
// fresh from the store rather than echoed from token claims, so a role
// change takes effect here without waiting for the token to expire.
//
//	@Summary		Get the current user
//	@Description	Returns the profile of the authenticated user.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	UserResponse		"Current user"
//	@Failure		401	{object}	httpx.ErrorResponse	"Not authenticated"
//	@Failure		404	{object}	httpx.ErrorResponse	"Account no longer exists"
//	@Failure		500	{object}	httpx.ErrorResponse	"Internal server error"
//	@Router			/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated. Please log in to continue.")
		return
	}

	user, err := h.UserService.GetUserByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Valid token for a deleted account.
			httpx.WriteError(w, http.StatusNotFound, "Account not found.")
			return
		}
		log.Error("failed to load user", "user_id", id.UserID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponseFrom(user))
}
