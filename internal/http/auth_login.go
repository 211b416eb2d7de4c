package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openhire/jobboard/internal/service"
	"github.com/openhire/jobboard/pkg/httpx"
	"github.com/openhire/jobboard/pkg/slogx"
	"github.com/openhire/jobboard/pkg/tokenx"
)

type LoginHandler struct {
	AuthService *service.AuthService
	Sessions    *httpx.SessionManager
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status string       `json:"status"`
	User   UserResponse `json:"user"`
}

// ServeHTTP handles credential login.
//
//	@Summary		Log in with email and password
//	@Description	Verifies credentials and establishes a session via two HttpOnly cookies.
//	@Description	Failures do not reveal whether the account or the password was wrong.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	loginResponse	"Session established"
//	@Failure		400		{object}	httpx.ErrorResponse	"Malformed request body"
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	httpx.ErrorResponse	"Too many login attempts"
//	@Failure		500		{object}	httpx.ErrorResponse	"Internal server error"
//	@Router			/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	id := tokenx.Identity{UserID: user.ID, Role: user.Role, Email: user.Email}
	if err := h.Sessions.IssueSession(w, id); err != nil {
		log.Error("failed to issue session", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Status: "success",
		User:   userResponseFrom(user),
	})
}
