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

type RegisterHandler struct {
	AuthService *service.AuthService
	Sessions    *httpx.SessionManager
}

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Disability string `json:"disability"`
}

// ServeHTTP handles account creation. New accounts are logged in
// immediately, same as a successful login.
//
//	@Summary		Register a new account
//	@Description	Creates a user and establishes a session. Role defaults to candidate.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"Account details"
//	@Success		201		{object}	loginResponse	"Account created, session established"
//	@Failure		400		{object}	httpx.ErrorResponse	"Missing or malformed fields"
//	@Failure		409		{object}	httpx.ErrorResponse	"Email already registered"
//	@Failure		429		{object}	httpx.ErrorResponse	"Too many attempts"
//	@Failure		500		{object}	httpx.ErrorResponse	"Internal server error"
//	@Router			/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.AuthService.Register(ctx, service.RegisterParams{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Disability: req.Disability,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteError(w, http.StatusBadRequest, "Name, email and a password of at least 6 characters are required.")
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, "An account with this email already exists.")
		default:
			log.Error("registration failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	id := tokenx.Identity{UserID: user.ID, Role: user.Role, Email: user.Email}
	if err := h.Sessions.IssueSession(w, id); err != nil {
		log.Error("failed to issue session", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, loginResponse{
		Status: "success",
		User:   userResponseFrom(user),
	})
}
