package handler

import (
	"net/http"

	"github.com/mcoot/podtracker/internal/api/middleware"
	"github.com/mcoot/podtracker/internal/api/request"
	"github.com/mcoot/podtracker/internal/api/response"
	"github.com/mcoot/podtracker/internal/services/user"
)

// UserHandler handles account and login endpoints
type UserHandler struct {
	users *user.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *user.Service) *UserHandler {
	return &UserHandler{users: users}
}

// Register handles POST /api/v1/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	profile, err := h.users.Register(r.Context(), user.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.UserFromModel(profile))
}

// Login handles POST /api/v1/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := h.users.AuthenticateCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/auth/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Logout(r.Context(), middleware.GetToken(r.Context())); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	profile, err := h.users.GetCurrentUser(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(profile))
}

// UpdateMe handles PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	var req request.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}

	profile, err := h.users.UpdateProfile(r.Context(), id, user.ProfileUpdate{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(profile))
}

// DeleteMe handles DELETE /api/v1/users/me. The caller's token is revoked
// once the account is gone.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	if err := h.users.DeleteAccount(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.users.Logout(r.Context(), middleware.GetToken(r.Context())); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
