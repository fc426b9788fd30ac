package handler

import (
	"net/http"

	"github.com/Rrens/seo-writer/internal/api/middleware"
	"github.com/Rrens/seo-writer/internal/api/response"
	"github.com/Rrens/seo-writer/internal/domain"
	"github.com/Rrens/seo-writer/internal/service"
)

// AuthHandler handles authentication and profile endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input domain.UserCreate
	if !decode(w, r, &input) {
		return
	}

	result, err := h.authService.Register(r.Context(), input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, result)
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.UserLogin
	if !decode(w, r, &input) {
		return
	}

	result, err := h.authService.Login(r.Context(), input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, result)
}

// Refresh handles token refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if !decode(w, r, &input) {
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), input.RefreshToken)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, tokens)
}

// Profile returns the current authenticated user
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		response.Unauthorized(w, "please authenticate")
		return
	}

	response.OK(w, user)
}

// UpdateProfile changes name, password or preferred language
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		response.Unauthorized(w, "please authenticate")
		return
	}

	var input domain.UserUpdate
	if !decodeUpdate(w, r, &input, domain.ProfileUpdateFields) {
		return
	}

	updated, err := h.authService.UpdateProfile(r.Context(), user.ID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, updated)
}
