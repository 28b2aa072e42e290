package controllers

import (
	"net/http"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/middleware"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/policy"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserController serves profiles and user management
type UserController struct {
	Users  *services.UserService
	Auth0  services.UserInfoFetcher
	Policy *policy.Policy
	Log    *zap.Logger
}

// RegisterProfile handles POST /api/v1/users/me - creates the caller's profile
// from Auth0 userinfo on first sign-in, or returns the existing one
func (h *UserController) RegisterProfile(c *gin.Context) {
	// Get the Auth0 user ID from the validated JWT
	uid, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user ID from token")
		return
	}

	// Get the access token to call Auth0's /userinfo endpoint
	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Access token not found")
		return
	}

	userInfo, err := h.Auth0.GetUserInfo(c.Request.Context(), accessToken)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to fetch user information from Auth0")
		return
	}

	if userInfo.Email == "" {
		respondError(c, http.StatusBadRequest, "MISSING_EMAIL", "Email not provided by Auth0")
		return
	}

	user, created, err := h.Users.EnsureProfile(c.Request.Context(), uid, userInfo.Email)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to create user")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondOK(c, status, user)
}

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile.
// Pending and inactive users may read their own profile.
func (h *UserController) GetMyProfile(c *gin.Context) {
	uid, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	user, err := h.Users.Get(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to fetch user profile")
		return
	}

	respondOK(c, http.StatusOK, user)
}

// GetMyAccess handles GET /api/v1/users/me/access - the tabs and capabilities
// of the current user
func (h *UserController) GetMyAccess(c *gin.Context) {
	profile, err := middleware.CurrentProfile(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	respondOK(c, http.StatusOK, h.Policy.AccessFor(profile))
}

// UpdateMyProfile handles PATCH /api/v1/users/me - updates the current user's
// contact details
func (h *UserController) UpdateMyProfile(c *gin.Context) {
	profile, err := middleware.CurrentProfile(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req services.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.Users.Update(c.Request.Context(), profile, profile.UID, req)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to update user profile")
		return
	}

	respondOK(c, http.StatusOK, user)
}

// ListUsers handles GET /api/v1/users
func (h *UserController) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to fetch users")
		return
	}

	respondOK(c, http.StatusOK, users)
}

// CreateUser handles POST /api/v1/users - invites a user ahead of their first sign-in
func (h *UserController) CreateUser(c *gin.Context) {
	var req services.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.Users.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to create user")
		return
	}

	respondOK(c, http.StatusCreated, user)
}

// UpdateUser handles PATCH /api/v1/users/:uid - edits another user's profile
func (h *UserController) UpdateUser(c *gin.Context) {
	profile, err := middleware.CurrentProfile(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req services.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.Users.Update(c.Request.Context(), profile, c.Param("uid"), req)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to update user")
		return
	}

	respondOK(c, http.StatusOK, user)
}
