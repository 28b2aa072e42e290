package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/policy"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextProfile holds the *models.User of the signed-in user
const ContextProfile = "profile"

// ProfileStore looks up staff profiles
type ProfileStore interface {
	Get(ctx context.Context, uid string) (*models.User, error)
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// LoadProfile loads the profile of the authenticated user and only lets
// active accounts through. It must run after EnsureValidToken.
func LoadProfile(users ProfileStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := GetUserID(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
			return
		}

		user, err := users.Get(c.Request.Context(), uid)
		if errors.Is(err, services.ErrUserNotFound) {
			abortWithError(c, http.StatusForbidden, "PROFILE_NOT_FOUND", "User profile not found. Please complete registration first.")
			return
		}
		if err != nil {
			log.Error("failed to load profile", zap.String("uid", uid), zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load user profile")
			return
		}

		switch user.Status {
		case models.UserStatusActive:
		case models.UserStatusInactive:
			abortWithError(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "Je account is gedeactiveerd. Neem contact op met een beheerder.")
			return
		default:
			abortWithError(c, http.StatusForbidden, "ACCOUNT_PENDING", "Je account wacht op goedkeuring door een beheerder.")
			return
		}

		c.Set(ContextProfile, user)
		c.Next()
	}
}

// CurrentProfile returns the profile stored by LoadProfile
func CurrentProfile(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(ContextProfile)
	if !exists {
		return nil, &AuthError{Code: "MISSING_PROFILE", Message: "Profile not found in context"}
	}
	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, &AuthError{Code: "INVALID_PROFILE", Message: "Profile is not in the expected format"}
	}
	return user, nil
}

// RequireTab only lets users through whose role may open tab
func RequireTab(pol *policy.Policy, tab policy.Tab) gin.HandlerFunc {
	return RequireCapability(func(role models.Role) bool {
		return pol.Allows(role, tab)
	})
}

// RequireCapability only lets users through whose role passes allowed
func RequireCapability(allowed func(models.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := CurrentProfile(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
			return
		}
		if !allowed(user.Role) {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "Geen toegang")
			return
		}
		c.Next()
	}
}
