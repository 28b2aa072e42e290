package testutil

import (
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/middleware"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://test.auth0.com/",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{},
	}
}

// SetMockAuthContext stores the context values EnsureValidToken sets for a
// valid token
func SetMockAuthContext(c *gin.Context, uid, accessToken string) {
	c.Set(middleware.ContextUserID, uid)
	c.Set(middleware.ContextAccessToken, accessToken)
	c.Set(middleware.ContextClaims, MockValidatedClaims(uid))
}

// MockAuthMiddleware stands in for EnsureValidToken and authenticates every
// request as uid
func MockAuthMiddleware(uid, accessToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, uid, accessToken)
		c.Next()
	}
}
