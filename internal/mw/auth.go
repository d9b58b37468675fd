package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gmao-backend/internal/auth"
)

const (
	// CtxUserID is the gin context key holding the authenticated user ID.
	CtxUserID = "auth.userID"
	// CtxRoles is the gin context key holding the authenticated user's roles.
	CtxRoles = "auth.roles"
)

// Authenticate validates the Bearer token and stores the caller's identity
// on the request context. Requests without a valid token get 401.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := auth.ParseAccessToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRoles, claims.Roles)
		c.Next()
	}
}

// RequireRole rejects callers whose role set does not satisfy any of the
// required roles. Must run after Authenticate.
func RequireRole(required ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := Roles(c)
		if !auth.HasRole(roles, required...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// Roles returns the authenticated caller's roles, or nil when unauthenticated.
func Roles(c *gin.Context) []string {
	v, ok := c.Get(CtxRoles)
	if !ok {
		return nil
	}
	roles, _ := v.([]string)
	return roles
}

// UserID returns the authenticated caller's user ID, or "" when unauthenticated.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
