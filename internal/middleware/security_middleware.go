package middleware

import (
	"net/http"
	"strings"

	"cafe-pos/internal/auth"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

func bearerToken(c *gin.Context) string {
	// Format: "Bearer <token>"
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthMiddleware checks if the user has a valid JWT token.
// No token is 401, a bad or expired one is 403.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		// Store user info in the context for the handlers (and the audit log) to use
		id := claims.Identity()
		c.Set(identityKey, &id)
		c.Next()
	}
}

// StreamAuth is AuthMiddleware for EventSource clients, which cannot set headers.
// Without an Authorization header the token is read from ?token=.
func StreamAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	authenticate := AuthMiddleware(tokens)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if token := c.Query("token"); token != "" {
				c.Request.Header.Set("Authorization", "Bearer "+token)
			}
		}
		authenticate(c)
	}
}

// OptionalAuth attaches the identity when a valid token is sent and lets everyone through.
// Used on customer-facing routes so staff actions there are still attributed.
func OptionalAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if claims, err := tokens.ValidateToken(raw); err == nil {
				id := claims.Identity()
				c.Set(identityKey, &id)
			}
		}
		c.Next()
	}
}

// RequireRole is a secondary guard that checks for specific permissions
func RequireRole(allowedRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != allowedRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated staff member, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}
