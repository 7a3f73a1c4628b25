package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillpath/user-service/internal/auth"
	"github.com/skillpath/user-service/internal/models"
)

// JWTAuthMiddleware authenticates requests with the bearer tokens issued by
// the signin endpoint.
type JWTAuthMiddleware struct {
	signer *auth.Signer
}

func NewJWTAuthMiddleware(signer *auth.Signer) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{signer: signer}
}

// AuthMiddleware validates the Authorization header and stores the identity
// in the request context under "user_id", "username" and "user_roles".
func (m *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authorization header missing"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.signer.Parse(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid or expired token"})
			c.Abort()
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("username", claims.Username)
		c.Set("user_roles", claims.Roles)

		c.Next()
	}
}

// RequireRoleMiddleware rejects requests whose token carries none of the
// given roles. Admins always pass.
func (m *JWTAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, exists := c.Get("user_roles")
		if !exists {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "User roles not found in context"})
			c.Abort()
			return
		}

		userRoles, ok := roles.([]string)
		if !ok {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "Invalid user roles format"})
			c.Abort()
			return
		}

		for _, have := range userRoles {
			if have == string(models.RoleAdmin) {
				c.Next()
				return
			}
			for _, want := range requiredRoles {
				if have == string(want) {
					c.Next()
					return
				}
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		c.Abort()
	}
}

// authenticatedUserID returns the user id set by AuthMiddleware.
func authenticatedUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// isAdmin reports whether the authenticated user carries the admin role.
func isAdmin(c *gin.Context) bool {
	v, exists := c.Get("user_roles")
	if !exists {
		return false
	}
	roles, ok := v.([]string)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == string(models.RoleAdmin) {
			return true
		}
	}
	return false
}
