package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/models"
	"hotel-booking-api/utils"
)

const identityKey = "caller_identity"

// Identity is the caller resolved from a bearer token, produced once per
// request by the auth middleware and read by handlers through CallerFrom.
type Identity struct {
	UserID uint
	Role   string
}

func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

// CallerFrom returns the authenticated caller, if any.
func CallerFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// RequireAuth validates the bearer token and stores the caller identity in
// the request context. Missing or invalid tokens abort with 401.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			utils.JSONError(c, http.StatusUnauthorized, "error.authRequired", "authentication required")
			c.Abort()
			return
		}
		claims, err := utils.ParseAccessToken(secret, raw)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "error.invalidToken", "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(identityKey, Identity{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// OptionalAuth resolves the caller identity when a valid token is present and
// lets anonymous requests through untouched. A malformed token is still a hard
// 401 so clients never silently book as a guest with a broken session.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.Next()
			return
		}
		claims, err := utils.ParseAccessToken(secret, raw)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "error.invalidToken", "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(identityKey, Identity{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// RequireAdmin gates a route to administrators. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CallerFrom(c)
		if !ok || !id.IsAdmin() {
			utils.JSONError(c, http.StatusForbidden, "error.forbidden", "administrator access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
