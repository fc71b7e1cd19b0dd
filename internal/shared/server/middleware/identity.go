package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/shared/server/respond"
)

const (
	userIDKey = "userId"
	roleKey   = "userRole"
)

// Roles understood by the API.
const (
	RoleCandidate = "candidate"
	RoleCompany   = "company"
	RoleAdmin     = "admin"
)

// Identity reads the caller from X-User-Id and X-User-Role. Authentication
// happens upstream; requests without a user id are rejected. Paths with one of
// the public prefixes pass through untouched.
func Identity(publicPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		for _, prefix := range publicPrefixes {
			if prefix != "" && strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		userID := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if userID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		role := strings.ToLower(strings.TrimSpace(c.GetHeader("X-User-Role")))
		switch role {
		case "":
			role = RoleCandidate
		case RoleCandidate, RoleCompany, RoleAdmin:
		default:
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "unknown role", nil)
			return
		}

		c.Set(userIDKey, userID)
		c.Set(roleKey, role)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := RoleFromContext(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		respond.Error(c, http.StatusForbidden, "forbidden", "insufficient role", nil)
	}
}

// CanActFor reports whether the caller may read or change data owned by
// candidateID: the candidate themselves or an admin.
func CanActFor(c *gin.Context, candidateID string) bool {
	if RoleFromContext(c) == RoleAdmin {
		return true
	}
	userID := UserIDFromContext(c)
	return userID != "" && userID == candidateID
}

// UserIDFromContext fetches the user ID set by the identity middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// RoleFromContext fetches the caller role set by the identity middleware.
func RoleFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(roleKey)
	if role, ok := val.(string); ok {
		return role
	}
	return ""
}
