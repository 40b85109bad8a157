package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by StaffAuth and consumed downstream.
const (
	ContextStaffID = "staff_id"
	ContextRole    = "role"
)

// Staff roles carried in the JWT "role" claim.
const (
	RoleDoor       = "door"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// StaffAuth validates a Bearer access token signed with the shared
// secret and stores the staff id and role in the request context.
func StaffAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		staffID, ok := claims["staff_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}
		role, ok := claims["role"].(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		c.Set(ContextStaffID, int(staffID))
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated staff member has
// one of the allowed roles. Must run after StaffAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, ok := c.Get(ContextRole)
		roleStr, isStr := role.(string)
		if !ok || !isStr || !allowed[roleStr] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// StaffIDFromContext reads the staff id stored by StaffAuth.
func StaffIDFromContext(c *gin.Context) (int, bool) {
	v, ok := c.Get(ContextStaffID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
