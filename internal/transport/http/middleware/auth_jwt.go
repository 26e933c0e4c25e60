package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"salon-booking/internal/core/auth"
	"salon-booking/internal/domain"
	resp "salon-booking/internal/transport/http/response"
)

// gin 上下文中的 key
const (
	KeyUserID = "userId"
	KeyRole   = "role"
	KeyClaims = "claims"
)

// AuthJWT verifies the bearer token and reloads the user, so role changes
// apply to the next request.
func AuthJWT(j *auth.JWTer, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		u, err := users.FindByID(c.Request.Context(), claims.Subject)
		if err != nil {
			_ = c.Error(err)
			resp.Abort(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if u == nil {
			resp.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, u.ID)
		c.Set(KeyRole, string(u.Role))
		c.Next()
	}
}

// RequireRoles admits the listed roles; SUPERADMIN always passes.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasRole(domain.Role(c.GetString(KeyRole)), roles...) {
			resp.Abort(c, http.StatusForbidden, "Forbidden resource")
			return
		}
		c.Next()
	}
}

func HasRole(have domain.Role, roles ...domain.Role) bool {
	if len(roles) == 0 || have == domain.RoleSuperAdmin {
		return true
	}
	return slices.Contains(roles, have)
}
