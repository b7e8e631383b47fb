package middleware

import (
	"net/http"

	"github.com/sajjadaliuos1/Pharmasys/internal/access"
	"github.com/sajjadaliuos1/Pharmasys/internal/apierror"

	"github.com/gin-gonic/gin"
)

// RequireSection rejects requests whose JWT role does not carry the given
// section. Missing or malformed claims deny, never allow.
func RequireSection(section access.Section) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ClaimsKey)
		claims, ok := v.(*JWTClaims)
		if !exists || !ok || !access.HasSection(access.Role(claims.Role), section) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("insufficient permissions"))
			return
		}
		c.Next()
	}
}
