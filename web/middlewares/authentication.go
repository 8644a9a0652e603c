package middlewares

import (
	"net/http"
	"strings"

	"axiapac.com/adms/security"
	"axiapac.com/adms/web/common"
	"github.com/gin-gonic/gin"
)

const ClaimsKey = "claims"

// Authentication requires a Bearer admin token signed with jwtSecret.
func Authentication(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("missing bearer token"))
			return
		}

		claims, err := security.ParseAdminToken(parts[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("invalid or expired token"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
