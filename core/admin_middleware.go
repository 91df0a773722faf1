package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequirePermission ensures the identity attached by Authorize holds perm.
// It must be registered after Authorize.
func RequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentIdentity(c)
		if id == nil {
			respondUnauthorized(c)
			return
		}
		if !id.HasPermission(perm) {
			respondError(c, http.StatusForbidden, msgForbidden)
			return
		}
		c.Next()
	}
}
