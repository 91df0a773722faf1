package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgUnauthorized   = "User is not authorized"
	msgInvalidRequest = "Invalid request"
	msgForbidden      = "Forbidden"
	msgInternalError  = "Internal server error"
)

// respondError sends the error envelope {"status", "error"} and aborts the chain.
func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"status": status, "error": message})
}

// respondData sends the success envelope {"status", "data"}.
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"status": status, "data": data})
}

// respondUnauthorized sends the single 401 body used for every rejection.
func respondUnauthorized(c *gin.Context) {
	respondData(c, http.StatusUnauthorized, msgUnauthorized)
	c.Abort()
}
