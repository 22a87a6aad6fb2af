package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/looplj/llmsim/internal/log"
)

// Recovery recovers from any panic inside a handler, logs it, and responds
// with a 500 internal_error envelope instead of crashing the process.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(c.Request.Context(), "panic recovered", log.Any("panic", r))

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{"message": "Internal server error", "type": "internal_error"},
				})
			}
		}()

		c.Next()
	}
}
