package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/looplj/llmsim/internal/log"
)

// AccessLog logs request outcome when the response is an error status or a
// handler recorded an error, staying quiet on ordinary successful requests.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()

		var errMsgs []string
		for _, e := range c.Errors {
			errMsgs = append(errMsgs, e.Error())
		}

		if status < 400 && len(errMsgs) == 0 {
			return
		}

		fields := []log.Field{
			log.Int("status", status),
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.Duration("latency", time.Since(start)),
			log.String("client_ip", c.ClientIP()),
		}

		if len(errMsgs) > 0 {
			fields = append(fields, log.Strings("errors", errMsgs))
		}

		log.Error(c.Request.Context(), "[ACCESS]", fields...)
	}
}
