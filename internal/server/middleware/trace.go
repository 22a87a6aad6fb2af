package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/looplj/llmsim/internal/log"
)

const requestIDHeader = "X-Request-ID"

// Trace stamps every request with a request ID — the caller's, when the
// X-Request-ID header is set, otherwise a fresh one — and stores it in the
// request context so every log line carries a trace_id field. The ID is
// echoed back on the response so clients can correlate.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := log.WithTraceID(c.Request.Context(), requestID)
		ctx = log.WithOperationName(ctx, c.Request.Method+" "+c.FullPath())
		c.Request = c.Request.WithContext(ctx)

		c.Header(requestIDHeader, requestID)

		c.Next()
	}
}
