package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/looplj/llmsim/internal/log"
)

func TestTrace_GeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var traceID string

	router := gin.New()
	router.Use(Trace())
	router.GET("/ok", func(c *gin.Context) {
		traceID, _ = log.GetTraceID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.NotEmpty(t, traceID)
	require.Equal(t, traceID, w.Header().Get("X-Request-ID"))
}

func TestTrace_HonorsInboundRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var operation string

	router := gin.New()
	router.Use(Trace())
	router.GET("/ok", func(c *gin.Context) {
		operation, _ = log.GetOperationName(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	require.Equal(t, "GET /ok", operation)
}
