package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/looplj/llmsim/internal/pipeline"
	"github.com/looplj/llmsim/internal/simapi"
)

func newBindRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/bind", func(c *gin.Context) {
		var body struct {
			Model string `json:"model"`
		}

		if !bindRequest(c, &body) {
			return
		}

		c.JSON(http.StatusOK, body)
	})

	return router
}

func TestBindRequest_MissingModel(t *testing.T) {
	router := newBindRouter()

	req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "invalid_request_error")
	require.Contains(t, w.Body.String(), "model")
}

func TestBindRequest_InvalidJSON(t *testing.T) {
	router := newBindRouter()

	req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(`{"model":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBindRequest_Valid(t *testing.T) {
	router := newBindRouter()

	req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(`{"model":"gpt-5"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "gpt-5")
}

func TestWriteFailure_SetsRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/fail", func(c *gin.Context) {
		retryAfter := 5
		writeFailure(c, &pipeline.Failure{
			Status:     http.StatusTooManyRequests,
			Envelope:   simapi.ErrorEnvelope{Error: simapi.ErrorBody{Message: "slow down", Type: "rate_limit_error"}},
			RetryAfter: &retryAfter,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "5", w.Header().Get("Retry-After"))
	require.Contains(t, w.Body.String(), "rate_limit_error")
}
