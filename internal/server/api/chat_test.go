package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/looplj/llmsim/internal/content"
	"github.com/looplj/llmsim/internal/latency"
	"github.com/looplj/llmsim/internal/pipeline"
	"github.com/looplj/llmsim/internal/simerror"
	"github.com/looplj/llmsim/internal/stats"
	"github.com/looplj/llmsim/internal/token"
)

// newTestPipeline builds a Pipeline with every error rate at zero and an
// instant latency profile, so handler tests never hit the injector or sleep.
func newTestPipeline() *pipeline.Pipeline {
	instant := latency.Instant()

	return &pipeline.Pipeline{
		Stats:    stats.New(nil),
		Injector: simerror.NewInjector(simerror.Config{}),
		Tokens:   token.Default(),
		Producer: content.New("fixed:hello world", 8),
		Profile:  &instant,
	}
}

func newChatRouter(p *pipeline.Pipeline) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	h := NewChatHandlers(p)
	router.POST("/v1/chat/completions", h.ChatCompletion)

	return router
}

func TestChatCompletion_NonStreaming(t *testing.T) {
	router := newChatRouter(newTestPipeline())

	body, err := json.Marshal(map[string]any{
		"model":    "gpt-5",
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "chat.completion", resp["object"])
}

func TestChatCompletion_Streaming(t *testing.T) {
	router := newChatRouter(newTestPipeline())

	body, err := json.Marshal(map[string]any{
		"model":    "gpt-5",
		"stream":   true,
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	raw := w.Body.String()
	require.Contains(t, raw, `"role":"assistant"`)
	require.Contains(t, raw, `"finish_reason":"stop"`)
	require.True(t, strings.HasSuffix(raw, "data: [DONE]\n\n"))
}

func TestChatCompletion_MissingModel(t *testing.T) {
	router := newChatRouter(newTestPipeline())

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewBufferString(`{"messages":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Missing required parameter")
}
