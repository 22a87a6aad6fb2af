package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/looplj/llmsim/internal/simapi"
)

func newModelsRouter(h *ModelsHandlers) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/v1/models", h.ListModels)
	router.GET("/v1/models/:id", h.GetModel)

	return router
}

func TestModelsHandlers_ListModels(t *testing.T) {
	h := NewModelsHandlers([]string{"gpt-5", "gpt-5", "gpt-4o"}, 1700000000)
	router := newModelsRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var list simapi.ModelList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, "list", list.Object)
	require.Len(t, list.Data, 2)
}

func TestModelsHandlers_GetModel_Found(t *testing.T) {
	h := NewModelsHandlers([]string{"gpt-5"}, 1700000000)
	router := newModelsRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/v1/models/gpt-5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var m simapi.Model
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	require.Equal(t, "gpt-5", m.ID)
}

func TestModelsHandlers_GetModel_NotFound(t *testing.T) {
	h := NewModelsHandlers([]string{"gpt-5"}, 1700000000)
	router := newModelsRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/v1/models/does-not-exist", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "not_found_error")
}
