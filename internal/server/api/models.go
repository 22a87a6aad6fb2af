package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/looplj/llmsim/internal/simapi"
)

// ModelsHandlers serves GET /v1/models and GET /v1/models/{id}.
type ModelsHandlers struct {
	models map[string]simapi.Model
	list   []simapi.Model
}

// NewModelsHandlers builds the fixed model catalog from the configured
// `models.available` list.
func NewModelsHandlers(available []string, createdAt int64) *ModelsHandlers {
	ids := lo.Uniq(available)

	list := lo.Map(ids, func(id string, _ int) simapi.Model {
		return simapi.Model{ID: id, Object: "model", Created: createdAt, OwnedBy: "llmsim"}
	})

	models := lo.KeyBy(list, func(m simapi.Model) string { return m.ID })

	return &ModelsHandlers{models: models, list: list}
}

func (h *ModelsHandlers) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, simapi.ModelList{Object: "list", Data: h.list})
}

func (h *ModelsHandlers) GetModel(c *gin.Context) {
	id := c.Param("id")

	m, ok := h.models[id]
	if !ok {
		writeError(c, http.StatusNotFound, "not_found_error", "The model '"+id+"' does not exist", nil)
		return
	}

	c.JSON(http.StatusOK, m)
}
