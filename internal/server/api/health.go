package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/looplj/llmsim/internal/build"
)

// HealthHandlers serves GET /health.
type HealthHandlers struct{}

func NewHealthHandlers() *HealthHandlers { return &HealthHandlers{} }

func (h *HealthHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "llmsim",
		"version": build.SemVer().String(),
	})
}
