package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/looplj/llmsim/internal/stats"
)

// StatsHandlers serves GET /llmsim/stats.
type StatsHandlers struct {
	Stats *stats.Stats
}

func NewStatsHandlers(s *stats.Stats) *StatsHandlers {
	return &StatsHandlers{Stats: s}
}

func (h *StatsHandlers) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.Stats.Snapshot())
}
