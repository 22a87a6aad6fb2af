package server

import (
	"github.com/gin-contrib/cors"
	"go.uber.org/fx"

	"github.com/looplj/llmsim/internal/server/api"
)

// Handlers is the fx-injected bundle of every route handler group.
type Handlers struct {
	fx.In

	Chat      *api.ChatHandlers
	Responses *api.ResponsesHandlers
	Models    *api.ModelsHandlers
	Health    *api.HealthHandlers
	Stats     *api.StatsHandlers
}

// SetupRoutes mounts every public endpoint, including the /openai and
// /openresponses routing aliases.
func SetupRoutes(server *Server, handlers Handlers) {
	if server.Config.CORS.Enabled {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = server.Config.CORS.Origins
		corsConfig.AllowAllOrigins = len(server.Config.CORS.Origins) == 0

		server.Use(cors.New(corsConfig))
	}

	server.GET("/health", handlers.Health.Health)
	server.GET("/llmsim/stats", handlers.Stats.Snapshot)

	mountChat := func(group string) {
		g := server.Group(group)
		g.POST("/v1/chat/completions", handlers.Chat.ChatCompletion)
		g.GET("/v1/models", handlers.Models.ListModels)
		g.GET("/v1/models/:id", handlers.Models.GetModel)
	}

	mountResponses := func(group string) {
		g := server.Group(group)
		g.POST("/v1/responses", handlers.Responses.CreateResponse)
	}

	mountChat("")
	mountChat("/openai")
	mountResponses("")
	mountResponses("/openresponses")
}
