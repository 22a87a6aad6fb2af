package server

import (
	"go.uber.org/fx"

	"github.com/looplj/llmsim/internal/server/api"
)

// Module bundles every route-handler constructor for fx.Provide.
var Module = fx.Module("server",
	fx.Provide(
		api.NewChatHandlers,
		api.NewResponsesHandlers,
		api.NewHealthHandlers,
		api.NewStatsHandlers,
	),
)
