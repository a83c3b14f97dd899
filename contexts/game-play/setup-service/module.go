package setupservice

import (
	"log/slog"

	gamememory "parliament/contexts/game-play/game-service/adapters/memory"
	httpadapter "parliament/contexts/game-play/setup-service/adapters/http"
	"parliament/contexts/game-play/setup-service/adapters/memory"
	"parliament/contexts/game-play/setup-service/application"
	"parliament/contexts/game-play/setup-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service *application.Service
}

type Dependencies struct {
	Writer ports.GameWriter
	Clock  ports.Clock
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.NewService(deps.Writer, deps.Clock, deps.Logger)
	return Module{
		Handler: httpadapter.Handler{
			Setup:  service,
			Logger: deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule writes into the game-service memory store so uploaded
// games are immediately visible to in-memory game play.
func NewInMemoryModule(store *gamememory.Store, logger *slog.Logger) Module {
	return NewModule(Dependencies{
		Writer: memory.NewWriter(store),
		Clock:  store,
		Logger: logger,
	})
}
