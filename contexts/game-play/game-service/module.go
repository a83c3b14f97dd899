package gameservice

import (
	"log/slog"

	httpadapter "parliament/contexts/game-play/game-service/adapters/http"
	"parliament/contexts/game-play/game-service/adapters/memory"
	"parliament/contexts/game-play/game-service/application"
	"parliament/contexts/game-play/game-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service *application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repo   ports.Repository
	Stream ports.SnapshotPublisher
	Clock  ports.Clock
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.NewService(deps.Repo, deps.Stream, deps.Clock, deps.Logger)
	return Module{
		Handler: httpadapter.Handler{
			Games:  service,
			Logger: deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(stream ports.SnapshotPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repo:   store,
		Stream: stream,
		Clock:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
