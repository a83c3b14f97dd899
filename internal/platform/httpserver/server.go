package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	gameservice "parliament/contexts/game-play/game-service"
	setupservice "parliament/contexts/game-play/setup-service"
	"parliament/internal/platform/stream"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "parliament/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	games  gameservice.Module
	setup  setupservice.Module
	stream *stream.Hub
}

func New(
	games gameservice.Module,
	setup setupservice.Module,
	hub *stream.Hub,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		games:  games,
		setup:  setup,
		stream: hub,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing table for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/v1/games/active", s.handleActiveGame)
	s.mux.HandleFunc("POST /api/v1/games/{game_id}/resync", s.handleResyncGame)
	s.mux.HandleFunc("POST /api/v1/games/{game_hash}/voters", s.handleRegisterVoter)
	s.mux.HandleFunc("POST /api/v1/affiliations", s.handleRegisterAffiliation)
	s.mux.HandleFunc("POST /api/v1/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /api/v1/stream", s.handleStream)

	s.mux.HandleFunc("POST /api/v1/configurations", s.handleUploadConfiguration)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
