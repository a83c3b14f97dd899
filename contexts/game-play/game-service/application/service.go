package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parliament/contexts/game-play/game-service/ports"

	"parliament/contexts/game-play/game-service/domain/entities"
)

// Service orchestrates game play: vote intake, result computation,
// progression, and snapshot publication. All mutations to one game's
// progression state serialize on that game's mutex; distinct games proceed
// in parallel.
type Service struct {
	Repo   ports.Repository
	Stream ports.SnapshotPublisher
	Clock  ports.Clock
	Logger *slog.Logger

	locks *gameLocks
}

// NewService wires a ready-to-use service. Stream, Clock, and Logger may be
// nil for read-only or test wiring.
func NewService(
	repo ports.Repository,
	stream ports.SnapshotPublisher,
	clock ports.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		Repo:   repo,
		Stream: stream,
		Clock:  clock,
		Logger: logger,
		locks:  newGameLocks(),
	}
}

// ActiveGame returns the game the deployed instance considers current.
func (s *Service) ActiveGame(ctx context.Context) (entities.Game, error) {
	return s.Repo.GetActiveGame(ctx)
}

// ActiveSnapshot builds the observable state of the active game without
// publishing it.
func (s *Service) ActiveSnapshot(ctx context.Context) (ports.GameSnapshot, error) {
	game, err := s.Repo.GetActiveGame(ctx)
	if err != nil {
		return ports.GameSnapshot{}, err
	}
	return s.snapshot(ctx, game)
}

func (s *Service) snapshot(ctx context.Context, game entities.Game) (ports.GameSnapshot, error) {
	snapshot := ports.GameSnapshot{
		GameID:               game.ID,
		Status:               game.Status,
		CurrentRoundID:       game.CurrentRoundID,
		CurrentVotingEventID: game.CurrentVotingEventID,
		PublishedAt:          s.now(),
	}
	if game.CurrentVotingEventID != nil {
		event, err := s.Repo.GetVotingEvent(ctx, *game.CurrentVotingEventID)
		if err != nil {
			return ports.GameSnapshot{}, err
		}
		snapshot.CurrentVotingQuestion = event.Title
		snapshot.VotingSystem = event.VotingSystem
		snapshot.Rewards = event.Rewards
	}
	return snapshot, nil
}

// publish pushes the game's current snapshot to every connected observer.
// Publication is best effort: a snapshot build failure is logged, never
// propagated into the mutation that triggered it.
func (s *Service) publish(ctx context.Context, game entities.Game) {
	if s.Stream == nil {
		return
	}
	snapshot, err := s.snapshot(ctx, game)
	if err != nil {
		s.logger().Error("snapshot build failed",
			"event", "game_snapshot_build_failed",
			"module", "game-play/game-service",
			"layer", "application",
			"game_id", game.ID,
			"error", err.Error(),
		)
		return
	}
	s.Stream.Publish(snapshot)
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s *Service) logger() *slog.Logger {
	return ResolveLogger(s.Logger)
}

// gameLocks hands out one mutex per game id.
type gameLocks struct {
	mu     sync.Mutex
	byGame map[int64]*sync.Mutex
}

func newGameLocks() *gameLocks {
	return &gameLocks{byGame: make(map[int64]*sync.Mutex)}
}

func (l *gameLocks) forGame(gameID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.byGame[gameID]
	if !ok {
		lock = &sync.Mutex{}
		l.byGame[gameID] = lock
	}
	return lock
}
