package ports

import (
	"context"
	"time"

	"parliament/contexts/game-play/game-service/domain/entities"
)

// GameWriter persists the pieces of a freshly configured game. Entities come
// back with their assigned ids; callers rely on ascending id order matching
// creation order. The game-play entity types are shared with game-service:
// setup writes exactly the records game play later reads.
type GameWriter interface {
	CreateGame(ctx context.Context, game entities.Game) (entities.Game, error)
	CreateRound(ctx context.Context, round entities.Round) (entities.Round, error)
	CreateParty(ctx context.Context, party entities.Party) (entities.Party, error)
	CreateVoter(ctx context.Context, voter entities.Voter) (entities.Voter, error)
	CreateAffiliation(ctx context.Context, affiliation entities.Affiliation) (entities.Affiliation, error)
	CreateVotingEvent(ctx context.Context, event entities.VotingEvent) (entities.VotingEvent, error)
	CreateVote(ctx context.Context, vote entities.Vote) (entities.Vote, error)
	// SetGameProgress stores the game's current round/event pointers and
	// status after the graph is assembled.
	SetGameProgress(ctx context.Context, game entities.Game) error
}

// Clock abstracts wall time for deterministic tests.
type Clock interface {
	Now() time.Time
}
