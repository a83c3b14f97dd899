package ports

import (
	"context"
	"time"

	"parliament/contexts/game-play/game-service/domain/entities"
)

// Repository is the persistence collaborator for game play. Lookups by a
// missing id return the matching domain NotFound sentinel. List results
// follow ascending ID order, which is also the advancement order.
type Repository interface {
	GetGame(ctx context.Context, gameID int64) (entities.Game, error)
	GetGameByHash(ctx context.Context, hash string) (entities.Game, error)
	// GetActiveGame returns the first game whose status is not ENDED,
	// falling back to the most recently created game.
	GetActiveGame(ctx context.Context) (entities.Game, error)

	GetRound(ctx context.Context, roundID int64) (entities.Round, error)
	GetRounds(ctx context.Context, gameID int64) ([]entities.Round, error)

	GetVotingEvent(ctx context.Context, votingEventID int64) (entities.VotingEvent, error)
	GetVotingEvents(ctx context.Context, roundID int64) ([]entities.VotingEvent, error)

	GetVotes(ctx context.Context, votingEventID int64) ([]entities.Vote, error)
	GetVote(ctx context.Context, votingEventID int64, voterID int64) (entities.Vote, bool, error)

	GetVoter(ctx context.Context, voterID int64) (entities.Voter, error)
	GetVoters(ctx context.Context, gameID int64) ([]entities.Voter, error)
	GetParties(ctx context.Context, roundID int64) ([]entities.Party, error)
	GetAffiliationsForRound(ctx context.Context, roundID int64) ([]entities.Affiliation, error)

	CastVote(ctx context.Context, vote entities.Vote) (entities.Vote, error)
	UpdateVotingEvent(ctx context.Context, votingEventID int64, result string) error
	UpdateVoters(ctx context.Context, voters []entities.Voter) error
	UpdateParties(ctx context.Context, parties []entities.Party) error
	UpdateGameProgress(ctx context.Context, game entities.Game) error
	UpdateGameStatus(ctx context.Context, gameID int64, status entities.GameStatus) error
	AddVoter(ctx context.Context, voter entities.Voter) (entities.Voter, error)
	AddAffiliation(ctx context.Context, affiliation entities.Affiliation) (entities.Affiliation, error)
}

// GameSnapshot is the full observable state published to every connected
// observer after each game-visible mutation.
type GameSnapshot struct {
	GameID                int64                `json:"game_id"`
	Status                entities.GameStatus  `json:"status"`
	CurrentRoundID        *int64               `json:"current_round_id"`
	CurrentVotingEventID  *int64               `json:"current_voting_event_id"`
	CurrentVotingQuestion string               `json:"current_voting_question,omitempty"`
	VotingSystem          string               `json:"voting_system,omitempty"`
	Rewards               entities.RewardTable `json:"extra_info,omitempty"`
	PublishedAt           time.Time            `json:"published_at"`
}

// SnapshotPublisher multicasts snapshots to currently-connected observers.
// Delivery is best effort and must never block the caller.
type SnapshotPublisher interface {
	Publish(snapshot GameSnapshot)
}

// Clock abstracts wall time for deterministic tests.
type Clock interface {
	Now() time.Time
}
