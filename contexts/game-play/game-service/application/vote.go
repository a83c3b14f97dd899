package application

import (
	"context"

	"parliament/contexts/game-play/game-service/domain/entities"
	domainerrors "parliament/contexts/game-play/game-service/domain/errors"
)

// CastVoteCommand is the write-model input for ballot submission.
type CastVoteCommand struct {
	VoterID       int64
	VotingEventID int64
	Value         entities.VoteValue
}

// CastVote admits one ballot. Eligibility checks, insert, recount,
// conclusion, and advance all run inside the game's critical section so two
// simultaneous last voters cannot both (or neither) trigger the event's
// conclusion.
func (s *Service) CastVote(ctx context.Context, cmd CastVoteCommand) (entities.Vote, error) {
	logger := s.logger()
	switch cmd.Value {
	case entities.VoteValueYes, entities.VoteValueNo, entities.VoteValueAbstain:
	default:
		return entities.Vote{}, domainerrors.ErrInvalidInput
	}

	event, err := s.Repo.GetVotingEvent(ctx, cmd.VotingEventID)
	if err != nil {
		return entities.Vote{}, err
	}
	round, err := s.Repo.GetRound(ctx, event.RoundID)
	if err != nil {
		return entities.Vote{}, err
	}

	lock := s.locks.forGame(round.GameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := s.Repo.GetGame(ctx, round.GameID)
	if err != nil {
		return entities.Vote{}, err
	}
	if game.Status == entities.GameStatusEnded {
		return entities.Vote{}, domainerrors.ErrGameEnded
	}
	if game.Status != entities.GameStatusStarted {
		return entities.Vote{}, domainerrors.ErrGameNotStarted
	}
	if game.CurrentVotingEventID == nil || *game.CurrentVotingEventID != event.ID {
		return entities.Vote{}, domainerrors.ErrVotingEventNotActive
	}

	voter, err := s.Repo.GetVoter(ctx, cmd.VoterID)
	if err != nil {
		return entities.Vote{}, err
	}
	if voter.GameID != game.ID {
		return entities.Vote{}, domainerrors.ErrVoterNotFound
	}
	if _, found, err := s.Repo.GetVote(ctx, event.ID, voter.ID); err != nil {
		return entities.Vote{}, err
	} else if found {
		return entities.Vote{}, domainerrors.ErrDuplicateVote
	}

	vote, err := s.Repo.CastVote(ctx, entities.Vote{
		VoterID:       voter.ID,
		VotingEventID: event.ID,
		Value:         cmd.Value,
		CreatedAt:     s.now(),
	})
	if err != nil {
		return entities.Vote{}, err
	}
	logger.Info("vote cast",
		"event", "game_vote_cast",
		"module", "game-play/game-service",
		"layer", "application",
		"game_id", game.ID,
		"voting_event_id", event.ID,
		"voter_id", voter.ID,
		"value", string(vote.Value),
	)

	// Record vote, recount, conclude if complete, advance. The progression
	// driver re-reads the ballot count itself so the trigger decision and
	// the insert stay in one critical section.
	if err := s.progress(ctx, &game); err != nil {
		return entities.Vote{}, err
	}
	s.publish(ctx, game)
	return vote, nil
}
