package application

import (
	"context"
	"strings"

	"parliament/contexts/game-play/game-service/domain/entities"
	domainerrors "parliament/contexts/game-play/game-service/domain/errors"
)

// RegisterVoterCommand joins a player to a game by its join code.
type RegisterVoterCommand struct {
	GameHash string
	Name     string
}

// RegisterAffiliationCommand binds a voter to a party for the game's
// current round.
type RegisterAffiliationCommand struct {
	VoterID int64
	PartyID int64
	RoundID int64
}

// RegisterVoter adds a player to the game identified by its join code.
// Ended games accept no further registrations.
func (s *Service) RegisterVoter(ctx context.Context, cmd RegisterVoterCommand) (entities.Voter, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" || strings.TrimSpace(cmd.GameHash) == "" {
		return entities.Voter{}, domainerrors.ErrInvalidInput
	}
	game, err := s.Repo.GetGameByHash(ctx, strings.TrimSpace(cmd.GameHash))
	if err != nil {
		return entities.Voter{}, err
	}

	lock := s.locks.forGame(game.ID)
	lock.Lock()
	defer lock.Unlock()

	if game.Status == entities.GameStatusEnded {
		return entities.Voter{}, domainerrors.ErrGameEnded
	}
	voter, err := s.Repo.AddVoter(ctx, entities.Voter{
		GameID: game.ID,
		Name:   name,
	})
	if err != nil {
		return entities.Voter{}, err
	}
	s.logger().Info("voter registered",
		"event", "game_voter_registered",
		"module", "game-play/game-service",
		"layer", "application",
		"game_id", game.ID,
		"voter_id", voter.ID,
	)
	s.publish(ctx, game)
	return voter, nil
}

// RegisterAffiliation records a voter's party membership for the current
// round. Completing the round's required affiliation count is what flips
// the game to STARTED and activates the round's first voting event.
func (s *Service) RegisterAffiliation(ctx context.Context, cmd RegisterAffiliationCommand) (entities.Affiliation, error) {
	round, err := s.Repo.GetRound(ctx, cmd.RoundID)
	if err != nil {
		return entities.Affiliation{}, err
	}

	lock := s.locks.forGame(round.GameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := s.Repo.GetGame(ctx, round.GameID)
	if err != nil {
		return entities.Affiliation{}, err
	}
	if game.Status == entities.GameStatusEnded {
		return entities.Affiliation{}, domainerrors.ErrGameEnded
	}
	if game.CurrentRoundID == nil || *game.CurrentRoundID != round.ID {
		return entities.Affiliation{}, domainerrors.ErrRoundNotActive
	}

	voter, err := s.Repo.GetVoter(ctx, cmd.VoterID)
	if err != nil {
		return entities.Affiliation{}, err
	}
	if voter.GameID != game.ID {
		return entities.Affiliation{}, domainerrors.ErrVoterNotFound
	}

	parties, err := s.Repo.GetParties(ctx, round.ID)
	if err != nil {
		return entities.Affiliation{}, err
	}
	partyKnown := false
	for _, party := range parties {
		if party.ID == cmd.PartyID {
			partyKnown = true
			break
		}
	}
	if !partyKnown {
		return entities.Affiliation{}, domainerrors.ErrPartyNotFound
	}

	existing, err := s.Repo.GetAffiliationsForRound(ctx, round.ID)
	if err != nil {
		return entities.Affiliation{}, err
	}
	for _, affiliation := range existing {
		if affiliation.VoterID == voter.ID {
			return entities.Affiliation{}, domainerrors.ErrDuplicateAffiliation
		}
	}

	affiliation, err := s.Repo.AddAffiliation(ctx, entities.Affiliation{
		VoterID: voter.ID,
		PartyID: cmd.PartyID,
		RoundID: round.ID,
	})
	if err != nil {
		return entities.Affiliation{}, err
	}
	s.logger().Info("affiliation registered",
		"event", "game_affiliation_registered",
		"module", "game-play/game-service",
		"layer", "application",
		"game_id", game.ID,
		"round_id", round.ID,
		"voter_id", voter.ID,
		"party_id", cmd.PartyID,
	)

	if err := s.progress(ctx, &game); err != nil {
		return entities.Affiliation{}, err
	}
	s.publish(ctx, game)
	return affiliation, nil
}
