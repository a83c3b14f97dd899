package httpadapter

import (
	"context"
	"log/slog"

	"parliament/contexts/game-play/game-service/application"
	"parliament/contexts/game-play/game-service/domain/entities"
	httptransport "parliament/contexts/game-play/game-service/transport/http"
)

type Handler struct {
	Games  *application.Service
	Logger *slog.Logger
}

func (h Handler) RegisterVoterHandler(
	ctx context.Context,
	gameHash string,
	req httptransport.RegisterVoterRequest,
) (httptransport.VoterResponse, error) {
	voter, err := h.Games.RegisterVoter(ctx, application.RegisterVoterCommand{
		GameHash: gameHash,
		Name:     req.Name,
	})
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return mapVoter(voter), nil
}

func (h Handler) RegisterAffiliationHandler(
	ctx context.Context,
	req httptransport.RegisterAffiliationRequest,
) (httptransport.AffiliationResponse, error) {
	affiliation, err := h.Games.RegisterAffiliation(ctx, application.RegisterAffiliationCommand{
		VoterID: req.VoterID,
		PartyID: req.PartyID,
		RoundID: req.RoundID,
	})
	if err != nil {
		return httptransport.AffiliationResponse{}, err
	}
	return httptransport.AffiliationResponse{
		ID:      affiliation.ID,
		VoterID: affiliation.VoterID,
		PartyID: affiliation.PartyID,
		RoundID: affiliation.RoundID,
	}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	vote, err := h.Games.CastVote(ctx, application.CastVoteCommand{
		VoterID:       req.VoterID,
		VotingEventID: req.VotingEventID,
		Value:         entities.VoteValue(req.Value),
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		ID:            vote.ID,
		VoterID:       vote.VoterID,
		VotingEventID: vote.VotingEventID,
		Value:         string(vote.Value),
		CreatedAt:     vote.CreatedAt,
	}, nil
}

// ActiveGameHandler assembles the full state of the active game.
func (h Handler) ActiveGameHandler(ctx context.Context) (httptransport.GameStateResponse, error) {
	game, err := h.Games.ActiveGame(ctx)
	if err != nil {
		return httptransport.GameStateResponse{}, err
	}
	return h.gameState(ctx, game)
}

// ResyncGameHandler re-derives the game's progression from stored votes and
// affiliations, then returns the resulting state.
func (h Handler) ResyncGameHandler(ctx context.Context, gameID int64) (httptransport.GameStateResponse, error) {
	game, err := h.Games.Resync(ctx, gameID)
	if err != nil {
		return httptransport.GameStateResponse{}, err
	}
	return h.gameState(ctx, game)
}

func (h Handler) gameState(ctx context.Context, game entities.Game) (httptransport.GameStateResponse, error) {
	resp := httptransport.GameStateResponse{
		ID:                   game.ID,
		Hash:                 game.Hash,
		Name:                 game.Name,
		NVoters:              game.NVoters,
		Status:               string(game.Status),
		CurrentRoundID:       game.CurrentRoundID,
		CurrentVotingEventID: game.CurrentVotingEventID,
		Parties:              []httptransport.PartyResponse{},
		Voters:               []httptransport.VoterResponse{},
	}

	voters, err := h.Games.Repo.GetVoters(ctx, game.ID)
	if err != nil {
		return httptransport.GameStateResponse{}, err
	}
	for _, voter := range voters {
		resp.Voters = append(resp.Voters, mapVoter(voter))
	}

	if game.CurrentRoundID != nil {
		round, err := h.Games.Repo.GetRound(ctx, *game.CurrentRoundID)
		if err != nil {
			return httptransport.GameStateResponse{}, err
		}
		resp.CurrentRound = &httptransport.RoundResponse{
			ID:          round.ID,
			GameID:      round.GameID,
			RoundNumber: round.RoundNumber,
			Rules:       round.Rules,
			VoterTarget: round.VoterTarget,
		}
		parties, err := h.Games.Repo.GetParties(ctx, round.ID)
		if err != nil {
			return httptransport.GameStateResponse{}, err
		}
		for _, party := range parties {
			resp.Parties = append(resp.Parties, httptransport.PartyResponse{
				ID:      party.ID,
				RoundID: party.RoundID,
				Name:    party.Name,
				Scores:  mapScores(party.Scores),
			})
		}
	}

	if game.CurrentVotingEventID != nil {
		event, err := h.Games.Repo.GetVotingEvent(ctx, *game.CurrentVotingEventID)
		if err != nil {
			return httptransport.GameStateResponse{}, err
		}
		resp.CurrentVotingEvent = &httptransport.VotingEventResponse{
			ID:           event.ID,
			RoundID:      event.RoundID,
			Title:        event.Title,
			Content:      event.Content,
			VotingSystem: event.VotingSystem,
			Result:       event.Result,
		}
	}
	return resp, nil
}

func mapVoter(voter entities.Voter) httptransport.VoterResponse {
	return httptransport.VoterResponse{
		ID:     voter.ID,
		GameID: voter.GameID,
		Name:   voter.Name,
		Scores: mapScores(voter.Scores),
	}
}

func mapScores(scores entities.ScoreBook) map[string]httptransport.ScoreEntry {
	if len(scores) == 0 {
		return nil
	}
	items := make(map[string]httptransport.ScoreEntry, len(scores))
	for system, score := range scores {
		items[system] = httptransport.ScoreEntry{CurrentScore: score.CurrentScore}
	}
	return items
}
