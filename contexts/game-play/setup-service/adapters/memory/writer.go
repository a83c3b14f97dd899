package memory

import (
	"context"

	gamememory "parliament/contexts/game-play/game-service/adapters/memory"
	"parliament/contexts/game-play/game-service/domain/entities"
	"parliament/contexts/game-play/setup-service/ports"
)

// Writer persists configured game graphs into the shared in-memory store,
// the same store the game-service module reads in local wiring and tests.
type Writer struct {
	store *gamememory.Store
}

func NewWriter(store *gamememory.Store) *Writer {
	return &Writer{store: store}
}

func (w *Writer) CreateGame(_ context.Context, game entities.Game) (entities.Game, error) {
	return w.store.SeedGame(game), nil
}

func (w *Writer) CreateRound(_ context.Context, round entities.Round) (entities.Round, error) {
	return w.store.SeedRound(round), nil
}

func (w *Writer) CreateParty(_ context.Context, party entities.Party) (entities.Party, error) {
	return w.store.SeedParty(party), nil
}

func (w *Writer) CreateVoter(_ context.Context, voter entities.Voter) (entities.Voter, error) {
	return w.store.SeedVoter(voter), nil
}

func (w *Writer) CreateAffiliation(_ context.Context, affiliation entities.Affiliation) (entities.Affiliation, error) {
	return w.store.SeedAffiliation(affiliation), nil
}

func (w *Writer) CreateVotingEvent(_ context.Context, event entities.VotingEvent) (entities.VotingEvent, error) {
	return w.store.SeedVotingEvent(event), nil
}

func (w *Writer) CreateVote(_ context.Context, vote entities.Vote) (entities.Vote, error) {
	return w.store.SeedVote(vote), nil
}

func (w *Writer) SetGameProgress(ctx context.Context, game entities.Game) error {
	return w.store.UpdateGameProgress(ctx, game)
}

var _ ports.GameWriter = (*Writer)(nil)
