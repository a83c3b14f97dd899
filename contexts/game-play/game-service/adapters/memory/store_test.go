package memory

import (
	"context"
	"testing"

	"parliament/contexts/game-play/game-service/domain/entities"
	"parliament/contexts/game-play/game-service/domain/voting"
)

// Reward application mutates the entities handed to it, so reads from the
// store must hand out independent copies: score changes may only land in the
// store through UpdateVoters/UpdateParties.
func TestRewardResolutionDoesNotLeakIntoStoreWithoutUpdate(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	game := store.SeedGame(entities.Game{Name: "aliasing", NVoters: 1})
	round := store.SeedRound(entities.Round{GameID: game.ID})
	party := store.SeedParty(entities.Party{
		RoundID: round.ID,
		Name:    "reds",
		Scores:  entities.ScoreBook{voting.SystemMajorityWithReward: {CurrentScore: 2}},
	})
	voter := store.SeedVoter(entities.Voter{
		GameID: game.ID,
		Name:   "ada",
		Scores: entities.ScoreBook{voting.SystemMajorityWithReward: {CurrentScore: 1}},
	})
	event := store.SeedVotingEvent(entities.VotingEvent{
		RoundID:      round.ID,
		Title:        "bridge?",
		VotingSystem: voting.SystemMajorityWithReward,
		Rewards: entities.RewardTable{
			voting.SystemMajorityWithReward: {
				string(voting.ResultAccepted): entities.RewardSpec{
					Voters:  map[int64]int{voter.ID: 5},
					Parties: map[int64]int{party.ID: 10},
				},
				string(voting.ResultRejected): entities.RewardSpec{},
			},
		},
	})

	voters, err := store.GetVoters(ctx, game.ID)
	if err != nil {
		t.Fatalf("load voters: %v", err)
	}
	parties, err := store.GetParties(ctx, round.ID)
	if err != nil {
		t.Fatalf("load parties: %v", err)
	}
	loadedEvent, err := store.GetVotingEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("load event: %v", err)
	}

	votes := []entities.Vote{{VoterID: voter.ID, VotingEventID: event.ID, Value: entities.VoteValueYes}}
	outcome, err := voting.Resolve(loadedEvent, votes, voters, parties, voting.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if outcome.Result != voting.ResultAccepted {
		t.Fatalf("expected ACCEPTED, got %s", outcome.Result)
	}

	// No update was issued, so the store must still hold the seeded scores.
	stored, err := store.GetVoter(ctx, voter.ID)
	if err != nil {
		t.Fatalf("reload voter: %v", err)
	}
	if got := stored.Scores[voting.SystemMajorityWithReward].CurrentScore; got != 1 {
		t.Fatalf("stored voter score changed without UpdateVoters: got %d, want 1", got)
	}
	storedParties, err := store.GetParties(ctx, round.ID)
	if err != nil {
		t.Fatalf("reload parties: %v", err)
	}
	if got := storedParties[0].Scores[voting.SystemMajorityWithReward].CurrentScore; got != 2 {
		t.Fatalf("stored party score changed without UpdateParties: got %d, want 2", got)
	}

	// The write path is the only way scores reach the store.
	if err := store.UpdateVoters(ctx, outcome.Voters); err != nil {
		t.Fatalf("update voters: %v", err)
	}
	if err := store.UpdateParties(ctx, outcome.Parties); err != nil {
		t.Fatalf("update parties: %v", err)
	}
	stored, err = store.GetVoter(ctx, voter.ID)
	if err != nil {
		t.Fatalf("reload voter: %v", err)
	}
	if got := stored.Scores[voting.SystemMajorityWithReward].CurrentScore; got != 6 {
		t.Fatalf("voter score after update: got %d, want 6", got)
	}
	storedParties, err = store.GetParties(ctx, round.ID)
	if err != nil {
		t.Fatalf("reload parties: %v", err)
	}
	if got := storedParties[0].Scores[voting.SystemMajorityWithReward].CurrentScore; got != 12 {
		t.Fatalf("party score after update: got %d, want 12", got)
	}
}

func TestReadEntitiesAreIndependentCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	game := store.SeedGame(entities.Game{Name: "copies", NVoters: 1})
	round := store.SeedRound(entities.Round{GameID: game.ID})
	voter := store.SeedVoter(entities.Voter{
		GameID: game.ID,
		Name:   "ada",
		Scores: entities.ScoreBook{voting.SystemMajority: {CurrentScore: 3}},
	})
	event := store.SeedVotingEvent(entities.VotingEvent{
		RoundID:      round.ID,
		VotingSystem: voting.SystemMajorityWithReward,
		Rewards: entities.RewardTable{
			voting.SystemMajorityWithReward: {
				string(voting.ResultAccepted): entities.RewardSpec{Voters: map[int64]int{voter.ID: 1}},
			},
		},
	})

	loadedVoter, err := store.GetVoter(ctx, voter.ID)
	if err != nil {
		t.Fatalf("load voter: %v", err)
	}
	loadedVoter.Scores.Add(voting.SystemMajority, 100)

	loadedEvent, err := store.GetVotingEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("load event: %v", err)
	}
	loadedEvent.Rewards[voting.SystemMajorityWithReward][string(voting.ResultAccepted)].Voters[voter.ID] = 999

	reloadedVoter, err := store.GetVoter(ctx, voter.ID)
	if err != nil {
		t.Fatalf("reload voter: %v", err)
	}
	if got := reloadedVoter.Scores[voting.SystemMajority].CurrentScore; got != 3 {
		t.Fatalf("stored score book aliased by a read: got %d, want 3", got)
	}
	reloadedEvent, err := store.GetVotingEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("reload event: %v", err)
	}
	if got := reloadedEvent.Rewards[voting.SystemMajorityWithReward][string(voting.ResultAccepted)].Voters[voter.ID]; got != 1 {
		t.Fatalf("stored reward table aliased by a read: got %d, want 1", got)
	}
}
