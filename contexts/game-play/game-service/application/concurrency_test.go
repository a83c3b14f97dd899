package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"parliament/contexts/game-play/game-service/domain/entities"
	domainerrors "parliament/contexts/game-play/game-service/domain/errors"
	"parliament/contexts/game-play/game-service/domain/voting"
)

// TestConcurrentFinalBallots floods one voting event with simultaneous
// ballots. Exactly one per voter may land, the event must conclude exactly
// once, and reward scores must reflect a single application.
func TestConcurrentFinalBallots(t *testing.T) {
	const voterCount = 16

	f := newFixture(t)
	ctx := context.Background()

	game := f.store.SeedGame(entities.Game{
		Hash:    "race",
		Name:    "contended",
		NVoters: voterCount,
		Status:  entities.GameStatusWaiting,
	})
	round := f.store.SeedRound(entities.Round{GameID: game.ID, RoundNumber: 1, VoterTarget: voterCount})
	party := f.store.SeedParty(entities.Party{RoundID: round.ID, Name: "reds"})

	voterIDs := make([]int64, 0, voterCount)
	rewardVoters := make(map[int64]int, voterCount)
	for i := 0; i < voterCount; i++ {
		voter := f.store.SeedVoter(entities.Voter{GameID: game.ID, Name: "voter"})
		voterIDs = append(voterIDs, voter.ID)
		rewardVoters[voter.ID] = 2
	}
	event := f.store.SeedVotingEvent(entities.VotingEvent{
		RoundID:      round.ID,
		Title:        "contested motion",
		VotingSystem: voting.SystemMajorityWithReward,
		Rewards: entities.RewardTable{
			voting.SystemMajorityWithReward: {
				string(voting.ResultAccepted): {
					Voters:  rewardVoters,
					Parties: map[int64]int{party.ID: 5},
				},
			},
		},
	})

	if _, err := f.service.Resync(ctx, game.ID); err != nil {
		t.Fatalf("resync: %v", err)
	}
	for _, voterID := range voterIDs {
		mustAffiliate(t, f, voterID, party.ID, round.ID)
	}

	// Every voter submits twice concurrently; the second attempt must be
	// rejected as a duplicate, never counted.
	var wg sync.WaitGroup
	errCh := make(chan error, voterCount*2)
	for _, voterID := range voterIDs {
		for attempt := 0; attempt < 2; attempt++ {
			wg.Add(1)
			go func(voterID int64) {
				defer wg.Done()
				_, err := f.service.CastVote(ctx, CastVoteCommand{
					VoterID:       voterID,
					VotingEventID: event.ID,
					Value:         entities.VoteValueYes,
				})
				errCh <- err
			}(voterID)
		}
	}
	wg.Wait()
	close(errCh)

	var accepted, duplicates, rejectedLate int
	for err := range errCh {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, domainerrors.ErrDuplicateVote):
			duplicates++
		case errors.Is(err, domainerrors.ErrVotingEventNotActive),
			errors.Is(err, domainerrors.ErrGameNotStarted),
			errors.Is(err, domainerrors.ErrGameEnded):
			// The event may already have concluded (and the single-event
			// game ended) by the time a straggler acquires the lock.
			rejectedLate++
		default:
			t.Fatalf("unexpected ballot error: %v", err)
		}
	}
	if accepted != voterCount {
		t.Fatalf("expected %d accepted ballots, got %d (duplicates=%d late=%d)",
			voterCount, accepted, duplicates, rejectedLate)
	}

	votes, err := f.store.GetVotes(ctx, event.ID)
	if err != nil {
		t.Fatalf("load votes: %v", err)
	}
	if len(votes) != voterCount {
		t.Fatalf("expected %d stored ballots, got %d", voterCount, len(votes))
	}

	concluded, err := f.store.GetVotingEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("load event: %v", err)
	}
	if concluded.Result == nil || *concluded.Result != string(voting.ResultAccepted) {
		t.Fatalf("expected ACCEPTED, got %v", concluded.Result)
	}

	// One event, one round: the game must have ended exactly once.
	game, err = f.store.GetGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("load game: %v", err)
	}
	if game.Status != entities.GameStatusEnded {
		t.Fatalf("expected ENDED, got %s", game.Status)
	}

	// Rewards applied exactly once per voter and party.
	for _, voterID := range voterIDs {
		voter, err := f.store.GetVoter(ctx, voterID)
		if err != nil {
			t.Fatalf("load voter: %v", err)
		}
		if got := voter.Scores[voting.SystemMajorityWithReward].CurrentScore; got != 2 {
			t.Fatalf("voter %d: expected score 2, got %d", voterID, got)
		}
	}
	parties, err := f.store.GetParties(ctx, round.ID)
	if err != nil {
		t.Fatalf("load parties: %v", err)
	}
	if got := parties[0].Scores[voting.SystemMajorityWithReward].CurrentScore; got != 5 {
		t.Fatalf("expected party score 5, got %d", got)
	}
}

func TestDistinctGamesProgressIndependently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seedOneEventGame := func(hash string) (entities.Game, entities.Voter, entities.VotingEvent, entities.Party, entities.Round) {
		game := f.store.SeedGame(entities.Game{Hash: hash, Name: hash, NVoters: 1, Status: entities.GameStatusWaiting})
		round := f.store.SeedRound(entities.Round{GameID: game.ID, RoundNumber: 1, VoterTarget: 1})
		party := f.store.SeedParty(entities.Party{RoundID: round.ID, Name: "solo"})
		voter := f.store.SeedVoter(entities.Voter{GameID: game.ID, Name: "only"})
		event := f.store.SeedVotingEvent(entities.VotingEvent{RoundID: round.ID, Title: "q", VotingSystem: voting.SystemMajority})
		return game, voter, event, party, round
	}

	gameA, voterA, eventA, partyA, roundA := seedOneEventGame("aaaa")
	gameB, voterB, eventB, partyB, roundB := seedOneEventGame("bbbb")

	for _, gameID := range []int64{gameA.ID, gameB.ID} {
		if _, err := f.service.Resync(ctx, gameID); err != nil {
			t.Fatalf("resync game %d: %v", gameID, err)
		}
	}

	playThrough := func(voterID, partyID, roundID, eventID int64, value entities.VoteValue) error {
		if _, err := f.service.RegisterAffiliation(ctx, RegisterAffiliationCommand{
			VoterID: voterID,
			PartyID: partyID,
			RoundID: roundID,
		}); err != nil {
			return err
		}
		_, err := f.service.CastVote(ctx, CastVoteCommand{
			VoterID:       voterID,
			VotingEventID: eventID,
			Value:         value,
		})
		return err
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errCh <- playThrough(voterA.ID, partyA.ID, roundA.ID, eventA.ID, entities.VoteValueYes)
	}()
	go func() {
		defer wg.Done()
		errCh <- playThrough(voterB.ID, partyB.ID, roundB.ID, eventB.ID, entities.VoteValueNo)
	}()
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("play-through failed: %v", err)
		}
	}

	for _, gameID := range []int64{gameA.ID, gameB.ID} {
		game, err := f.store.GetGame(ctx, gameID)
		if err != nil {
			t.Fatalf("load game %d: %v", gameID, err)
		}
		if game.Status != entities.GameStatusEnded {
			t.Fatalf("game %d: expected ENDED, got %s", gameID, game.Status)
		}
	}
}
