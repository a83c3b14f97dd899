package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"parliament/contexts/game-play/game-service/adapters/memory"
	"parliament/contexts/game-play/game-service/domain/entities"
	domainerrors "parliament/contexts/game-play/game-service/domain/errors"
	"parliament/contexts/game-play/game-service/domain/voting"
	"parliament/contexts/game-play/game-service/ports"
)

type capturePublisher struct {
	mu        sync.Mutex
	snapshots []ports.GameSnapshot
}

func (p *capturePublisher) Publish(snapshot ports.GameSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, snapshot)
}

func (p *capturePublisher) last() (ports.GameSnapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.snapshots) == 0 {
		return ports.GameSnapshot{}, false
	}
	return p.snapshots[len(p.snapshots)-1], true
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type fixture struct {
	store   *memory.Store
	stream  *capturePublisher
	service *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	stream := &capturePublisher{}
	clock := fixedClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)}
	return &fixture{
		store:   store,
		stream:  stream,
		service: NewService(store, stream, clock, nil),
	}
}

// startedGame seeds a two-voter game in the middle of its first round: both
// voters affiliated, the round's first event active and awaiting ballots.
type startedGame struct {
	game    entities.Game
	round   entities.Round
	event   entities.VotingEvent
	voterA  entities.Voter
	voterB  entities.Voter
	parties []entities.Party
}

func seedStartedGame(t *testing.T, f *fixture) startedGame {
	t.Helper()
	game := f.store.SeedGame(entities.Game{
		Hash:    "abcd",
		Name:    "assembly",
		NVoters: 2,
		Status:  entities.GameStatusWaiting,
	})
	round := f.store.SeedRound(entities.Round{GameID: game.ID, RoundNumber: 1, VoterTarget: 2})
	partyA := f.store.SeedParty(entities.Party{RoundID: round.ID, Name: "reds"})
	partyB := f.store.SeedParty(entities.Party{RoundID: round.ID, Name: "blues"})
	event := f.store.SeedVotingEvent(entities.VotingEvent{
		RoundID:      round.ID,
		Title:        "motion one",
		VotingSystem: voting.SystemMajority,
	})
	voterA := f.store.SeedVoter(entities.Voter{GameID: game.ID, Name: "ada"})
	voterB := f.store.SeedVoter(entities.Voter{GameID: game.ID, Name: "ben"})
	f.store.SeedAffiliation(entities.Affiliation{VoterID: voterA.ID, PartyID: partyA.ID, RoundID: round.ID})
	f.store.SeedAffiliation(entities.Affiliation{VoterID: voterB.ID, PartyID: partyB.ID, RoundID: round.ID})

	game.Status = entities.GameStatusStarted
	game.CurrentRoundID = &round.ID
	game.CurrentVotingEventID = &event.ID
	if err := f.store.UpdateGameProgress(context.Background(), game); err != nil {
		t.Fatalf("seed game progress: %v", err)
	}
	return startedGame{
		game:    game,
		round:   round,
		event:   event,
		voterA:  voterA,
		voterB:  voterB,
		parties: []entities.Party{partyA, partyB},
	}
}

func TestCastVoteRejectsInvalidValue(t *testing.T) {
	f := newFixture(t)
	seeded := seedStartedGame(t, f)

	_, err := f.service.CastVote(context.Background(), CastVoteCommand{
		VoterID:       seeded.voterA.ID,
		VotingEventID: seeded.event.ID,
		Value:         "MAYBE",
	})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCastVoteRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	seeded := seedStartedGame(t, f)

	cmd := CastVoteCommand{
		VoterID:       seeded.voterA.ID,
		VotingEventID: seeded.event.ID,
		Value:         entities.VoteValueYes,
	}
	if _, err := f.service.CastVote(context.Background(), cmd); err != nil {
		t.Fatalf("first ballot: %v", err)
	}
	cmd.Value = entities.VoteValueNo
	if _, err := f.service.CastVote(context.Background(), cmd); !errors.Is(err, domainerrors.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}
}

func TestCastVoteRequiresStartedGame(t *testing.T) {
	f := newFixture(t)
	seeded := seedStartedGame(t, f)
	if err := f.store.UpdateGameStatus(context.Background(), seeded.game.ID, entities.GameStatusPaused); err != nil {
		t.Fatalf("pause game: %v", err)
	}

	_, err := f.service.CastVote(context.Background(), CastVoteCommand{
		VoterID:       seeded.voterA.ID,
		VotingEventID: seeded.event.ID,
		Value:         entities.VoteValueYes,
	})
	if !errors.Is(err, domainerrors.ErrGameNotStarted) {
		t.Fatalf("expected ErrGameNotStarted, got %v", err)
	}

	if err := f.store.UpdateGameStatus(context.Background(), seeded.game.ID, entities.GameStatusEnded); err != nil {
		t.Fatalf("end game: %v", err)
	}
	_, err = f.service.CastVote(context.Background(), CastVoteCommand{
		VoterID:       seeded.voterA.ID,
		VotingEventID: seeded.event.ID,
		Value:         entities.VoteValueYes,
	})
	if !errors.Is(err, domainerrors.ErrGameEnded) {
		t.Fatalf("expected ErrGameEnded, got %v", err)
	}
}

func TestCastVoteRejectsInactiveEvent(t *testing.T) {
	f := newFixture(t)
	seeded := seedStartedGame(t, f)
	later := f.store.SeedVotingEvent(entities.VotingEvent{
		RoundID:      seeded.round.ID,
		Title:        "motion two",
		VotingSystem: voting.SystemMajority,
	})

	_, err := f.service.CastVote(context.Background(), CastVoteCommand{
		VoterID:       seeded.voterA.ID,
		VotingEventID: later.ID,
		Value:         entities.VoteValueYes,
	})
	if !errors.Is(err, domainerrors.ErrVotingEventNotActive) {
		t.Fatalf("expected ErrVotingEventNotActive, got %v", err)
	}
}

func TestCastVoteRejectsVoterFromAnotherGame(t *testing.T) {
	f := newFixture(t)
	seeded := seedStartedGame(t, f)
	other := f.store.SeedGame(entities.Game{Hash: "zzzz", Name: "other", Status: entities.GameStatusWaiting})
	stranger := f.store.SeedVoter(entities.Voter{GameID: other.ID, Name: "zoe"})

	_, err := f.service.CastVote(context.Background(), CastVoteCommand{
		VoterID:       stranger.ID,
		VotingEventID: seeded.event.ID,
		Value:         entities.VoteValueYes,
	})
	if !errors.Is(err, domainerrors.ErrVoterNotFound) {
		t.Fatalf("expected ErrVoterNotFound, got %v", err)
	}
}

func TestCastVotePublishesSnapshot(t *testing.T) {
	f := newFixture(t)
	seeded := seedStartedGame(t, f)

	if _, err := f.service.CastVote(context.Background(), CastVoteCommand{
		VoterID:       seeded.voterA.ID,
		VotingEventID: seeded.event.ID,
		Value:         entities.VoteValueYes,
	}); err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	snapshot, ok := f.stream.last()
	if !ok {
		t.Fatal("expected a published snapshot")
	}
	if snapshot.GameID != seeded.game.ID {
		t.Fatalf("snapshot for wrong game: %+v", snapshot)
	}
	if snapshot.CurrentVotingQuestion != seeded.event.Title {
		t.Fatalf("expected snapshot to carry the active question, got %q", snapshot.CurrentVotingQuestion)
	}
}

func TestRegisterVoterRejectsEndedGameAndBlankName(t *testing.T) {
	f := newFixture(t)
	seeded := seedStartedGame(t, f)

	if _, err := f.service.RegisterVoter(context.Background(), RegisterVoterCommand{
		GameHash: seeded.game.Hash,
		Name:     "   ",
	}); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if err := f.store.UpdateGameStatus(context.Background(), seeded.game.ID, entities.GameStatusEnded); err != nil {
		t.Fatalf("end game: %v", err)
	}
	if _, err := f.service.RegisterVoter(context.Background(), RegisterVoterCommand{
		GameHash: seeded.game.Hash,
		Name:     "carol",
	}); !errors.Is(err, domainerrors.ErrGameEnded) {
		t.Fatalf("expected ErrGameEnded, got %v", err)
	}
}

func TestRegisterVoterJoinsByHash(t *testing.T) {
	f := newFixture(t)
	seeded := seedStartedGame(t, f)

	voter, err := f.service.RegisterVoter(context.Background(), RegisterVoterCommand{
		GameHash: seeded.game.Hash,
		Name:     " carol ",
	})
	if err != nil {
		t.Fatalf("register voter: %v", err)
	}
	if voter.GameID != seeded.game.ID {
		t.Fatalf("voter joined wrong game: %+v", voter)
	}
	if voter.Name != "carol" {
		t.Fatalf("expected trimmed name, got %q", voter.Name)
	}
}

func TestRegisterAffiliationValidations(t *testing.T) {
	f := newFixture(t)
	seeded := seedStartedGame(t, f)
	voterC := f.store.SeedVoter(entities.Voter{GameID: seeded.game.ID, Name: "carol"})

	// Unknown party for the round.
	if _, err := f.service.RegisterAffiliation(context.Background(), RegisterAffiliationCommand{
		VoterID: voterC.ID,
		PartyID: 9999,
		RoundID: seeded.round.ID,
	}); !errors.Is(err, domainerrors.ErrPartyNotFound) {
		t.Fatalf("expected ErrPartyNotFound, got %v", err)
	}

	// Already affiliated this round.
	if _, err := f.service.RegisterAffiliation(context.Background(), RegisterAffiliationCommand{
		VoterID: seeded.voterA.ID,
		PartyID: seeded.parties[0].ID,
		RoundID: seeded.round.ID,
	}); !errors.Is(err, domainerrors.ErrDuplicateAffiliation) {
		t.Fatalf("expected ErrDuplicateAffiliation, got %v", err)
	}

	// A round that is not the game's current round.
	otherRound := f.store.SeedRound(entities.Round{GameID: seeded.game.ID, RoundNumber: 2, VoterTarget: 2})
	party := f.store.SeedParty(entities.Party{RoundID: otherRound.ID, Name: "greens"})
	if _, err := f.service.RegisterAffiliation(context.Background(), RegisterAffiliationCommand{
		VoterID: voterC.ID,
		PartyID: party.ID,
		RoundID: otherRound.ID,
	}); !errors.Is(err, domainerrors.ErrRoundNotActive) {
		t.Fatalf("expected ErrRoundNotActive, got %v", err)
	}
}

func TestActiveSnapshotDescribesCurrentEvent(t *testing.T) {
	f := newFixture(t)
	seeded := seedStartedGame(t, f)

	snapshot, err := f.service.ActiveSnapshot(context.Background())
	if err != nil {
		t.Fatalf("active snapshot: %v", err)
	}
	if snapshot.GameID != seeded.game.ID {
		t.Fatalf("wrong game in snapshot: %+v", snapshot)
	}
	if snapshot.Status != entities.GameStatusStarted {
		t.Fatalf("expected STARTED, got %s", snapshot.Status)
	}
	if snapshot.CurrentVotingQuestion != "motion one" {
		t.Fatalf("expected active question, got %q", snapshot.CurrentVotingQuestion)
	}
}
