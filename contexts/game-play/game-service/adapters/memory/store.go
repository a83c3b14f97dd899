package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"parliament/contexts/game-play/game-service/domain/entities"
	domainerrors "parliament/contexts/game-play/game-service/domain/errors"
)

// Store is an in-memory Repository used by tests and local wiring. IDs are
// assigned from a single ascending sequence, mirroring the autoincrement
// ordering the progression logic relies on.
type Store struct {
	mu     sync.RWMutex
	nextID int64

	games        map[int64]entities.Game
	rounds       map[int64]entities.Round
	parties      map[int64]entities.Party
	voters       map[int64]entities.Voter
	affiliations map[int64]entities.Affiliation
	events       map[int64]entities.VotingEvent
	votes        map[int64]entities.Vote
}

func NewStore() *Store {
	return &Store{
		games:        make(map[int64]entities.Game),
		rounds:       make(map[int64]entities.Round),
		parties:      make(map[int64]entities.Party),
		voters:       make(map[int64]entities.Voter),
		affiliations: make(map[int64]entities.Affiliation),
		events:       make(map[int64]entities.VotingEvent),
		votes:        make(map[int64]entities.Vote),
	}
}

func (s *Store) allocateID() int64 {
	s.nextID++
	return s.nextID
}

// Entities carrying maps are cloned on every read and write so callers never
// share mutable state with the stored record. Mutations reach the store only
// through the Update methods, matching what a database-backed adapter gives.

func cloneVoter(voter entities.Voter) entities.Voter {
	voter.Scores = voter.Scores.Clone()
	return voter
}

func cloneParty(party entities.Party) entities.Party {
	party.Scores = party.Scores.Clone()
	return party
}

func cloneVotingEvent(event entities.VotingEvent) entities.VotingEvent {
	event.Rewards = event.Rewards.Clone()
	if event.Configuration != nil {
		event.Configuration = append([]byte(nil), event.Configuration...)
	}
	if event.Result != nil {
		result := *event.Result
		event.Result = &result
	}
	return event
}

// SeedGame inserts a game and returns it with its assigned id.
func (s *Store) SeedGame(game entities.Game) entities.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	if game.ID == 0 {
		game.ID = s.allocateID()
	}
	if game.CreatedAt.IsZero() {
		game.CreatedAt = time.Now().UTC()
	}
	s.games[game.ID] = game
	return game
}

func (s *Store) SeedRound(round entities.Round) entities.Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	if round.ID == 0 {
		round.ID = s.allocateID()
	}
	s.rounds[round.ID] = round
	return round
}

func (s *Store) SeedParty(party entities.Party) entities.Party {
	s.mu.Lock()
	defer s.mu.Unlock()
	if party.ID == 0 {
		party.ID = s.allocateID()
	}
	s.parties[party.ID] = cloneParty(party)
	return party
}

func (s *Store) SeedVoter(voter entities.Voter) entities.Voter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if voter.ID == 0 {
		voter.ID = s.allocateID()
	}
	s.voters[voter.ID] = cloneVoter(voter)
	return voter
}

func (s *Store) SeedVotingEvent(event entities.VotingEvent) entities.VotingEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.ID == 0 {
		event.ID = s.allocateID()
	}
	s.events[event.ID] = cloneVotingEvent(event)
	return event
}

func (s *Store) SeedAffiliation(affiliation entities.Affiliation) entities.Affiliation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if affiliation.ID == 0 {
		affiliation.ID = s.allocateID()
	}
	s.affiliations[affiliation.ID] = affiliation
	return affiliation
}

func (s *Store) SeedVote(vote entities.Vote) entities.Vote {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vote.ID == 0 {
		vote.ID = s.allocateID()
	}
	s.votes[vote.ID] = vote
	return vote
}

func (s *Store) GetGame(_ context.Context, gameID int64) (entities.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[gameID]
	if !ok {
		return entities.Game{}, domainerrors.ErrGameNotFound
	}
	return game, nil
}

func (s *Store) GetGameByHash(_ context.Context, hash string) (entities.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, game := range s.games {
		if strings.EqualFold(game.Hash, hash) {
			return game, nil
		}
	}
	return entities.Game{}, domainerrors.ErrGameNotFound
}

func (s *Store) GetActiveGame(_ context.Context) (entities.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if s.games[id].Status != entities.GameStatusEnded {
			return s.games[id], nil
		}
	}
	if len(ids) > 0 {
		return s.games[ids[len(ids)-1]], nil
	}
	return entities.Game{}, domainerrors.ErrGameNotFound
}

func (s *Store) GetRound(_ context.Context, roundID int64) (entities.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, ok := s.rounds[roundID]
	if !ok {
		return entities.Round{}, domainerrors.ErrRoundNotFound
	}
	return round, nil
}

func (s *Store) GetRounds(_ context.Context, gameID int64) ([]entities.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Round, 0)
	for _, round := range s.rounds {
		if round.GameID == gameID {
			items = append(items, round)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) GetVotingEvent(_ context.Context, votingEventID int64) (entities.VotingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[votingEventID]
	if !ok {
		return entities.VotingEvent{}, domainerrors.ErrVotingEventNotFound
	}
	return cloneVotingEvent(event), nil
}

func (s *Store) GetVotingEvents(_ context.Context, roundID int64) ([]entities.VotingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.VotingEvent, 0)
	for _, event := range s.events {
		if event.RoundID == roundID {
			items = append(items, cloneVotingEvent(event))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) GetVotes(_ context.Context, votingEventID int64) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.VotingEventID == votingEventID {
			items = append(items, vote)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) GetVote(_ context.Context, votingEventID int64, voterID int64) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, vote := range s.votes {
		if vote.VotingEventID == votingEventID && vote.VoterID == voterID {
			return vote, true, nil
		}
	}
	return entities.Vote{}, false, nil
}

func (s *Store) GetVoter(_ context.Context, voterID int64) (entities.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voter, ok := s.voters[voterID]
	if !ok {
		return entities.Voter{}, domainerrors.ErrVoterNotFound
	}
	return cloneVoter(voter), nil
}

func (s *Store) GetVoters(_ context.Context, gameID int64) ([]entities.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Voter, 0)
	for _, voter := range s.voters {
		if voter.GameID == gameID {
			items = append(items, cloneVoter(voter))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) GetParties(_ context.Context, roundID int64) ([]entities.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Party, 0)
	for _, party := range s.parties {
		if party.RoundID == roundID {
			items = append(items, cloneParty(party))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) GetAffiliationsForRound(_ context.Context, roundID int64) ([]entities.Affiliation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Affiliation, 0)
	for _, affiliation := range s.affiliations {
		if affiliation.RoundID == roundID {
			items = append(items, affiliation)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) CastVote(_ context.Context, vote entities.Vote) (entities.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.votes {
		if existing.VotingEventID == vote.VotingEventID && existing.VoterID == vote.VoterID {
			return entities.Vote{}, domainerrors.ErrDuplicateVote
		}
	}
	vote.ID = s.allocateID()
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now().UTC()
	}
	s.votes[vote.ID] = vote
	return vote, nil
}

func (s *Store) UpdateVotingEvent(_ context.Context, votingEventID int64, result string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[votingEventID]
	if !ok {
		return domainerrors.ErrVotingEventNotFound
	}
	event.Result = &result
	s.events[votingEventID] = event
	return nil
}

func (s *Store) UpdateVoters(_ context.Context, voters []entities.Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, voter := range voters {
		if _, ok := s.voters[voter.ID]; !ok {
			return domainerrors.ErrVoterNotFound
		}
		s.voters[voter.ID] = cloneVoter(voter)
	}
	return nil
}

func (s *Store) UpdateParties(_ context.Context, parties []entities.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, party := range parties {
		if _, ok := s.parties[party.ID]; !ok {
			return domainerrors.ErrPartyNotFound
		}
		s.parties[party.ID] = cloneParty(party)
	}
	return nil
}

func (s *Store) UpdateGameProgress(_ context.Context, game entities.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.games[game.ID]
	if !ok {
		return domainerrors.ErrGameNotFound
	}
	existing.CurrentRoundID = game.CurrentRoundID
	existing.CurrentVotingEventID = game.CurrentVotingEventID
	existing.Status = game.Status
	s.games[game.ID] = existing
	return nil
}

func (s *Store) UpdateGameStatus(_ context.Context, gameID int64, status entities.GameStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok {
		return domainerrors.ErrGameNotFound
	}
	game.Status = status
	s.games[gameID] = game
	return nil
}

func (s *Store) AddVoter(_ context.Context, voter entities.Voter) (entities.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voter.ID = s.allocateID()
	s.voters[voter.ID] = cloneVoter(voter)
	return voter, nil
}

func (s *Store) AddAffiliation(_ context.Context, affiliation entities.Affiliation) (entities.Affiliation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.affiliations {
		if existing.RoundID == affiliation.RoundID && existing.VoterID == affiliation.VoterID {
			return entities.Affiliation{}, domainerrors.ErrDuplicateAffiliation
		}
	}
	affiliation.ID = s.allocateID()
	s.affiliations[affiliation.ID] = affiliation
	return affiliation, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
