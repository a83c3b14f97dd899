package application

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"parliament/contexts/game-play/game-service/domain/entities"
	"parliament/contexts/game-play/game-service/domain/voting"
	domainerrors "parliament/contexts/game-play/setup-service/domain/errors"
	"parliament/contexts/game-play/setup-service/domain/gameconfig"
	"parliament/contexts/game-play/setup-service/ports"
)

const hashAlphabet = "abcdefghijklmnopqrstuvwxyz"

// Service turns a parsed configuration into a fully persisted game graph:
// game, rounds, parties, voting events, simulated voters with randomized
// affiliations and reward tables, and pre-seeded simulated ballots.
type Service struct {
	Writer ports.GameWriter
	Clock  ports.Clock
	Logger *slog.Logger
	Rand   *rand.Rand
}

func NewService(writer ports.GameWriter, clock ports.Clock, logger *slog.Logger) *Service {
	return &Service{
		Writer: writer,
		Clock:  clock,
		Logger: logger,
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// UploadConfigurationCommand carries a parsed configuration and the number
// of seats reserved for real (human) voters; the rest are simulated.
type UploadConfigurationCommand struct {
	Config     gameconfig.VotingConfig
	Name       string
	RealVoters int
}

// UploadResult is the persisted game plus its simulated roster.
type UploadResult struct {
	Game            entities.Game
	SimulatedVoters []entities.Voter
}

// UploadConfiguration persists the full game graph. At least one simulated
// voter is required. With zero real voters the first voting event is made
// current immediately so progression can run off the pre-seeded ballots.
func (s *Service) UploadConfiguration(ctx context.Context, cmd UploadConfigurationCommand) (UploadResult, error) {
	config := cmd.Config
	if len(config.Rounds) == 0 {
		return UploadResult{}, fmt.Errorf("%w: configuration has no rounds", domainerrors.ErrInvalidConfiguration)
	}
	if cmd.RealVoters >= config.NVoters {
		return UploadResult{}, domainerrors.ErrNoSimulatedVoters
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = s.now().Format("2006-01-02 15:04:05")
	}
	game, err := s.Writer.CreateGame(ctx, entities.Game{
		Hash:      s.newGameHash(),
		Name:      name,
		NVoters:   config.NVoters,
		Status:    entities.GameStatusWaiting,
		CreatedAt: s.now(),
	})
	if err != nil {
		return UploadResult{}, err
	}

	simulated := make([]entities.Voter, 0, config.NVoters-cmd.RealVoters)
	for i := 0; i < config.NVoters-cmd.RealVoters; i++ {
		voter, err := s.Writer.CreateVoter(ctx, entities.Voter{
			GameID: game.ID,
			Name:   fmt.Sprintf("simulated voter %d", i),
		})
		if err != nil {
			return UploadResult{}, err
		}
		simulated = append(simulated, voter)
	}

	var firstRoundID, firstEventID *int64
	eventCount := 0
	for idx, roundConfig := range config.Rounds {
		round, err := s.Writer.CreateRound(ctx, entities.Round{
			GameID:      game.ID,
			RoundNumber: idx,
			Rules:       roundConfig.Rules,
			VoterTarget: roundConfig.VoterTarget,
		})
		if err != nil {
			return UploadResult{}, err
		}
		if firstRoundID == nil {
			firstRoundID = &round.ID
		}

		parties := make([]entities.Party, 0, len(roundConfig.Parties))
		for _, partyName := range roundConfig.Parties {
			party, err := s.Writer.CreateParty(ctx, entities.Party{
				RoundID: round.ID,
				Name:    partyName,
			})
			if err != nil {
				return UploadResult{}, err
			}
			parties = append(parties, party)
		}

		if err := s.affiliateSimulatedVoters(ctx, round, parties, roundConfig.Fractions, simulated); err != nil {
			return UploadResult{}, err
		}

		system := votingSystemForRules(roundConfig.Rules)
		for _, question := range roundConfig.Questions {
			event := entities.VotingEvent{
				RoundID:      round.ID,
				Title:        question,
				Content:      question,
				VotingSystem: system,
			}
			if system == voting.SystemMajorityWithReward {
				event.Rewards = s.randomRewardTable(simulated, parties)
			}
			event, err = s.Writer.CreateVotingEvent(ctx, event)
			if err != nil {
				return UploadResult{}, err
			}
			if firstEventID == nil {
				firstEventID = &event.ID
			}
			eventCount++

			if system == voting.SystemMajorityWithReward {
				if err := s.seedSimulatedVotes(ctx, event, simulated); err != nil {
					return UploadResult{}, err
				}
			}
		}
	}

	game.CurrentRoundID = firstRoundID
	if cmd.RealVoters <= 0 {
		game.CurrentVotingEventID = firstEventID
	}
	if err := s.Writer.SetGameProgress(ctx, game); err != nil {
		return UploadResult{}, err
	}

	s.logger().Info("configuration uploaded",
		"event", "setup_configuration_uploaded",
		"module", "game-play/setup-service",
		"layer", "application",
		"game_id", game.ID,
		"game_hash", game.Hash,
		"rounds", len(config.Rounds),
		"voting_events", eventCount,
		"simulated_voters", len(simulated),
		"real_voters", cmd.RealVoters,
	)
	return UploadResult{Game: game, SimulatedVoters: simulated}, nil
}

// affiliateSimulatedVoters assigns every simulated voter a party for the
// round. With configured fractions the party sizes follow them; otherwise
// assignment is uniformly random.
func (s *Service) affiliateSimulatedVoters(
	ctx context.Context,
	round entities.Round,
	parties []entities.Party,
	fractions []float64,
	simulated []entities.Voter,
) error {
	if len(parties) == 0 || len(simulated) == 0 {
		return nil
	}
	assignments := make([]entities.Party, 0, len(simulated))
	if len(fractions) == len(parties) {
		shuffled := append([]entities.Voter(nil), simulated...)
		s.Rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		simulated = shuffled
		for i, party := range parties {
			count := int(math.Round(fractions[i] * float64(len(simulated))))
			if i == len(parties)-1 {
				count = len(simulated) - len(assignments)
			}
			for j := 0; j < count && len(assignments) < len(simulated); j++ {
				assignments = append(assignments, party)
			}
		}
		for len(assignments) < len(simulated) {
			assignments = append(assignments, parties[len(parties)-1])
		}
	} else {
		for range simulated {
			assignments = append(assignments, parties[s.Rand.Intn(len(parties))])
		}
	}

	for i, voter := range simulated {
		if _, err := s.Writer.CreateAffiliation(ctx, entities.Affiliation{
			VoterID: voter.ID,
			PartyID: assignments[i].ID,
			RoundID: round.ID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// randomRewardTable builds a reward table covering every simulated voter
// and every round party, with independent random deltas for the ACCEPTED
// and REJECTED outcomes. Voter deltas land in [-4, 4], party deltas in
// {-30, -20, -10, 0, 10, 20, 30}.
func (s *Service) randomRewardTable(simulated []entities.Voter, parties []entities.Party) entities.RewardTable {
	spec := func() entities.RewardSpec {
		voterDeltas := make(map[int64]int, len(simulated))
		for _, voter := range simulated {
			voterDeltas[voter.ID] = s.randomSign() * s.Rand.Intn(5)
		}
		partyDeltas := make(map[int64]int, len(parties))
		for _, party := range parties {
			partyDeltas[party.ID] = s.randomSign() * 10 * s.Rand.Intn(4)
		}
		return entities.RewardSpec{Voters: voterDeltas, Parties: partyDeltas}
	}
	return entities.RewardTable{
		voting.SystemMajorityWithReward: {
			string(voting.ResultAccepted): spec(),
			string(voting.ResultRejected): spec(),
		},
	}
}

// seedSimulatedVotes records each simulated voter's best-own-outcome ballot:
// YES when acceptance pays at least as much as rejection, NO when rejection
// pays more, ABSTAIN when both outcomes are equal and non-positive.
func (s *Service) seedSimulatedVotes(
	ctx context.Context,
	event entities.VotingEvent,
	simulated []entities.Voter,
) error {
	bySystem, ok := event.Rewards[voting.SystemMajorityWithReward]
	if !ok {
		return nil
	}
	accepted := bySystem[string(voting.ResultAccepted)]
	rejected := bySystem[string(voting.ResultRejected)]
	for _, voter := range simulated {
		yes := accepted.Voters[voter.ID]
		no := rejected.Voters[voter.ID]
		value := entities.VoteValueNo
		switch {
		case yes == no && yes <= 0:
			value = entities.VoteValueAbstain
		case yes >= no:
			value = entities.VoteValueYes
		}
		if _, err := s.Writer.CreateVote(ctx, entities.Vote{
			VoterID:       voter.ID,
			VotingEventID: event.ID,
			Value:         value,
			CreatedAt:     s.now(),
		}); err != nil {
			return err
		}
	}
	return nil
}

func votingSystemForRules(rules string) string {
	if strings.EqualFold(strings.TrimSpace(rules), voting.SystemMajorityWithReward) {
		return voting.SystemMajorityWithReward
	}
	return voting.SystemMajority
}

func (s *Service) newGameHash() string {
	code := make([]byte, 4)
	for i := range code {
		code[i] = hashAlphabet[s.Rand.Intn(len(hashAlphabet))]
	}
	return string(code)
}

func (s *Service) randomSign() int {
	if s.Rand.Intn(2) == 0 {
		return 1
	}
	return -1
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
