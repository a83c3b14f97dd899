// Package voting computes the outcome of a concluded voting event. The
// supported systems form a closed set dispatched in Resolve; rule
// parameters arrive as the event's configuration JSON.
package voting

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"parliament/contexts/game-play/game-service/domain/entities"
	domainerrors "parliament/contexts/game-play/game-service/domain/errors"
)

const (
	SystemMajority           = "MAJORITY"
	SystemMajorityWithReward = "MAJORITY_WITH_REWARD"
)

// Result is the binary outcome of a voting event.
type Result string

const (
	ResultAccepted Result = "ACCEPTED"
	ResultRejected Result = "REJECTED"
)

// Config carries the tunable rule parameters of a voting system.
type Config struct {
	PassThreshold        float64
	AbstainCountsToTotal bool
	RewardPerVoter       bool
	RewardPerParty       bool
}

// DefaultConfig returns the rule parameters used when an event carries no
// configuration: simple majority, abstentions excluded, both reward sides on.
func DefaultConfig() Config {
	return Config{
		PassThreshold:        0.5,
		AbstainCountsToTotal: false,
		RewardPerVoter:       true,
		RewardPerParty:       true,
	}
}

// ParseConfig overlays the event's configuration JSON on the defaults.
// Absent keys keep their default value.
func ParseConfig(raw []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(raw) == 0 {
		return cfg, nil
	}
	var overlay struct {
		PassThreshold        *float64 `json:"pass_threshold"`
		AbstainCountsToTotal *bool    `json:"is_abstain_count_to_total"`
		RewardPerVoter       *bool    `json:"reward_per_voter"`
		RewardPerParty       *bool    `json:"reward_per_party"`
	}
	if err := json.Unmarshal(raw, &overlay); err != nil {
		return cfg, fmt.Errorf("parse voting configuration: %w", err)
	}
	if overlay.PassThreshold != nil {
		cfg.PassThreshold = *overlay.PassThreshold
	}
	if overlay.AbstainCountsToTotal != nil {
		cfg.AbstainCountsToTotal = *overlay.AbstainCountsToTotal
	}
	if overlay.RewardPerVoter != nil {
		cfg.RewardPerVoter = *overlay.RewardPerVoter
	}
	if overlay.RewardPerParty != nil {
		cfg.RewardPerParty = *overlay.RewardPerParty
	}
	return cfg, nil
}

// Tally partitions ballots by value.
type Tally struct {
	Yes     int
	No      int
	Abstain int
}

// Count tallies the cast ballots. Unknown values are counted as abstentions.
func Count(votes []entities.Vote) Tally {
	var tally Tally
	for _, vote := range votes {
		switch vote.Value {
		case entities.VoteValueYes:
			tally.Yes++
		case entities.VoteValueNo:
			tally.No++
		default:
			tally.Abstain++
		}
	}
	return tally
}

// Outcome is the result of resolving an event plus the entities whose
// scores changed. Unchanged voters and parties are not listed.
type Outcome struct {
	Result  Result
	Voters  []entities.Voter
	Parties []entities.Party
}

// Resolve computes the outcome of an event under its declared voting
// system. An unknown system returns ErrUnknownVotingSystem; reward table
// omissions are logged and skipped without failing the base result.
func Resolve(
	event entities.VotingEvent,
	votes []entities.Vote,
	voters []entities.Voter,
	parties []entities.Party,
	cfg Config,
	logger *slog.Logger,
) (Outcome, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch event.VotingSystem {
	case SystemMajority:
		return Outcome{Result: majorityResult(votes, cfg)}, nil
	case SystemMajorityWithReward:
		result := majorityResult(votes, cfg)
		changedVoters, changedParties := applyRewards(event, result, voters, parties, cfg, logger)
		return Outcome{
			Result:  result,
			Voters:  changedVoters,
			Parties: changedParties,
		}, nil
	default:
		return Outcome{}, fmt.Errorf("%w: %q", domainerrors.ErrUnknownVotingSystem, event.VotingSystem)
	}
}

// majorityResult accepts iff the yes fraction strictly exceeds the pass
// threshold. A zero denominator (no countable ballots) rejects.
func majorityResult(votes []entities.Vote, cfg Config) Result {
	tally := Count(votes)
	counted := tally.Yes + tally.No
	if cfg.AbstainCountsToTotal {
		counted += tally.Abstain
	}
	if counted == 0 {
		return ResultRejected
	}
	if float64(tally.Yes)/float64(counted) > cfg.PassThreshold {
		return ResultAccepted
	}
	return ResultRejected
}

// applyRewards accumulates the event's reward deltas for the computed
// result onto voter and party score books. Entities absent from the reward
// table are left untouched; a missing table or side is a soft omission.
func applyRewards(
	event entities.VotingEvent,
	result Result,
	voters []entities.Voter,
	parties []entities.Party,
	cfg Config,
	logger *slog.Logger,
) ([]entities.Voter, []entities.Party) {
	if !cfg.RewardPerVoter && !cfg.RewardPerParty {
		warnRewardOmission(logger, event.ID, "both reward flags are disabled")
		return nil, nil
	}
	bySystem, ok := event.Rewards[SystemMajorityWithReward]
	if !ok {
		warnRewardOmission(logger, event.ID, "missing reward table for system")
		return nil, nil
	}
	spec, ok := bySystem[string(result)]
	if !ok {
		warnRewardOmission(logger, event.ID, fmt.Sprintf("missing rewards for result %s", result))
		return nil, nil
	}

	var changedVoters []entities.Voter
	if cfg.RewardPerVoter {
		if spec.Voters == nil {
			warnRewardOmission(logger, event.ID, fmt.Sprintf("missing voter rewards for result %s", result))
		} else {
			for _, voter := range voters {
				delta, ok := spec.Voters[voter.ID]
				if !ok {
					continue
				}
				voter.Scores = voter.Scores.Add(SystemMajorityWithReward, delta)
				changedVoters = append(changedVoters, voter)
			}
		}
	}

	var changedParties []entities.Party
	if cfg.RewardPerParty {
		if spec.Parties == nil {
			warnRewardOmission(logger, event.ID, fmt.Sprintf("missing party rewards for result %s", result))
		} else {
			for _, party := range parties {
				delta, ok := spec.Parties[party.ID]
				if !ok {
					continue
				}
				party.Scores = party.Scores.Add(SystemMajorityWithReward, delta)
				changedParties = append(changedParties, party)
			}
		}
	}
	return changedVoters, changedParties
}

func warnRewardOmission(logger *slog.Logger, eventID int64, reason string) {
	logger.Warn("score might not be calculated",
		"event", "voting_reward_omission",
		"module", "game-play/game-service",
		"layer", "domain",
		"voting_event_id", eventID,
		"reason", reason,
	)
}
