package application

import (
	"context"
	"errors"

	"parliament/contexts/game-play/game-service/domain/entities"
	domainerrors "parliament/contexts/game-play/game-service/domain/errors"
	"parliament/contexts/game-play/game-service/domain/voting"
)

// Resync re-evaluates the game's progression state and advances it as far
// as the recorded affiliations and ballots allow. It is idempotent and is
// the reaction path for externally ingested state such as a freshly
// uploaded configuration with pre-seeded simulated votes.
func (s *Service) Resync(ctx context.Context, gameID int64) (entities.Game, error) {
	lock := s.locks.forGame(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := s.Repo.GetGame(ctx, gameID)
	if err != nil {
		return entities.Game{}, err
	}
	if err := s.progress(ctx, &game); err != nil {
		return entities.Game{}, err
	}
	s.publish(ctx, game)
	return game, nil
}

// progress drives the state machine until it needs external input (more
// affiliations or more ballots) or the game ends. Callers must hold the
// game's lock. Each fallthrough level is best effort: exhaustion at one
// level moves to the next, never aborts the request.
func (s *Service) progress(ctx context.Context, game *entities.Game) error {
	for {
		if game.Status == entities.GameStatusEnded {
			return nil
		}

		// Enter the first round when nothing is current yet.
		if game.CurrentRoundID == nil {
			if err := s.startNextRound(ctx, game); err != nil {
				if errors.Is(err, domainerrors.ErrNoMoreRounds) {
					return s.endGame(ctx, game)
				}
				return err
			}
		}

		// A waiting round only begins once its affiliations are complete.
		if game.Status == entities.GameStatusWaiting {
			ready, err := s.roundReady(ctx, *game)
			if err != nil {
				return err
			}
			if !ready {
				return nil
			}
			game.Status = entities.GameStatusStarted
			if err := s.Repo.UpdateGameProgress(ctx, *game); err != nil {
				return err
			}
			s.logger().Info("round started",
				"event", "game_round_started",
				"module", "game-play/game-service",
				"layer", "application",
				"game_id", game.ID,
				"round_id", *game.CurrentRoundID,
			)
		}
		if game.Status != entities.GameStatusStarted {
			return nil
		}

		if game.CurrentVotingEventID == nil {
			if err := s.startNextVotingEvent(ctx, game); err != nil {
				if errors.Is(err, domainerrors.ErrNoMoreVotingEvents) {
					if err := s.startNextRound(ctx, game); err != nil {
						if errors.Is(err, domainerrors.ErrNoMoreRounds) {
							return s.endGame(ctx, game)
						}
						return err
					}
					continue
				}
				return err
			}
		}

		// Conclude the current event once every expected ballot is in. A
		// round with no affiliated voters expects no ballots and its events
		// conclude immediately with a zero tally.
		event, err := s.Repo.GetVotingEvent(ctx, *game.CurrentVotingEventID)
		if err != nil {
			return err
		}
		if !event.Concluded() {
			votes, err := s.Repo.GetVotes(ctx, event.ID)
			if err != nil {
				return err
			}
			expected, err := s.expectedVoterCount(ctx, *game)
			if err != nil {
				return err
			}
			if expected > 0 && len(votes) < expected {
				return nil
			}
			if err := s.concludeVotingEvent(ctx, game, event, votes); err != nil {
				return err
			}
		}

		if err := s.startNextVotingEvent(ctx, game); err != nil {
			if errors.Is(err, domainerrors.ErrNoMoreVotingEvents) {
				if err := s.startNextRound(ctx, game); err != nil {
					if errors.Is(err, domainerrors.ErrNoMoreRounds) {
						return s.endGame(ctx, game)
					}
					return err
				}
				continue
			}
			return err
		}
	}
}

// startNextVotingEvent moves the current-event pointer to the first event
// of the current round, or to the event with the next-higher id. Signals
// ErrNoMoreVotingEvents when the round is exhausted.
func (s *Service) startNextVotingEvent(ctx context.Context, game *entities.Game) error {
	if game.CurrentRoundID == nil {
		return domainerrors.ErrNoMoreVotingEvents
	}
	events, err := s.Repo.GetVotingEvents(ctx, *game.CurrentRoundID)
	if err != nil {
		return err
	}
	next, ok := nextByID(events, game.CurrentVotingEventID, func(e entities.VotingEvent) int64 { return e.ID })
	if !ok {
		return domainerrors.ErrNoMoreVotingEvents
	}
	eventID := next.ID
	game.CurrentVotingEventID = &eventID
	return s.Repo.UpdateGameProgress(ctx, *game)
}

// startNextRound moves to the round with the next-higher id (or the first
// round), clears the current event, and drops back to WAITING so the new
// round's affiliations can be registered. Signals ErrNoMoreRounds when the
// game is exhausted.
func (s *Service) startNextRound(ctx context.Context, game *entities.Game) error {
	rounds, err := s.Repo.GetRounds(ctx, game.ID)
	if err != nil {
		return err
	}
	next, ok := nextByID(rounds, game.CurrentRoundID, func(r entities.Round) int64 { return r.ID })
	if !ok {
		return domainerrors.ErrNoMoreRounds
	}
	roundID := next.ID
	game.CurrentRoundID = &roundID
	game.CurrentVotingEventID = nil
	game.Status = entities.GameStatusWaiting
	return s.Repo.UpdateGameProgress(ctx, *game)
}

func (s *Service) endGame(ctx context.Context, game *entities.Game) error {
	game.Status = entities.GameStatusEnded
	if err := s.Repo.UpdateGameStatus(ctx, game.ID, entities.GameStatusEnded); err != nil {
		return err
	}
	s.logger().Info("game ended",
		"event", "game_ended",
		"module", "game-play/game-service",
		"layer", "application",
		"game_id", game.ID,
	)
	return nil
}

// roundReady reports whether the current round has gathered its required
// number of affiliated voters. A zero target is immediately ready.
func (s *Service) roundReady(ctx context.Context, game entities.Game) (bool, error) {
	if game.CurrentRoundID == nil {
		return false, nil
	}
	round, err := s.Repo.GetRound(ctx, *game.CurrentRoundID)
	if err != nil {
		return false, err
	}
	target := round.VoterTarget
	if target == 0 {
		target = game.NVoters
	}
	if target == 0 {
		return true, nil
	}
	affiliated, err := s.expectedVoterCount(ctx, game)
	if err != nil {
		return false, err
	}
	return affiliated >= target, nil
}

// expectedVoterCount counts the distinct voters affiliated in the current
// round. That count, not the static game target, is how many ballots each
// of the round's events expects.
func (s *Service) expectedVoterCount(ctx context.Context, game entities.Game) (int, error) {
	if game.CurrentRoundID == nil {
		return 0, nil
	}
	affiliations, err := s.Repo.GetAffiliationsForRound(ctx, *game.CurrentRoundID)
	if err != nil {
		return 0, err
	}
	distinct := make(map[int64]struct{}, len(affiliations))
	for _, affiliation := range affiliations {
		distinct[affiliation.VoterID] = struct{}{}
	}
	return len(distinct), nil
}

// concludeVotingEvent resolves the event, records the result, and applies
// reward deltas. Re-concluding an already-resolved event is a no-op, so a
// double trigger cannot double-apply rewards.
func (s *Service) concludeVotingEvent(
	ctx context.Context,
	game *entities.Game,
	event entities.VotingEvent,
	votes []entities.Vote,
) error {
	logger := s.logger()
	if event.Concluded() {
		return nil
	}

	cfg, err := voting.ParseConfig(event.Configuration)
	if err != nil {
		logger.Warn("malformed voting configuration; using defaults",
			"event", "game_voting_config_malformed",
			"module", "game-play/game-service",
			"layer", "application",
			"voting_event_id", event.ID,
			"error", err.Error(),
		)
	}
	voters, err := s.Repo.GetVoters(ctx, game.ID)
	if err != nil {
		return err
	}
	parties, err := s.Repo.GetParties(ctx, event.RoundID)
	if err != nil {
		return err
	}

	outcome, err := voting.Resolve(event, votes, voters, parties, cfg, logger)
	if err != nil {
		// Unknown system is a configuration error: the event stays
		// unconcluded and the caller is informed.
		logger.Error("voting event conclusion failed",
			"event", "game_event_conclusion_failed",
			"module", "game-play/game-service",
			"layer", "application",
			"voting_event_id", event.ID,
			"voting_system", event.VotingSystem,
			"error", err.Error(),
		)
		return err
	}

	if err := s.Repo.UpdateVotingEvent(ctx, event.ID, string(outcome.Result)); err != nil {
		return err
	}
	if len(outcome.Voters) > 0 {
		if err := s.Repo.UpdateVoters(ctx, outcome.Voters); err != nil {
			return err
		}
	}
	if len(outcome.Parties) > 0 {
		if err := s.Repo.UpdateParties(ctx, outcome.Parties); err != nil {
			return err
		}
	}
	logger.Info("voting event concluded",
		"event", "game_event_concluded",
		"module", "game-play/game-service",
		"layer", "application",
		"game_id", game.ID,
		"voting_event_id", event.ID,
		"result", string(outcome.Result),
		"ballots", len(votes),
		"rewarded_voters", len(outcome.Voters),
		"rewarded_parties", len(outcome.Parties),
	)
	return nil
}

// nextByID returns the element with the smallest id strictly greater than
// current, or the first element when current is nil. Items must be sorted
// by ascending id.
func nextByID[T any](items []T, current *int64, id func(T) int64) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	if current == nil {
		return items[0], true
	}
	for _, item := range items {
		if id(item) > *current {
			return item, true
		}
	}
	return zero, false
}
