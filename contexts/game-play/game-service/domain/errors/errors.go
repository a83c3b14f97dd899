package errors

import "errors"

var (
	ErrGameNotFound        = errors.New("game not found")
	ErrRoundNotFound       = errors.New("round not found")
	ErrVotingEventNotFound = errors.New("voting event not found")
	ErrVoterNotFound       = errors.New("voter not found")
	ErrPartyNotFound       = errors.New("party not found")
	ErrVoteNotFound        = errors.New("vote not found")

	ErrGameNotStarted       = errors.New("game has not started")
	ErrGameEnded            = errors.New("game has ended")
	ErrVotingEventNotActive = errors.New("voting event is not the active event")
	ErrRoundNotActive       = errors.New("round is not the active round")
	ErrDuplicateVote        = errors.New("voter already voted on this event")
	ErrDuplicateAffiliation = errors.New("voter already affiliated for this round")
	ErrInvalidInput         = errors.New("game input is invalid")

	ErrUnknownVotingSystem = errors.New("unknown voting system")

	// Progression signals consumed by the advance fallthrough chain.
	// They never surface to callers.
	ErrNoMoreVotingEvents = errors.New("no voting events left in round")
	ErrNoMoreRounds       = errors.New("no rounds left in game")
)
