package errors

import "errors"

var (
	ErrInvalidConfiguration = errors.New("game configuration is invalid")
	ErrNoSimulatedVoters    = errors.New("configuration requires at least one simulated voter")
	ErrPointsEntryNotFound  = errors.New("points table entry not found")
)
