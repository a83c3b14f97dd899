package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterVoterRequest struct {
	Name string `json:"name"`
}

type RegisterAffiliationRequest struct {
	VoterID int64 `json:"voter_id"`
	PartyID int64 `json:"party_id"`
	RoundID int64 `json:"round_id"`
}

type CastVoteRequest struct {
	VoterID       int64  `json:"voter_id"`
	VotingEventID int64  `json:"voting_event_id"`
	Value         string `json:"value"`
}

type ScoreEntry struct {
	CurrentScore int `json:"current_score"`
}

type VoterResponse struct {
	ID     int64                 `json:"id"`
	GameID int64                 `json:"game_id"`
	Name   string                `json:"name"`
	Scores map[string]ScoreEntry `json:"extra_info,omitempty"`
}

type PartyResponse struct {
	ID      int64                 `json:"id"`
	RoundID int64                 `json:"round_id"`
	Name    string                `json:"name"`
	Scores  map[string]ScoreEntry `json:"extra_info,omitempty"`
}

type AffiliationResponse struct {
	ID      int64 `json:"id"`
	VoterID int64 `json:"voter_id"`
	PartyID int64 `json:"party_id"`
	RoundID int64 `json:"round_id"`
}

type VoteResponse struct {
	ID            int64     `json:"id"`
	VoterID       int64     `json:"voter_id"`
	VotingEventID int64     `json:"voting_event_id"`
	Value         string    `json:"value"`
	CreatedAt     time.Time `json:"created_at"`
}

type VotingEventResponse struct {
	ID           int64   `json:"id"`
	RoundID      int64   `json:"round_id"`
	Title        string  `json:"title"`
	Content      string  `json:"content,omitempty"`
	VotingSystem string  `json:"voting_system"`
	Result       *string `json:"result"`
}

type RoundResponse struct {
	ID          int64  `json:"id"`
	GameID      int64  `json:"game_id"`
	RoundNumber int    `json:"round_number"`
	Rules       string `json:"rules,omitempty"`
	VoterTarget int    `json:"voter_target"`
}

// GameStateResponse is the full observable state of a game: the game row,
// the round and voting event currently in play, and the round's parties and
// the game's voters with their running scores.
type GameStateResponse struct {
	ID                   int64                `json:"id"`
	Hash                 string               `json:"hash"`
	Name                 string               `json:"name"`
	NVoters              int                  `json:"n_voters"`
	Status               string               `json:"status"`
	CurrentRoundID       *int64               `json:"current_round_id"`
	CurrentVotingEventID *int64               `json:"current_voting_event_id"`
	CurrentRound         *RoundResponse       `json:"current_round,omitempty"`
	CurrentVotingEvent   *VotingEventResponse `json:"current_voting_event,omitempty"`
	Parties              []PartyResponse      `json:"parties"`
	Voters               []VoterResponse      `json:"voters"`
}
