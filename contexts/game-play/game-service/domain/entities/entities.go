package entities

import "time"

// GameStatus is the lifecycle state of a game. ENDED is terminal.
type GameStatus string

const (
	GameStatusWaiting GameStatus = "WAITING"
	GameStatusStarted GameStatus = "STARTED"
	GameStatusPaused  GameStatus = "PAUSED"
	GameStatusEnded   GameStatus = "ENDED"
)

// VoteValue is the ballot choice on a single voting event.
type VoteValue string

const (
	VoteValueYes     VoteValue = "YES"
	VoteValueNo      VoteValue = "NO"
	VoteValueAbstain VoteValue = "ABSTAIN"
)

// Game is one complete play-through of the voting exercise. The current
// round/event pointers are nil until progression sets them; they always
// reference rounds and events belonging to this game.
type Game struct {
	ID                   int64
	Hash                 string
	Name                 string
	NVoters              int
	CurrentRoundID       *int64
	CurrentVotingEventID *int64
	Status               GameStatus
	CreatedAt            time.Time
}

// Round is a phase of a game with its own party roster and ordered voting
// events. Rounds are immutable once created; event advancement order is
// ascending ID.
type Round struct {
	ID          int64
	GameID      int64
	RoundNumber int
	Rules       string
	// VoterTarget is the required affiliated-voter count before this
	// round's voting may begin. Zero falls back to Game.NVoters.
	VoterTarget int
}

// Party is a round-scoped faction voters affiliate with. Scores accumulate
// reward deltas across the round's voting events.
type Party struct {
	ID      int64
	RoundID int64
	Name    string
	Scores  ScoreBook
}

// Voter is a player in a game. Voters persist across rounds; their Scores
// accumulate reward deltas for the whole game.
type Voter struct {
	ID     int64
	GameID int64
	Name   string
	Scores ScoreBook
}

// Affiliation ties a voter to a party for one specific round. A voter has
// at most one affiliation per round.
type Affiliation struct {
	ID      int64
	VoterID int64
	PartyID int64
	RoundID int64
}

// VotingEvent is a single question put to a vote within a round. Result is
// nil until the event concludes and is set at most once.
type VotingEvent struct {
	ID            int64
	RoundID       int64
	Title         string
	Content       string
	VotingSystem  string
	Configuration []byte
	Result        *string
	Rewards       RewardTable
}

// Concluded reports whether the event's result has been recorded.
func (e VotingEvent) Concluded() bool {
	return e.Result != nil
}

// Vote is a single immutable ballot, one per (voter, voting event).
type Vote struct {
	ID            int64
	VoterID       int64
	VotingEventID int64
	Value         VoteValue
	CreatedAt     time.Time
}

// ScoreBook holds accumulated reward scores keyed by voting system name.
type ScoreBook map[string]Score

// Score is the running reward total under one voting system.
type Score struct {
	CurrentScore int `json:"current_score"`
}

// Add accumulates a reward delta for the given system, initializing the
// entry when absent. A nil receiver is replaced by a fresh book.
func (b ScoreBook) Add(system string, delta int) ScoreBook {
	if b == nil {
		b = make(ScoreBook, 1)
	}
	entry := b[system]
	entry.CurrentScore += delta
	b[system] = entry
	return b
}

// Clone returns an independent copy of the book. Nil stays nil.
func (b ScoreBook) Clone() ScoreBook {
	if b == nil {
		return nil
	}
	clone := make(ScoreBook, len(b))
	for system, score := range b {
		clone[system] = score
	}
	return clone
}

// RewardTable is the precomputed reward mapping attached to a voting event,
// keyed by voting system name, then by outcome ("ACCEPTED"/"REJECTED").
type RewardTable map[string]map[string]RewardSpec

// Clone returns an independent copy of the table, including the per-entity
// delta maps. Nil stays nil.
func (t RewardTable) Clone() RewardTable {
	if t == nil {
		return nil
	}
	clone := make(RewardTable, len(t))
	for system, byOutcome := range t {
		outcomes := make(map[string]RewardSpec, len(byOutcome))
		for outcome, spec := range byOutcome {
			outcomes[outcome] = spec.clone()
		}
		clone[system] = outcomes
	}
	return clone
}

// RewardSpec lists the per-entity reward deltas for one outcome.
type RewardSpec struct {
	Voters  map[int64]int `json:"voters"`
	Parties map[int64]int `json:"parties"`
}

func (s RewardSpec) clone() RewardSpec {
	return RewardSpec{
		Voters:  cloneDeltas(s.Voters),
		Parties: cloneDeltas(s.Parties),
	}
}

func cloneDeltas(deltas map[int64]int) map[int64]int {
	if deltas == nil {
		return nil
	}
	clone := make(map[int64]int, len(deltas))
	for id, delta := range deltas {
		clone[id] = delta
	}
	return clone
}
