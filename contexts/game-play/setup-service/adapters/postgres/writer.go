package postgresadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"parliament/contexts/game-play/game-service/domain/entities"
	"parliament/contexts/game-play/setup-service/ports"

	"gorm.io/gorm"
)

// Writer inserts configured game graphs into the game-play tables. The
// schema is owned and migrated by the game-service adapter; this writer only
// appends rows during configuration upload.
type Writer struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewWriter(db *gorm.DB, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		db:     db,
		logger: logger,
	}
}

func (w *Writer) CreateGame(ctx context.Context, game entities.Game) (entities.Game, error) {
	row := gameRow{
		Hash:      strings.ToLower(strings.TrimSpace(game.Hash)),
		Name:      strings.TrimSpace(game.Name),
		NVoters:   game.NVoters,
		Status:    string(game.Status),
		CreatedAt: game.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := w.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Game{}, w.logError("setup_repo_create_game_failed", err, "game_hash", row.Hash)
	}
	game.ID = row.ID
	game.Hash = row.Hash
	game.CreatedAt = row.CreatedAt
	return game, nil
}

func (w *Writer) CreateRound(ctx context.Context, round entities.Round) (entities.Round, error) {
	row := roundRow{
		GameID:      round.GameID,
		RoundNumber: round.RoundNumber,
		Rules:       round.Rules,
		VoterTarget: round.VoterTarget,
	}
	if err := w.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Round{}, w.logError("setup_repo_create_round_failed", err, "game_id", round.GameID)
	}
	round.ID = row.ID
	return round, nil
}

func (w *Writer) CreateParty(ctx context.Context, party entities.Party) (entities.Party, error) {
	scores, err := json.Marshal(party.Scores)
	if err != nil {
		return entities.Party{}, w.logError("setup_repo_encode_party_failed", err, "round_id", party.RoundID)
	}
	row := partyRow{
		RoundID:   party.RoundID,
		Name:      party.Name,
		ExtraInfo: scores,
	}
	if err := w.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Party{}, w.logError("setup_repo_create_party_failed", err, "round_id", party.RoundID)
	}
	party.ID = row.ID
	return party, nil
}

func (w *Writer) CreateVoter(ctx context.Context, voter entities.Voter) (entities.Voter, error) {
	scores, err := json.Marshal(voter.Scores)
	if err != nil {
		return entities.Voter{}, w.logError("setup_repo_encode_voter_failed", err, "game_id", voter.GameID)
	}
	row := voterRow{
		GameID:    voter.GameID,
		Name:      voter.Name,
		ExtraInfo: scores,
	}
	if err := w.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Voter{}, w.logError("setup_repo_create_voter_failed", err, "game_id", voter.GameID)
	}
	voter.ID = row.ID
	return voter, nil
}

func (w *Writer) CreateAffiliation(ctx context.Context, affiliation entities.Affiliation) (entities.Affiliation, error) {
	row := affiliationRow{
		VoterID: affiliation.VoterID,
		PartyID: affiliation.PartyID,
		RoundID: affiliation.RoundID,
	}
	if err := w.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Affiliation{}, w.logError("setup_repo_create_affiliation_failed", err,
			"round_id", affiliation.RoundID,
			"voter_id", affiliation.VoterID,
		)
	}
	affiliation.ID = row.ID
	return affiliation, nil
}

func (w *Writer) CreateVotingEvent(ctx context.Context, event entities.VotingEvent) (entities.VotingEvent, error) {
	rewards, err := json.Marshal(event.Rewards)
	if err != nil {
		return entities.VotingEvent{}, w.logError("setup_repo_encode_event_failed", err, "round_id", event.RoundID)
	}
	row := votingEventRow{
		RoundID:       event.RoundID,
		Title:         event.Title,
		Content:       event.Content,
		VotingSystem:  event.VotingSystem,
		Configuration: event.Configuration,
		ExtraInfo:     rewards,
	}
	if err := w.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.VotingEvent{}, w.logError("setup_repo_create_event_failed", err, "round_id", event.RoundID)
	}
	event.ID = row.ID
	return event, nil
}

func (w *Writer) CreateVote(ctx context.Context, vote entities.Vote) (entities.Vote, error) {
	row := voteRow{
		VoterID:       vote.VoterID,
		VotingEventID: vote.VotingEventID,
		Value:         string(vote.Value),
		CreatedAt:     vote.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := w.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Vote{}, w.logError("setup_repo_create_vote_failed", err,
			"voting_event_id", vote.VotingEventID,
			"voter_id", vote.VoterID,
		)
	}
	vote.ID = row.ID
	return vote, nil
}

func (w *Writer) SetGameProgress(ctx context.Context, game entities.Game) error {
	update := w.db.WithContext(ctx).
		Model(&gameRow{}).
		Where("id = ?", game.ID).
		Updates(map[string]any{
			"current_round_id":        game.CurrentRoundID,
			"current_voting_event_id": game.CurrentVotingEventID,
			"status":                  string(game.Status),
		})
	if update.Error != nil {
		return w.logError("setup_repo_set_game_progress_failed", update.Error, "game_id", game.ID)
	}
	return nil
}

func (w *Writer) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "game-play/setup-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	w.logger.Error("setup repository operation failed", fields...)
	return err
}

type gameRow struct {
	ID                   int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Hash                 string    `gorm:"column:hash"`
	Name                 string    `gorm:"column:name"`
	NVoters              int       `gorm:"column:n_voters"`
	CurrentRoundID       *int64    `gorm:"column:current_round_id"`
	CurrentVotingEventID *int64    `gorm:"column:current_voting_event_id"`
	Status               string    `gorm:"column:status"`
	CreatedAt            time.Time `gorm:"column:created_at"`
}

func (gameRow) TableName() string { return "games" }

type roundRow struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	GameID      int64  `gorm:"column:game_id"`
	RoundNumber int    `gorm:"column:round_number"`
	Rules       string `gorm:"column:rules"`
	VoterTarget int    `gorm:"column:voter_target"`
}

func (roundRow) TableName() string { return "rounds" }

type partyRow struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	RoundID   int64  `gorm:"column:round_id"`
	Name      string `gorm:"column:name"`
	ExtraInfo []byte `gorm:"column:extra_info"`
}

func (partyRow) TableName() string { return "parties" }

type voterRow struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	GameID    int64  `gorm:"column:game_id"`
	Name      string `gorm:"column:name"`
	ExtraInfo []byte `gorm:"column:extra_info"`
}

func (voterRow) TableName() string { return "voters" }

type affiliationRow struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement"`
	VoterID int64 `gorm:"column:voter_id"`
	PartyID int64 `gorm:"column:party_id"`
	RoundID int64 `gorm:"column:round_id"`
}

func (affiliationRow) TableName() string { return "affiliations" }

type votingEventRow struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement"`
	RoundID       int64  `gorm:"column:round_id"`
	Title         string `gorm:"column:title"`
	Content       string `gorm:"column:content"`
	VotingSystem  string `gorm:"column:voting_system"`
	Configuration []byte `gorm:"column:configuration"`
	ExtraInfo     []byte `gorm:"column:extra_info"`
}

func (votingEventRow) TableName() string { return "voting_events" }

type voteRow struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	VoterID       int64     `gorm:"column:voter_id"`
	VotingEventID int64     `gorm:"column:voting_event_id"`
	Value         string    `gorm:"column:value"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (voteRow) TableName() string { return "votes" }

var _ ports.GameWriter = (*Writer)(nil)
