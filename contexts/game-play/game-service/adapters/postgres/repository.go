package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"parliament/contexts/game-play/game-service/domain/entities"
	domainerrors "parliament/contexts/game-play/game-service/domain/errors"
	"parliament/contexts/game-play/game-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository is the gorm-backed Repository implementation. It works against
// both the postgres driver and the pure-Go sqlite driver used for local
// development, so uniqueness violations are detected through both the pg
// error code and gorm's translated sentinel.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates or updates the game-play schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&gameModel{},
		&roundModel{},
		&partyModel{},
		&voterModel{},
		&affiliationModel{},
		&votingEventModel{},
		&voteModel{},
	)
}

func (r *Repository) GetGame(ctx context.Context, gameID int64) (entities.Game, error) {
	var row gameModel
	err := r.db.WithContext(ctx).
		Where("id = ?", gameID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Game{}, domainerrors.ErrGameNotFound
		}
		return entities.Game{}, r.logError("game_repo_get_game_failed", err, "game_id", gameID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetGameByHash(ctx context.Context, hash string) (entities.Game, error) {
	var row gameModel
	err := r.db.WithContext(ctx).
		Where("hash = ?", strings.ToLower(strings.TrimSpace(hash))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Game{}, domainerrors.ErrGameNotFound
		}
		return entities.Game{}, r.logError("game_repo_get_game_by_hash_failed", err, "hash", hash)
	}
	return row.toEntity(), nil
}

// GetActiveGame returns the oldest game that has not ended, falling back to
// the most recently created game when every game is over.
func (r *Repository) GetActiveGame(ctx context.Context) (entities.Game, error) {
	var row gameModel
	err := r.db.WithContext(ctx).
		Where("status <> ?", string(entities.GameStatusEnded)).
		Order("id ASC").
		First(&row).
		Error
	if err == nil {
		return row.toEntity(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Game{}, r.logError("game_repo_get_active_game_failed", err)
	}

	err = r.db.WithContext(ctx).
		Order("id DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Game{}, domainerrors.ErrGameNotFound
		}
		return entities.Game{}, r.logError("game_repo_get_latest_game_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetRound(ctx context.Context, roundID int64) (entities.Round, error) {
	var row roundModel
	err := r.db.WithContext(ctx).
		Where("id = ?", roundID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Round{}, domainerrors.ErrRoundNotFound
		}
		return entities.Round{}, r.logError("game_repo_get_round_failed", err, "round_id", roundID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetRounds(ctx context.Context, gameID int64) ([]entities.Round, error) {
	var rows []roundModel
	if err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("game_repo_list_rounds_failed", err, "game_id", gameID)
	}
	items := make([]entities.Round, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetVotingEvent(ctx context.Context, votingEventID int64) (entities.VotingEvent, error) {
	var row votingEventModel
	err := r.db.WithContext(ctx).
		Where("id = ?", votingEventID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VotingEvent{}, domainerrors.ErrVotingEventNotFound
		}
		return entities.VotingEvent{}, r.logError("game_repo_get_voting_event_failed", err, "voting_event_id", votingEventID)
	}
	return row.toEntity()
}

func (r *Repository) GetVotingEvents(ctx context.Context, roundID int64) ([]entities.VotingEvent, error) {
	var rows []votingEventModel
	if err := r.db.WithContext(ctx).
		Where("round_id = ?", roundID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("game_repo_list_voting_events_failed", err, "round_id", roundID)
	}
	items := make([]entities.VotingEvent, 0, len(rows))
	for _, row := range rows {
		event, err := row.toEntity()
		if err != nil {
			return nil, r.logError("game_repo_decode_voting_event_failed", err, "voting_event_id", row.ID)
		}
		items = append(items, event)
	}
	return items, nil
}

func (r *Repository) GetVotes(ctx context.Context, votingEventID int64) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("voting_event_id = ?", votingEventID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("game_repo_list_votes_failed", err, "voting_event_id", votingEventID)
	}
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetVote(ctx context.Context, votingEventID int64, voterID int64) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("voting_event_id = ?", votingEventID).
		Where("voter_id = ?", voterID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("game_repo_get_vote_failed", err,
			"voting_event_id", votingEventID,
			"voter_id", voterID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) GetVoter(ctx context.Context, voterID int64) (entities.Voter, error) {
	var row voterModel
	err := r.db.WithContext(ctx).
		Where("id = ?", voterID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Voter{}, domainerrors.ErrVoterNotFound
		}
		return entities.Voter{}, r.logError("game_repo_get_voter_failed", err, "voter_id", voterID)
	}
	return row.toEntity()
}

func (r *Repository) GetVoters(ctx context.Context, gameID int64) ([]entities.Voter, error) {
	var rows []voterModel
	if err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("game_repo_list_voters_failed", err, "game_id", gameID)
	}
	items := make([]entities.Voter, 0, len(rows))
	for _, row := range rows {
		voter, err := row.toEntity()
		if err != nil {
			return nil, r.logError("game_repo_decode_voter_failed", err, "voter_id", row.ID)
		}
		items = append(items, voter)
	}
	return items, nil
}

func (r *Repository) GetParties(ctx context.Context, roundID int64) ([]entities.Party, error) {
	var rows []partyModel
	if err := r.db.WithContext(ctx).
		Where("round_id = ?", roundID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("game_repo_list_parties_failed", err, "round_id", roundID)
	}
	items := make([]entities.Party, 0, len(rows))
	for _, row := range rows {
		party, err := row.toEntity()
		if err != nil {
			return nil, r.logError("game_repo_decode_party_failed", err, "party_id", row.ID)
		}
		items = append(items, party)
	}
	return items, nil
}

func (r *Repository) GetAffiliationsForRound(ctx context.Context, roundID int64) ([]entities.Affiliation, error) {
	var rows []affiliationModel
	if err := r.db.WithContext(ctx).
		Where("round_id = ?", roundID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("game_repo_list_affiliations_failed", err, "round_id", roundID)
	}
	items := make([]entities.Affiliation, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.Affiliation{
			ID:      row.ID,
			VoterID: row.VoterID,
			PartyID: row.PartyID,
			RoundID: row.RoundID,
		})
	}
	return items, nil
}

func (r *Repository) CastVote(ctx context.Context, vote entities.Vote) (entities.Vote, error) {
	row := voteModel{
		VoterID:       vote.VoterID,
		VotingEventID: vote.VotingEventID,
		Value:         string(vote.Value),
		CreatedAt:     vote.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Vote{}, domainerrors.ErrDuplicateVote
		}
		return entities.Vote{}, r.logError("game_repo_cast_vote_failed", err,
			"voting_event_id", vote.VotingEventID,
			"voter_id", vote.VoterID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateVotingEvent(ctx context.Context, votingEventID int64, result string) error {
	update := r.db.WithContext(ctx).
		Model(&votingEventModel{}).
		Where("id = ?", votingEventID).
		Update("result", result)
	if update.Error != nil {
		return r.logError("game_repo_update_voting_event_failed", update.Error, "voting_event_id", votingEventID)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrVotingEventNotFound
	}
	return nil
}

func (r *Repository) UpdateVoters(ctx context.Context, voters []entities.Voter) error {
	for _, voter := range voters {
		scores, err := json.Marshal(voter.Scores)
		if err != nil {
			return r.logError("game_repo_encode_voter_scores_failed", err, "voter_id", voter.ID)
		}
		update := r.db.WithContext(ctx).
			Model(&voterModel{}).
			Where("id = ?", voter.ID).
			Update("extra_info", scores)
		if update.Error != nil {
			return r.logError("game_repo_update_voter_failed", update.Error, "voter_id", voter.ID)
		}
		if update.RowsAffected == 0 {
			return domainerrors.ErrVoterNotFound
		}
	}
	return nil
}

func (r *Repository) UpdateParties(ctx context.Context, parties []entities.Party) error {
	for _, party := range parties {
		scores, err := json.Marshal(party.Scores)
		if err != nil {
			return r.logError("game_repo_encode_party_scores_failed", err, "party_id", party.ID)
		}
		update := r.db.WithContext(ctx).
			Model(&partyModel{}).
			Where("id = ?", party.ID).
			Update("extra_info", scores)
		if update.Error != nil {
			return r.logError("game_repo_update_party_failed", update.Error, "party_id", party.ID)
		}
		if update.RowsAffected == 0 {
			return domainerrors.ErrPartyNotFound
		}
	}
	return nil
}

func (r *Repository) UpdateGameProgress(ctx context.Context, game entities.Game) error {
	update := r.db.WithContext(ctx).
		Model(&gameModel{}).
		Where("id = ?", game.ID).
		Updates(map[string]any{
			"current_round_id":        game.CurrentRoundID,
			"current_voting_event_id": game.CurrentVotingEventID,
			"status":                  string(game.Status),
		})
	if update.Error != nil {
		return r.logError("game_repo_update_game_progress_failed", update.Error, "game_id", game.ID)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrGameNotFound
	}
	return nil
}

func (r *Repository) UpdateGameStatus(ctx context.Context, gameID int64, status entities.GameStatus) error {
	update := r.db.WithContext(ctx).
		Model(&gameModel{}).
		Where("id = ?", gameID).
		Update("status", string(status))
	if update.Error != nil {
		return r.logError("game_repo_update_game_status_failed", update.Error, "game_id", gameID)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrGameNotFound
	}
	return nil
}

func (r *Repository) AddVoter(ctx context.Context, voter entities.Voter) (entities.Voter, error) {
	scores, err := json.Marshal(voter.Scores)
	if err != nil {
		return entities.Voter{}, r.logError("game_repo_encode_voter_scores_failed", err, "game_id", voter.GameID)
	}
	row := voterModel{
		GameID:    voter.GameID,
		Name:      strings.TrimSpace(voter.Name),
		ExtraInfo: scores,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Voter{}, r.logError("game_repo_add_voter_failed", err, "game_id", voter.GameID)
	}
	return row.toEntity()
}

func (r *Repository) AddAffiliation(ctx context.Context, affiliation entities.Affiliation) (entities.Affiliation, error) {
	row := affiliationModel{
		VoterID: affiliation.VoterID,
		PartyID: affiliation.PartyID,
		RoundID: affiliation.RoundID,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Affiliation{}, domainerrors.ErrDuplicateAffiliation
		}
		return entities.Affiliation{}, r.logError("game_repo_add_affiliation_failed", err,
			"round_id", affiliation.RoundID,
			"voter_id", affiliation.VoterID,
		)
	}
	return entities.Affiliation{
		ID:      row.ID,
		VoterID: row.VoterID,
		PartyID: row.PartyID,
		RoundID: row.RoundID,
	}, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "game-play/game-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("game repository operation failed", fields...)
	return err
}

type gameModel struct {
	ID                   int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Hash                 string    `gorm:"column:hash;uniqueIndex;size:16"`
	Name                 string    `gorm:"column:name"`
	NVoters              int       `gorm:"column:n_voters"`
	CurrentRoundID       *int64    `gorm:"column:current_round_id"`
	CurrentVotingEventID *int64    `gorm:"column:current_voting_event_id"`
	Status               string    `gorm:"column:status;size:16"`
	CreatedAt            time.Time `gorm:"column:created_at"`
}

func (gameModel) TableName() string {
	return "games"
}

func (m gameModel) toEntity() entities.Game {
	return entities.Game{
		ID:                   m.ID,
		Hash:                 m.Hash,
		Name:                 m.Name,
		NVoters:              m.NVoters,
		CurrentRoundID:       m.CurrentRoundID,
		CurrentVotingEventID: m.CurrentVotingEventID,
		Status:               entities.GameStatus(m.Status),
		CreatedAt:            m.CreatedAt.UTC(),
	}
}

type roundModel struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	GameID      int64  `gorm:"column:game_id;index"`
	RoundNumber int    `gorm:"column:round_number"`
	Rules       string `gorm:"column:rules"`
	VoterTarget int    `gorm:"column:voter_target"`
}

func (roundModel) TableName() string {
	return "rounds"
}

func (m roundModel) toEntity() entities.Round {
	return entities.Round{
		ID:          m.ID,
		GameID:      m.GameID,
		RoundNumber: m.RoundNumber,
		Rules:       m.Rules,
		VoterTarget: m.VoterTarget,
	}
}

type partyModel struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	RoundID   int64  `gorm:"column:round_id;index"`
	Name      string `gorm:"column:name"`
	ExtraInfo []byte `gorm:"column:extra_info;type:jsonb"`
}

func (partyModel) TableName() string {
	return "parties"
}

func (m partyModel) toEntity() (entities.Party, error) {
	scores, err := decodeScores(m.ExtraInfo)
	if err != nil {
		return entities.Party{}, err
	}
	return entities.Party{
		ID:      m.ID,
		RoundID: m.RoundID,
		Name:    m.Name,
		Scores:  scores,
	}, nil
}

type voterModel struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	GameID    int64  `gorm:"column:game_id;index"`
	Name      string `gorm:"column:name"`
	ExtraInfo []byte `gorm:"column:extra_info;type:jsonb"`
}

func (voterModel) TableName() string {
	return "voters"
}

func (m voterModel) toEntity() (entities.Voter, error) {
	scores, err := decodeScores(m.ExtraInfo)
	if err != nil {
		return entities.Voter{}, err
	}
	return entities.Voter{
		ID:     m.ID,
		GameID: m.GameID,
		Name:   m.Name,
		Scores: scores,
	}, nil
}

type affiliationModel struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement"`
	VoterID int64 `gorm:"column:voter_id;uniqueIndex:uq_affiliations_round_voter"`
	PartyID int64 `gorm:"column:party_id;index"`
	RoundID int64 `gorm:"column:round_id;uniqueIndex:uq_affiliations_round_voter"`
}

func (affiliationModel) TableName() string {
	return "affiliations"
}

type votingEventModel struct {
	ID            int64   `gorm:"column:id;primaryKey;autoIncrement"`
	RoundID       int64   `gorm:"column:round_id;index"`
	Title         string  `gorm:"column:title"`
	Content       string  `gorm:"column:content"`
	VotingSystem  string  `gorm:"column:voting_system;size:32"`
	Configuration []byte  `gorm:"column:configuration;type:jsonb"`
	Result        *string `gorm:"column:result;size:16"`
	ExtraInfo     []byte  `gorm:"column:extra_info;type:jsonb"`
}

func (votingEventModel) TableName() string {
	return "voting_events"
}

func (m votingEventModel) toEntity() (entities.VotingEvent, error) {
	var rewards entities.RewardTable
	if len(m.ExtraInfo) > 0 {
		if err := json.Unmarshal(m.ExtraInfo, &rewards); err != nil {
			return entities.VotingEvent{}, err
		}
	}
	return entities.VotingEvent{
		ID:            m.ID,
		RoundID:       m.RoundID,
		Title:         m.Title,
		Content:       m.Content,
		VotingSystem:  m.VotingSystem,
		Configuration: append([]byte(nil), m.Configuration...),
		Result:        m.Result,
		Rewards:       rewards,
	}, nil
}

type voteModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	VoterID       int64     `gorm:"column:voter_id;uniqueIndex:uq_votes_event_voter"`
	VotingEventID int64     `gorm:"column:voting_event_id;uniqueIndex:uq_votes_event_voter"`
	Value         string    `gorm:"column:value;size:8"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		ID:            m.ID,
		VoterID:       m.VoterID,
		VotingEventID: m.VotingEventID,
		Value:         entities.VoteValue(m.Value),
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

func decodeScores(raw []byte) (entities.ScoreBook, error) {
	if len(raw) == 0 {
		return entities.ScoreBook{}, nil
	}
	var scores entities.ScoreBook
	if err := json.Unmarshal(raw, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
