package gameconfig

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	domainerrors "parliament/contexts/game-play/setup-service/domain/errors"

	"github.com/gocarina/gocsv"
)

// PointsEntry is one reward assignment from the points table: the user and
// party deltas for one (round, question, user) triple.
type PointsEntry struct {
	Round       int
	Question    string
	User        int64
	UserPoints  int
	PartyPoints int
}

// PointsTable is the parsed reward points CSV, indexed for lookup during
// reward-table construction.
type PointsTable struct {
	entries map[string]PointsEntry
}

type pointsRow struct {
	Round       string `csv:"Round"`
	Question    string `csv:"Question"`
	User        string `csv:"User"`
	UserPoints  string `csv:"User Points"`
	PartyPoints string `csv:"Party Points"`
}

// ReadPointsTable decodes the semicolon-separated points CSV
// (Round;Question;User;User Points;Party Points).
func ReadPointsTable(r io.Reader) (PointsTable, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = ';'
	csvReader.TrimLeadingSpace = true

	var rows []*pointsRow
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		return PointsTable{}, fmt.Errorf("%w: %v", domainerrors.ErrInvalidConfiguration, err)
	}

	table := PointsTable{entries: make(map[string]PointsEntry, len(rows))}
	for _, row := range rows {
		round, err := strconv.Atoi(strings.TrimSpace(row.Round))
		if err != nil {
			return PointsTable{}, fmt.Errorf("%w: column 'Round' must contain integer values", domainerrors.ErrInvalidConfiguration)
		}
		user, err := strconv.ParseInt(strings.TrimSpace(row.User), 10, 64)
		if err != nil {
			return PointsTable{}, fmt.Errorf("%w: column 'User' must contain integer values", domainerrors.ErrInvalidConfiguration)
		}
		userPoints, err := strconv.Atoi(strings.TrimSpace(row.UserPoints))
		if err != nil {
			return PointsTable{}, fmt.Errorf("%w: column 'User Points' must contain integer values", domainerrors.ErrInvalidConfiguration)
		}
		partyPoints, err := strconv.Atoi(strings.TrimSpace(row.PartyPoints))
		if err != nil {
			return PointsTable{}, fmt.Errorf("%w: column 'Party Points' must contain integer values", domainerrors.ErrInvalidConfiguration)
		}
		entry := PointsEntry{
			Round:       round,
			Question:    strings.TrimSpace(row.Question),
			User:        user,
			UserPoints:  userPoints,
			PartyPoints: partyPoints,
		}
		table.entries[pointsKey(entry.Round, entry.Question, entry.User)] = entry
	}
	return table, nil
}

// GetPoints looks up the reward deltas for one user on one question.
func (t PointsTable) GetPoints(round int, question string, user int64) (PointsEntry, error) {
	entry, ok := t.entries[pointsKey(round, strings.TrimSpace(question), user)]
	if !ok {
		return PointsEntry{}, fmt.Errorf(
			"%w: round %d question %q user %d", domainerrors.ErrPointsEntryNotFound, round, question, user)
	}
	return entry, nil
}

func pointsKey(round int, question string, user int64) string {
	return fmt.Sprintf("%d|%s|%d", round, question, user)
}
