// Package gameconfig parses the semicolon-separated configuration tables a
// game is built from: the voting configuration (rounds, parties, questions)
// and the optional reward points table.
package gameconfig

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	domainerrors "parliament/contexts/game-play/setup-service/domain/errors"

	"github.com/gocarina/gocsv"
)

// RoundConfig is one round of the uploaded configuration: a rule name, a
// party roster, optional party-size fractions, the round's questions in
// order, and the required voter count.
type RoundConfig struct {
	Rules       string
	Parties     []string
	Fractions   []float64
	Questions   []string
	VoterTarget int
}

// VotingConfig is the parsed game configuration. NVoters is the maximum
// per-round voter target.
type VotingConfig struct {
	NVoters int
	Rounds  []RoundConfig
}

type votingConfigRow struct {
	Rules     string `csv:"Rules"`
	Parties   string `csv:"Parties"`
	Fractions string `csv:"Fractions"`
	Questions string `csv:"Questions"`
	Voters    string `csv:"Voters"`
}

// ReadVotingConfig decodes the game CSV. Rows sharing the same
// (Rules, Parties, Fractions) triple belong to one round; each row
// contributes one question. The Voters column must hold integers; a round's
// target is the first value seen for its group.
func ReadVotingConfig(r io.Reader) (VotingConfig, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = ';'
	csvReader.TrimLeadingSpace = true

	var rows []*votingConfigRow
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		return VotingConfig{}, fmt.Errorf("%w: %v", domainerrors.ErrInvalidConfiguration, err)
	}
	if len(rows) == 0 {
		return VotingConfig{}, fmt.Errorf("%w: configuration has no rows", domainerrors.ErrInvalidConfiguration)
	}

	config := VotingConfig{}
	roundIndex := make(map[string]int)
	for _, row := range rows {
		voters, err := strconv.Atoi(strings.TrimSpace(row.Voters))
		if err != nil {
			return VotingConfig{}, fmt.Errorf(
				"%w: column 'Voters' must contain integer values", domainerrors.ErrInvalidConfiguration)
		}
		if voters > config.NVoters {
			config.NVoters = voters
		}

		key := row.Rules + "||" + row.Parties + "||" + row.Fractions
		idx, ok := roundIndex[key]
		if !ok {
			round, err := newRoundConfig(row, voters)
			if err != nil {
				return VotingConfig{}, err
			}
			idx = len(config.Rounds)
			roundIndex[key] = idx
			config.Rounds = append(config.Rounds, round)
		}
		config.Rounds[idx].Questions = append(config.Rounds[idx].Questions, strings.TrimSpace(row.Questions))
	}
	return config, nil
}

func newRoundConfig(row *votingConfigRow, voters int) (RoundConfig, error) {
	parties := splitList(row.Parties)
	if len(parties) == 0 {
		return RoundConfig{}, fmt.Errorf("%w: round has no parties", domainerrors.ErrInvalidConfiguration)
	}
	fractions, err := parseFractions(row.Fractions)
	if err != nil {
		return RoundConfig{}, err
	}
	if len(fractions) > 0 && len(fractions) != len(parties) {
		return RoundConfig{}, fmt.Errorf(
			"%w: %d fractions for %d parties", domainerrors.ErrInvalidConfiguration, len(fractions), len(parties))
	}
	return RoundConfig{
		Rules:       strings.TrimSpace(row.Rules),
		Parties:     parties,
		Fractions:   fractions,
		VoterTarget: voters,
	}, nil
}

// parseFractions reads the comma-separated party-size fractions. The last
// party's share is implied: the remainder to 1.0 is appended.
func parseFractions(raw string) ([]float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := splitList(raw)
	fractions := make([]float64, 0, len(parts)+1)
	sum := 0.0
	for _, part := range parts {
		fraction, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: fraction %q is not a number", domainerrors.ErrInvalidConfiguration, part)
		}
		fractions = append(fractions, fraction)
		sum += fraction
	}
	remainder := math.Round((1.0-sum)*1e10) / 1e10
	fractions = append(fractions, remainder)
	return fractions, nil
}

func splitList(raw string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
