package gameconfig

import (
	"errors"
	"math"
	"strings"
	"testing"

	domainerrors "parliament/contexts/game-play/setup-service/domain/errors"
)

const sampleConfig = `Rules;Parties;Fractions;Questions;Voters
MAJORITY;reds,blues;;Should we build the bridge?;4
MAJORITY;reds,blues;;Should we raise the toll?;4
MAJORITY_WITH_REWARD;greens,golds,silvers;0.5,0.25;Should we plant the forest?;6
`

func TestReadVotingConfigGroupsRowsIntoRounds(t *testing.T) {
	config, err := ReadVotingConfig(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if len(config.Rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(config.Rounds))
	}
	if config.NVoters != 6 {
		t.Fatalf("expected n_voters to be the max target 6, got %d", config.NVoters)
	}

	first := config.Rounds[0]
	if first.Rules != "MAJORITY" {
		t.Fatalf("unexpected rules %q", first.Rules)
	}
	if len(first.Parties) != 2 || first.Parties[0] != "reds" || first.Parties[1] != "blues" {
		t.Fatalf("unexpected parties %v", first.Parties)
	}
	if len(first.Questions) != 2 {
		t.Fatalf("expected both rows' questions in round one, got %v", first.Questions)
	}
	if first.VoterTarget != 4 {
		t.Fatalf("expected voter target 4, got %d", first.VoterTarget)
	}

	second := config.Rounds[1]
	if second.Rules != "MAJORITY_WITH_REWARD" {
		t.Fatalf("unexpected rules %q", second.Rules)
	}
	if len(second.Questions) != 1 {
		t.Fatalf("expected one question in round two, got %v", second.Questions)
	}
	if second.VoterTarget != 6 {
		t.Fatalf("expected voter target 6, got %d", second.VoterTarget)
	}
}

func TestReadVotingConfigAppendsImpliedFraction(t *testing.T) {
	config, err := ReadVotingConfig(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	fractions := config.Rounds[1].Fractions
	if len(fractions) != 3 {
		t.Fatalf("expected implied last fraction, got %v", fractions)
	}
	if math.Abs(fractions[2]-0.25) > 1e-9 {
		t.Fatalf("expected remainder 0.25, got %v", fractions[2])
	}
}

func TestReadVotingConfigRejectsNonIntegerVoters(t *testing.T) {
	raw := "Rules;Parties;Fractions;Questions;Voters\nMAJORITY;reds;;q;four\n"
	if _, err := ReadVotingConfig(strings.NewReader(raw)); !errors.Is(err, domainerrors.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestReadVotingConfigRejectsEmptyInput(t *testing.T) {
	raw := "Rules;Parties;Fractions;Questions;Voters\n"
	if _, err := ReadVotingConfig(strings.NewReader(raw)); !errors.Is(err, domainerrors.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestReadPointsTableLookup(t *testing.T) {
	raw := "Round;Question;User;User Points;Party Points\n" +
		"0;Should we build the bridge?;1;3;10\n" +
		"0;Should we build the bridge?;2;-2;10\n"
	table, err := ReadPointsTable(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("read points: %v", err)
	}

	entry, err := table.GetPoints(0, "Should we build the bridge?", 2)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if entry.UserPoints != -2 || entry.PartyPoints != 10 {
		t.Fatalf("unexpected entry %+v", entry)
	}

	if _, err := table.GetPoints(1, "Should we build the bridge?", 1); !errors.Is(err, domainerrors.ErrPointsEntryNotFound) {
		t.Fatalf("expected ErrPointsEntryNotFound, got %v", err)
	}
}
