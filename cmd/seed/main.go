package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	gamepostgres "parliament/contexts/game-play/game-service/adapters/postgres"
	gameapp "parliament/contexts/game-play/game-service/application"
	setuppostgres "parliament/contexts/game-play/setup-service/adapters/postgres"
	setupapp "parliament/contexts/game-play/setup-service/application"
	"parliament/contexts/game-play/setup-service/domain/gameconfig"
	"parliament/internal/platform/config"
	"parliament/internal/platform/db"

	"github.com/joho/godotenv"
)

// Seeds the configured database with a demo game: two plain majority
// questions followed by a rewarded round. With zero real voters the game
// plays itself out from the pre-seeded simulated ballots.
func main() {
	_ = godotenv.Load()

	realVoters := flag.Int("real-voters", 2, "seats reserved for people joining by game hash")
	name := flag.String("name", "demo session", "game name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "seed")

	database, err := db.Connect(cfg.DBDriver, cfg.PostgresDSN, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer func() { _ = database.Close() }()

	if err := gamepostgres.Migrate(database.DB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	setup := setupapp.NewService(setuppostgres.NewWriter(database.DB, logger), nil, logger)
	ctx := context.Background()

	result, err := setup.UploadConfiguration(ctx, setupapp.UploadConfigurationCommand{
		Config:     demoConfig(),
		Name:       *name,
		RealVoters: *realVoters,
	})
	if err != nil {
		log.Fatalf("seed game: %v", err)
	}
	log.Printf("seeded game %d (join code %s) with %d simulated voters",
		result.Game.ID, result.Game.Hash, len(result.SimulatedVoters))

	if *realVoters <= 0 {
		games := gameapp.NewService(gamepostgres.NewRepository(database.DB, logger), nil, gamepostgres.SystemClock{}, logger)
		game, err := games.Resync(ctx, result.Game.ID)
		if err != nil {
			log.Fatalf("play out simulated game: %v", err)
		}
		log.Printf("simulated game finished with status %s", game.Status)
	}
}

func demoConfig() gameconfig.VotingConfig {
	return gameconfig.VotingConfig{
		NVoters: 5,
		Rounds: []gameconfig.RoundConfig{
			{
				Rules:       "MAJORITY",
				Parties:     []string{"reds", "blues"},
				Questions:   []string{"Should we build the bridge?", "Should we raise the toll?"},
				VoterTarget: 4,
			},
			{
				Rules:       "MAJORITY_WITH_REWARD",
				Parties:     []string{"greens", "golds"},
				Fractions:   []float64{0.6, 0.4},
				Questions:   []string{"Should we plant the forest?"},
				VoterTarget: 5,
			},
		},
	}
}
