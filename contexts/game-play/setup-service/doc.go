// Package setupservice implements configuration ingestion inside the
// game-play context.
//
// The module parses uploaded CSV configurations and persists the game graph
// they describe: rounds, parties, voting events with reward tables, and a
// simulated voter population with randomized affiliations and pre-seeded
// best-own-outcome ballots. Game play over the resulting state belongs to
// the game-service module.
package setupservice
