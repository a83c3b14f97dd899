// Package gameservice implements game play inside the game-play context.
//
// The module owns the progression state machine for round-based voting
// games: ballot intake, majority result computation with reward
// application, automatic advancement across voting events and rounds, and
// snapshot publication to connected observers. Business rules live in the
// application and domain layers; persistence and transport stay behind
// ports and adapters.
package gameservice
