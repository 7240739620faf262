package model

import "errors"

// Common errors used across the application. Engines return these only for
// operator-initiated actions where feedback is expected; stale or duplicate
// client messages are dropped silently instead.
var (
	// Join errors
	ErrInvalidName = errors.New("invalid username")
	ErrNameTaken   = errors.New("username already taken")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Matchmaking / game errors
	ErrInsufficientPlayers = errors.New("need at least 2 players")
	ErrGameNotFound        = errors.New("game not found")

	// Leaderboard errors
	ErrEntryNotFound = errors.New("leaderboard entry not found")
	ErrUnknownKind   = errors.New("unknown game kind")
)
