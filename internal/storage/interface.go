package storage

import (
	"context"

	"github.com/mcoot/gamenight-go/internal/model"
)

// Storage defines the interface for data that outlives a single action:
// the connected-player directory and the per-game-kind leaderboards.
// Game and room instances are ephemeral engine state and never stored here.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByName(ctx context.Context, displayName string) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Leaderboard operations. ListLeaderboard returns entries in
	// first-seen order so point ties rank stably.
	SaveLeaderboardEntry(ctx context.Context, kind model.GameKind, entry *model.LeaderboardEntry) error
	GetLeaderboardEntry(ctx context.Context, kind model.GameKind, displayName string) (*model.LeaderboardEntry, error)
	ListLeaderboard(ctx context.Context, kind model.GameKind) ([]*model.LeaderboardEntry, error)
}
