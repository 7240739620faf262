package redis

import (
	"fmt"

	"github.com/mcoot/gamenight-go/internal/model"
)

// Key prefix for all game-night data
const keyPrefix = "gamenight"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playerNameIndexKey returns the Redis key for the display name -> id index
func playerNameIndexKey(displayName string) string {
	return fmt.Sprintf("%s:idx:player_name:%s", keyPrefix, displayName)
}

// playerOrderKey returns the Redis key for the LIST of connected player ids
func playerOrderKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// entryKey returns the Redis key for one leaderboard entry
func entryKey(kind model.GameKind, displayName string) string {
	return fmt.Sprintf("%s:lb:%s:%s", keyPrefix, kind, displayName)
}

// entryOrderKey returns the Redis key for the LIST preserving first-seen
// order of names on one leaderboard
func entryOrderKey(kind model.GameKind) string {
	return fmt.Sprintf("%s:idx:lb:%s", keyPrefix, kind)
}
