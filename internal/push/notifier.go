// Package push defines the outbound event channel the game engines depend
// on. The concrete transport (websocket hub) lives in internal/transport/ws;
// engines only ever address a single player or everyone.
package push

import (
	"context"

	"github.com/mcoot/gamenight-go/internal/model"
)

// Notifier delivers events to connected players
type Notifier interface {
	// SendTo delivers an event to a single player; unknown recipients
	// are dropped silently (the player may have just disconnected)
	SendTo(ctx context.Context, to model.PlayerID, event model.Event)

	// Broadcast delivers an event to every connected player
	Broadcast(ctx context.Context, event model.Event)
}
