package model

import "time"

// PlayerID uniquely identifies a connected player. It is the opaque
// connection identifier assigned by the transport and is stable for the
// lifetime of the connection.
type PlayerID string

// GameKind identifies one of the hosted games
type GameKind string

const (
	KindTicTacToe GameKind = "tictactoe"
	KindBingo     GameKind = "bingo"
	KindDotsBoxes GameKind = "dotsboxes"
)

// AllGameKinds lists every hosted game, in lobby display order
var AllGameKinds = []GameKind{KindTicTacToe, KindBingo, KindDotsBoxes}

// ValidGameKind reports whether k names a hosted game
func ValidGameKind(k GameKind) bool {
	for _, kind := range AllGameKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Player represents a connected participant. The directory owns the record;
// games hold only the PlayerID and look records up through the directory.
type Player struct {
	ID          PlayerID
	DisplayName string
	InGame      bool
	CurrentGame GameKind // empty when not in a game
	JoinedAt    time.Time
}
