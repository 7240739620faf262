package model

import "time"

// GameID uniquely identifies a tic-tac-toe game or dots-and-boxes room
type GameID string

// Mark is a tic-tac-toe cell value
type Mark string

const (
	MarkNone Mark = ""
	MarkX    Mark = "X"
	MarkO    Mark = "O"
)

// TicTacToeGame is a single 3×3 game between two players.
// PlayerX moves first and always plays MarkX.
type TicTacToeGame struct {
	ID          GameID
	PlayerX     PlayerID
	PlayerO     PlayerID
	NameX       string
	NameO       string
	Board       [9]Mark
	CurrentTurn PlayerID
	MoveCount   int
	Finished    bool
	CreatedAt   time.Time
}

// HasPlayer reports whether id is one of the two participants
func (g *TicTacToeGame) HasPlayer(id PlayerID) bool {
	return g.PlayerX == id || g.PlayerO == id
}

// Opponent returns the other participant, or "" if id is not in the game
func (g *TicTacToeGame) Opponent(id PlayerID) PlayerID {
	switch id {
	case g.PlayerX:
		return g.PlayerO
	case g.PlayerO:
		return g.PlayerX
	}
	return ""
}

// MarkFor returns the mark id plays with
func (g *TicTacToeGame) MarkFor(id PlayerID) Mark {
	if id == g.PlayerX {
		return MarkX
	}
	return MarkO
}

// tttLines is the 8 winning lines: 3 rows, 3 columns, 2 diagonals
var tttLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Winner returns the mark holding a completed line, or MarkNone
func (g *TicTacToeGame) Winner() Mark {
	for _, line := range tttLines {
		a, b, c := g.Board[line[0]], g.Board[line[1]], g.Board[line[2]]
		if a != MarkNone && a == b && a == c {
			return a
		}
	}
	return MarkNone
}
