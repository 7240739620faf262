package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	case LobbySnapshot:
		o.printLobby(v)
	case Leaderboard:
		o.printLeaderboard(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type (matches API)
type HealthResult struct {
	Status string `json:"status"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
	Points   int    `json:"points"`
}

// Leaderboard is one kind's standings
type Leaderboard struct {
	Kind    string             `json:"kind"`
	Entries []LeaderboardEntry `json:"entries"`
}

// LobbyPlayer response type
type LobbyPlayer struct {
	Username string `json:"username"`
	InGame   bool   `json:"inGame"`
}

// LobbySnapshot response type
type LobbySnapshot struct {
	Players          []LobbyPlayer      `json:"players"`
	TTTLeaderboard   []LeaderboardEntry `json:"tttLeaderboard"`
	BingoLeaderboard []LeaderboardEntry `json:"bingoLeaderboard"`
	DABLeaderboard   []LeaderboardEntry `json:"dabLeaderboard"`
	ActiveGames      int                `json:"activeGames"`
	BingoPlayers     int                `json:"bingoPlayers"`
	DABQueue         int                `json:"dabQueue"`
}

func (o *Output) printLobby(s LobbySnapshot) {
	fmt.Printf("Players online (%d):\n", len(s.Players))
	for _, p := range s.Players {
		status := ""
		if p.InGame {
			status = " [in game]"
		}
		fmt.Printf("  - %s%s\n", p.Username, status)
	}
	fmt.Printf("Active tic-tac-toe games: %d\n", s.ActiveGames)
	fmt.Printf("Bingo room players: %d\n", s.BingoPlayers)
	fmt.Printf("Dots-and-boxes queue: %d\n", s.DABQueue)
}

func (o *Output) printLeaderboard(l Leaderboard) {
	fmt.Printf("Leaderboard: %s\n", l.Kind)
	if len(l.Entries) == 0 {
		fmt.Println("  (empty)")
		return
	}
	for i, e := range l.Entries {
		fmt.Printf("  %2d. %s - %d pts (%dW/%dL/%dD)\n",
			i+1, e.Username, e.Points, e.Wins, e.Losses, e.Draws)
	}
}
