package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLobbyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lobby",
		Short: "Show the current lobby snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LobbySnapshot

			if err := client.Get("/api/v1/lobby", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard <kind>",
		Short: "Show the standings for one game",
		Long: `Show the top standings for one game kind.

Valid kinds: tictactoe, bingo, dotsboxes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]

			var entries []LeaderboardEntry
			if err := client.Get(fmt.Sprintf("/api/v1/leaderboard/%s", kind), &entries); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(Leaderboard{Kind: kind, Entries: entries})
			return nil
		},
	}
}
