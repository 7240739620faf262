package model

// LeaderboardEntry is the cumulative record for one display name in one
// game kind. Entries are created lazily when a name first joins and are
// never deleted, so a returning player under the same name keeps history.
type LeaderboardEntry struct {
	DisplayName string `json:"username"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Draws       int    `json:"draws"`
	Points      int    `json:"points"`
}
