package model

// EventType names an outbound notification
type EventType string

const (
	// Lobby events
	EventJoined      EventType = "joined"
	EventJoinError   EventType = "joinError"
	EventError       EventType = "error"
	EventChatMessage EventType = "chatMessage"
	EventLobbyUpdate EventType = "lobbyUpdate"

	// Tic-tac-toe events
	EventTTTWaiting              EventType = "ttt_waiting"
	EventTTTSearchCancelled      EventType = "ttt_searchCancelled"
	EventTTTGameStart            EventType = "ttt_gameStart"
	EventTTTGameUpdate           EventType = "ttt_gameUpdate"
	EventTTTGameEnd              EventType = "ttt_gameEnd"
	EventTTTTournamentStart      EventType = "ttt_tournamentStart"
	EventTTTRematchRequest       EventType = "ttt_rematchRequest"
	EventTTTOpponentDisconnected EventType = "ttt_opponentDisconnected"

	// Bingo events
	EventBingoYouAreHost      EventType = "bingo_youAreHost"
	EventBingoCardAssigned    EventType = "bingo_cardAssigned"
	EventBingoRoomUpdate      EventType = "bingo_roomUpdate"
	EventBingoGameStarted     EventType = "bingo_gameStarted"
	EventBingoNumberCalled    EventType = "bingo_numberCalled"
	EventBingoAutoCallUpdated EventType = "bingo_autoCallUpdated"
	EventBingoMarkConfirmed   EventType = "bingo_markConfirmed"
	EventBingoWinner          EventType = "bingo_winner"
	EventBingoValidClaim      EventType = "bingo_validClaim"
	EventBingoInvalidClaim    EventType = "bingo_invalidClaim"
	EventBingoGameEnded       EventType = "bingo_gameEnded"
	EventBingoGameReset       EventType = "bingo_gameReset"

	// Dots-and-boxes events
	EventDABQueued         EventType = "dab_queued"
	EventDABQueueCancelled EventType = "dab_queueCancelled"
	EventDABError          EventType = "dab_error"
	EventDABGameStart      EventType = "dab_gameStart"
	EventDABGameUpdate     EventType = "dab_gameUpdate"
	EventDABGameEnd        EventType = "dab_gameEnd"
	EventDABPlayerLeft     EventType = "dab_playerLeft"
)

// Event is the envelope delivered to clients over the event channel
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// NewEvent constructs an event envelope
func NewEvent(t EventType, payload any) Event {
	return Event{Type: t, Payload: payload}
}

// JoinedPayload confirms a successful join
type JoinedPayload struct {
	Username string `json:"username"`
}

// ChatMessagePayload relays a lobby chat message
type ChatMessagePayload struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// LobbyPlayer is one roster row in the lobby snapshot
type LobbyPlayer struct {
	Username string `json:"username"`
	InGame   bool   `json:"inGame"`
}

// LobbySnapshot aggregates the directory, leaderboard top-10s, and per-game
// activity counts, broadcast after any lobby-relevant state change.
type LobbySnapshot struct {
	Players          []LobbyPlayer       `json:"players"`
	TTTLeaderboard   []*LeaderboardEntry `json:"tttLeaderboard"`
	BingoLeaderboard []*LeaderboardEntry `json:"bingoLeaderboard"`
	DABLeaderboard   []*LeaderboardEntry `json:"dabLeaderboard"`
	ActiveGames      int                 `json:"activeGames"`
	BingoPlayers     int                 `json:"bingoPlayers"`
	DABQueue         int                 `json:"dabQueue"`
}

// TTTGameStartPayload is sent individually to each matched player
type TTTGameStartPayload struct {
	GameID   GameID `json:"gameId"`
	Opponent string `json:"opponent"`
	Symbol   Mark   `json:"symbol"`
	YourTurn bool   `json:"yourTurn"`
}

// TTTGameUpdatePayload carries the authoritative board state
type TTTGameUpdatePayload struct {
	GameID      GameID   `json:"gameId"`
	Board       [9]Mark  `json:"board"`
	CurrentTurn PlayerID `json:"currentTurn"`
	PlayerXName string   `json:"player1Name"`
	PlayerOName string   `json:"player2Name"`
}

// TTTGameEndPayload is sent individually with the recipient's own outcome
type TTTGameEndPayload struct {
	Result string `json:"result"` // "win", "loss", or "draw"
	GameID GameID `json:"gameId"`
}

// TTTTournamentPayload announces the full bracket by display name
type TTTTournamentPayload struct {
	Bracket [][2]string `json:"bracket"`
}

// TTTRematchRequestPayload is delivered to the requested opponent
type TTTRematchRequestPayload struct {
	Requester PlayerID `json:"requesterId"`
	Username  string   `json:"username"`
}

// BingoCardAssignedPayload delivers a player's card and room context
type BingoCardAssignedPayload struct {
	Card          BingoCard `json:"card"`
	CalledNumbers []int     `json:"calledNumbers"`
	GameActive    bool      `json:"gameActive"`
	IsHost        bool      `json:"isHost"`
}

// BingoRoomPlayer is one row of the room roster
type BingoRoomPlayer struct {
	Username string `json:"username"`
	HasBingo bool   `json:"hasBingo"`
}

// BingoRoomUpdatePayload summarizes the room for all connected players
type BingoRoomUpdatePayload struct {
	Players     []BingoRoomPlayer `json:"players"`
	PlayerCount int               `json:"playerCount"`
	GameActive  bool              `json:"gameActive"`
	CalledCount int               `json:"calledCount"`
	Winners     []string          `json:"winners"`
}

// BingoNumberCalledPayload announces a drawn number
type BingoNumberCalledPayload struct {
	Number        int   `json:"number"`
	CalledNumbers []int `json:"calledNumbers"`
	Remaining     int   `json:"remaining"`
}

// BingoMarkConfirmedPayload acknowledges a valid mark to the sender
type BingoMarkConfirmedPayload struct {
	Index  int `json:"index"`
	Number int `json:"number"`
}

// BingoWinnerPayload announces a first-time bingo with its rank
type BingoWinnerPayload struct {
	Username string              `json:"username"`
	Position int                 `json:"position"`
	Card     BingoCard           `json:"card"`
	Marked   [BingoCardSize]bool `json:"markedNumbers"`
}

// BingoGameEndedPayload lists winners ranked by call order
type BingoGameEndedPayload struct {
	Winners []string `json:"winners"`
}

// DABQueuedPayload acknowledges a queue join with the sender's position
type DABQueuedPayload struct {
	Position int `json:"position"`
}

// DABPlayerState is one player's public state in a room
type DABPlayerState struct {
	Username string `json:"username"`
	Color    string `json:"color"`
	Score    int    `json:"score"`
}

// DABGameStartPayload is sent individually to each room participant
type DABGameStartPayload struct {
	RoomID             GameID           `json:"roomId"`
	GridSize           int              `json:"gridSize"`
	PlayerOrder        []DABPlayerState `json:"playerOrder"`
	YourIndex          int              `json:"yourIndex"`
	YourColor          string           `json:"yourColor"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
}

// DABLineState is one drawn line in a game update
type DABLineState struct {
	Orientation Orientation `json:"orientation"`
	Row         int         `json:"row"`
	Col         int         `json:"col"`
	Username    string      `json:"username"`
	Color       string      `json:"color"`
}

// DABBoxState is one captured box in a game update
type DABBoxState struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Username string `json:"username"`
	Color    string `json:"color"`
}

// DABGameUpdatePayload carries the authoritative room state
type DABGameUpdatePayload struct {
	RoomID             GameID           `json:"roomId"`
	Lines              []DABLineState   `json:"lines"`
	Boxes              []DABBoxState    `json:"boxes"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
	Scores             []DABPlayerState `json:"scores"`
}

// DABGameEndPayload reports the final ranking
type DABGameEndPayload struct {
	Finished bool             `json:"finished"`
	Scores   []DABPlayerState `json:"scores"` // ranked by score descending
	Winners  []string         `json:"winners"`
	IsDraw   bool             `json:"isDraw"`
}

// DABPlayerLeftPayload notifies remaining players of a teardown
type DABPlayerLeftPayload struct {
	Message string `json:"message"`
}
