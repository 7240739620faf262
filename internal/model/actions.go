package model

import "encoding/json"

// ActionType names an inbound player action
type ActionType string

const (
	ActionJoin ActionType = "join"
	ActionChat ActionType = "chatMessage"

	ActionTTTFindMatch       ActionType = "ttt_findMatch"
	ActionTTTCancelSearch    ActionType = "ttt_cancelSearch"
	ActionTTTMakeMove        ActionType = "ttt_makeMove"
	ActionTTTStartTournament ActionType = "ttt_startTournament"
	ActionTTTRematch         ActionType = "ttt_rematch"
	ActionTTTAcceptRematch   ActionType = "ttt_acceptRematch"

	ActionBingoJoinRoom    ActionType = "bingo_joinRoom"
	ActionBingoLeaveRoom   ActionType = "bingo_leaveRoom"
	ActionBingoStartGame   ActionType = "bingo_startGame"
	ActionBingoCallNumber  ActionType = "bingo_callNumber"
	ActionBingoSetAutoCall ActionType = "bingo_setAutoCall"
	ActionBingoMarkNumber  ActionType = "bingo_markNumber"
	ActionBingoClaimBingo  ActionType = "bingo_claimBingo"
	ActionBingoResetGame   ActionType = "bingo_resetGame"

	ActionDABJoinQueue      ActionType = "dab_joinQueue"
	ActionDABStartWithQueue ActionType = "dab_startWithQueue"
	ActionDABCancelQueue    ActionType = "dab_cancelQueue"
	ActionDABDrawLine       ActionType = "dab_drawLine"
	ActionDABLeaveRoom      ActionType = "dab_leaveRoom"
)

// Action is the envelope received from clients. The sender identity is
// implicit: it is the connection the action arrived on.
type Action struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload carries the claimed display name
type JoinPayload struct {
	Username string `json:"username"`
}

// ChatPayload carries a lobby chat message
type ChatPayload struct {
	Message string `json:"message"`
}

// TTTMovePayload targets a cell of a specific game
type TTTMovePayload struct {
	GameID   GameID `json:"gameId"`
	Position int    `json:"position"`
}

// TTTRematchPayload requests a rematch of a just-finished game
type TTTRematchPayload struct {
	GameID GameID `json:"gameId"`
}

// TTTAcceptRematchPayload accepts a pending rematch request
type TTTAcceptRematchPayload struct {
	Requester PlayerID `json:"requesterId"`
}

// BingoAutoCallPayload sets the recurring call period; 0 disables
type BingoAutoCallPayload struct {
	IntervalSeconds int `json:"interval"`
}

// BingoMarkPayload marks a called number on the sender's card
type BingoMarkPayload struct {
	Number int `json:"number"`
}

// DABJoinQueuePayload enters the matchmaking queue
type DABJoinQueuePayload struct {
	GridSize int `json:"gridSize"`
}

// DABStartPayload forms a game from the queue
type DABStartPayload struct {
	GridSize   int `json:"gridSize"`
	MaxPlayers int `json:"maxPlayers"`
}

// DABDrawLinePayload draws one line in a room
type DABDrawLinePayload struct {
	RoomID GameID  `json:"roomId"`
	Line   LineKey `json:"lineKey"`
}
