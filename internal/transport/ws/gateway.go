package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/services/bingo"
	"github.com/mcoot/gamenight-go/internal/services/directory"
	"github.com/mcoot/gamenight-go/internal/services/dotsboxes"
	"github.com/mcoot/gamenight-go/internal/services/leaderboard"
	"github.com/mcoot/gamenight-go/internal/services/lobby"
	"github.com/mcoot/gamenight-go/internal/services/tictactoe"
)

// Gateway accepts websocket connections and routes inbound actions to the
// engines. Each connection gets a fresh PlayerID; the id never outlives the
// connection.
type Gateway struct {
	hub         *Hub
	directory   directory.ServiceInterface
	leaderboard leaderboard.ServiceInterface
	lobby       lobby.BroadcasterInterface
	tictactoe   tictactoe.ServiceInterface
	bingo       bingo.ServiceInterface
	dotsboxes   dotsboxes.ServiceInterface
	logger      *slog.Logger
}

// NewGateway creates a new Gateway
func NewGateway(
	hub *Hub,
	directory directory.ServiceInterface,
	leaderboard leaderboard.ServiceInterface,
	lobby lobby.BroadcasterInterface,
	tictactoe tictactoe.ServiceInterface,
	bingo bingo.ServiceInterface,
	dotsboxes dotsboxes.ServiceInterface,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		hub:         hub,
		directory:   directory,
		leaderboard: leaderboard,
		lobby:       lobby,
		tictactoe:   tictactoe,
		bingo:       bingo,
		dotsboxes:   dotsboxes,
		logger:      logger.With(slog.String("component", "gateway")),
	}
}

// ServeHTTP upgrades the request and runs the connection until it drops
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		g.logger.Warn("websocket accept failed", slog.Any("error", err))
		return
	}

	id := model.PlayerID(uuid.NewString())
	client := NewClient(id, conn)
	g.hub.Register(client)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go client.WritePump(ctx)

	g.logger.Info("connection opened", slog.String("player_id", string(id)))
	g.readLoop(ctx, conn, id)

	g.handleDisconnect(context.Background(), id)
	conn.Close(websocket.StatusNormalClosure, "")
}

func (g *Gateway) readLoop(ctx context.Context, conn *websocket.Conn, id model.PlayerID) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == -1 && !errors.Is(err, context.Canceled) {
				g.logger.Debug("read failed",
					slog.String("player_id", string(id)),
					slog.Any("error", err),
				)
			}
			return
		}

		var action model.Action
		if err := json.Unmarshal(data, &action); err != nil {
			g.hub.SendTo(ctx, id, model.NewEvent(model.EventError, "Malformed action"))
			continue
		}
		g.dispatch(ctx, id, action)
	}
}

// dispatch routes one action to its engine. Validation failures surface as
// error events to the sender; engines handle silent rejections themselves.
func (g *Gateway) dispatch(ctx context.Context, id model.PlayerID, action model.Action) {
	var err error
	switch action.Type {
	case model.ActionJoin:
		var p model.JoinPayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			g.handleJoin(ctx, id, p.Username)
			return
		}

	case model.ActionChat:
		var p model.ChatPayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			err = g.lobby.SendChat(ctx, id, p.Message)
		}

	case model.ActionTTTFindMatch:
		err = g.tictactoe.FindMatch(ctx, id)
	case model.ActionTTTCancelSearch:
		err = g.tictactoe.CancelSearch(ctx, id)
	case model.ActionTTTMakeMove:
		var p model.TTTMovePayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			err = g.tictactoe.MakeMove(ctx, id, p.GameID, p.Position)
		}
	case model.ActionTTTStartTournament:
		if err = g.tictactoe.StartTournament(ctx); errors.Is(err, model.ErrInsufficientPlayers) {
			g.hub.SendTo(ctx, id, model.NewEvent(model.EventError, "Need at least 2 players"))
			return
		}
	case model.ActionTTTRematch:
		var p model.TTTRematchPayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			err = g.tictactoe.RequestRematch(ctx, id, p.GameID)
		}
	case model.ActionTTTAcceptRematch:
		var p model.TTTAcceptRematchPayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			err = g.tictactoe.AcceptRematch(ctx, id, p.Requester)
		}

	case model.ActionBingoJoinRoom:
		err = g.bingo.JoinRoom(ctx, id)
	case model.ActionBingoLeaveRoom:
		err = g.bingo.LeaveRoom(ctx, id)
	case model.ActionBingoStartGame:
		if err = g.bingo.StartGame(ctx, id); errors.Is(err, model.ErrInsufficientPlayers) {
			g.hub.SendTo(ctx, id, model.NewEvent(model.EventError, "Need at least 2 players"))
			return
		}
	case model.ActionBingoCallNumber:
		err = g.bingo.CallNumber(ctx, id)
	case model.ActionBingoSetAutoCall:
		var p model.BingoAutoCallPayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			err = g.bingo.SetAutoCall(ctx, id, p.IntervalSeconds)
		}
	case model.ActionBingoMarkNumber:
		var p model.BingoMarkPayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			err = g.bingo.MarkNumber(ctx, id, p.Number)
		}
	case model.ActionBingoClaimBingo:
		err = g.bingo.ClaimBingo(ctx, id)
	case model.ActionBingoResetGame:
		err = g.bingo.ResetGame(ctx, id)

	case model.ActionDABJoinQueue:
		var p model.DABJoinQueuePayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			err = g.dotsboxes.JoinQueue(ctx, id, p.GridSize)
		}
	case model.ActionDABStartWithQueue:
		var p model.DABStartPayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			if err = g.dotsboxes.StartWithQueue(ctx, id, p.GridSize, p.MaxPlayers); errors.Is(err, model.ErrInsufficientPlayers) {
				g.hub.SendTo(ctx, id, model.NewEvent(model.EventDABError, "Need at least 2 players in queue"))
				return
			}
		}
	case model.ActionDABCancelQueue:
		err = g.dotsboxes.CancelQueue(ctx, id)
	case model.ActionDABLeaveRoom:
		err = g.dotsboxes.LeaveRoom(ctx, id)
	case model.ActionDABDrawLine:
		var p model.DABDrawLinePayload
		if err = json.Unmarshal(action.Payload, &p); err == nil {
			err = g.dotsboxes.DrawLine(ctx, id, p.RoomID, p.Line)
		}

	default:
		g.hub.SendTo(ctx, id, model.NewEvent(model.EventError, "Unknown action"))
		return
	}

	if err != nil {
		g.logger.Error("action failed",
			slog.String("player_id", string(id)),
			slog.String("action", string(action.Type)),
			slog.Any("error", err),
		)
	}
}

func (g *Gateway) handleJoin(ctx context.Context, id model.PlayerID, username string) {
	player, err := g.directory.Join(ctx, id, username)
	switch {
	case errors.Is(err, model.ErrInvalidName):
		g.hub.SendTo(ctx, id, model.NewEvent(model.EventJoinError, "Invalid username"))
		return
	case errors.Is(err, model.ErrNameTaken):
		g.hub.SendTo(ctx, id, model.NewEvent(model.EventJoinError, "Username already taken"))
		return
	case err != nil:
		g.logger.Error("join failed", slog.Any("error", err))
		g.hub.SendTo(ctx, id, model.NewEvent(model.EventJoinError, "Internal error"))
		return
	}

	if err := g.leaderboard.EnsureEntries(ctx, player.DisplayName); err != nil {
		g.logger.Error("failed to seed leaderboard entries",
			slog.String("username", player.DisplayName),
			slog.Any("error", err),
		)
	}

	g.hub.SendTo(ctx, id, model.NewEvent(model.EventJoined, &model.JoinedPayload{
		Username: player.DisplayName,
	}))
	g.lobby.Refresh(ctx)
}

// handleDisconnect runs the teardown sequence for a dropped connection:
// each engine releases the player, then the directory record goes, then the
// lobby refreshes
func (g *Gateway) handleDisconnect(ctx context.Context, id model.PlayerID) {
	g.hub.Unregister(id)

	if err := g.tictactoe.HandleDisconnect(ctx, id); err != nil {
		g.logger.Error("tictactoe disconnect cleanup failed", slog.Any("error", err))
	}
	if err := g.bingo.HandleDisconnect(ctx, id); err != nil {
		g.logger.Error("bingo disconnect cleanup failed", slog.Any("error", err))
	}
	if err := g.dotsboxes.HandleDisconnect(ctx, id); err != nil {
		g.logger.Error("dotsboxes disconnect cleanup failed", slog.Any("error", err))
	}
	if err := g.directory.Leave(ctx, id); err != nil {
		g.logger.Error("directory cleanup failed", slog.Any("error", err))
	}
	g.lobby.Refresh(ctx)

	g.logger.Info("connection closed", slog.String("player_id", string(id)))
}
