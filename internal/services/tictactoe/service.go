package tictactoe

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/gamenight-go/internal/dependencies/clock"
	"github.com/mcoot/gamenight-go/internal/dependencies/random"
	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/push"
	"github.com/mcoot/gamenight-go/internal/services/directory"
	"github.com/mcoot/gamenight-go/internal/services/leaderboard"
	"github.com/mcoot/gamenight-go/internal/services/lobby"
)

const (
	winPoints  = 3
	drawPoints = 1

	// Finished games linger briefly so both clients can fetch the final
	// state and request a rematch.
	gameLinger = time.Second
)

// Service is the tic-tac-toe engine: a single waiting slot for matchmaking,
// the set of in-flight games, and tournament pairing. One mutex guards the
// slot and the game map; every action runs under it.
type Service struct {
	mu      sync.Mutex
	games   map[model.GameID]*model.TicTacToeGame
	waiting model.PlayerID

	directory   directory.ServiceInterface
	leaderboard leaderboard.ServiceInterface
	lobby       lobby.BroadcasterInterface
	notifier    push.Notifier
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger
}

// New creates a new tic-tac-toe Service
func New(
	directory directory.ServiceInterface,
	leaderboard leaderboard.ServiceInterface,
	lobby lobby.BroadcasterInterface,
	notifier push.Notifier,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		games:       make(map[model.GameID]*model.TicTacToeGame),
		directory:   directory,
		leaderboard: leaderboard,
		lobby:       lobby,
		notifier:    notifier,
		clock:       clock,
		random:      random,
		logger:      logger.With(slog.String("component", "tictactoe")),
	}
}

// ActiveGames returns the number of unfinished games
func (s *Service) ActiveGames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, g := range s.games {
		if !g.Finished {
			count++
		}
	}
	return count
}

// FindMatch places the player in the waiting slot, or starts a game against
// the player already waiting there. Players already in a game are ignored.
func (s *Service) FindMatch(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.directory.Get(ctx, id)
	if err != nil || player.InGame {
		return nil
	}

	if s.waiting != "" && s.waiting != id {
		opponent, err := s.directory.Get(ctx, s.waiting)
		if err == nil && !opponent.InGame {
			waiting := s.waiting
			s.waiting = ""
			return s.startGame(ctx, id, waiting)
		}
	}

	s.waiting = id
	s.notifier.SendTo(ctx, id, model.NewEvent(model.EventTTTWaiting, "Searching for opponent..."))
	return nil
}

// CancelSearch vacates the waiting slot if the player holds it
func (s *Service) CancelSearch(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.waiting == id {
		s.waiting = ""
	}
	s.notifier.SendTo(ctx, id, model.NewEvent(model.EventTTTSearchCancelled, nil))
	return nil
}

// MakeMove applies a mark at position for the player. Moves out of turn, on
// occupied cells, or against missing or finished games are silently ignored.
func (s *Service) MakeMove(ctx context.Context, id model.PlayerID, gameID model.GameID, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[gameID]
	if !ok || game.Finished {
		return nil
	}
	if game.CurrentTurn != id {
		return nil
	}
	if position < 0 || position >= len(game.Board) || game.Board[position] != model.MarkNone {
		return nil
	}

	game.Board[position] = game.MarkFor(id)
	game.MoveCount++

	if winner := game.Winner(); winner != model.MarkNone {
		winnerID := game.PlayerX
		if winner == model.MarkO {
			winnerID = game.PlayerO
		}
		return s.endGame(ctx, game, winnerID)
	}
	if game.MoveCount == len(game.Board) {
		return s.endGame(ctx, game, "")
	}

	game.CurrentTurn = game.Opponent(id)
	s.broadcastState(ctx, game)
	return nil
}

// StartTournament pairs up every free player into simultaneous games. With
// an odd count the leftover player sits out. Needs at least two free players.
func (s *Service) StartTournament(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	available, err := s.directory.Available(ctx)
	if err != nil {
		return err
	}
	if len(available) < 2 {
		return model.ErrInsufficientPlayers
	}

	s.random.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	bracket := make([][2]string, 0, len(available)/2)
	for i := 0; i+1 < len(available); i += 2 {
		bracket = append(bracket, [2]string{available[i].DisplayName, available[i+1].DisplayName})
		if err := s.startGame(ctx, available[i].ID, available[i+1].ID); err != nil {
			return err
		}
	}

	s.notifier.Broadcast(ctx, model.NewEvent(model.EventTTTTournamentStart, &model.TTTTournamentPayload{
		Bracket: bracket,
	}))
	return nil
}

// RequestRematch forwards a rematch offer to the opponent of a recent game.
// The game must still be lingering; otherwise the request is dropped.
func (s *Service) RequestRematch(ctx context.Context, id model.PlayerID, gameID model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[gameID]
	if !ok || !game.HasPlayer(id) {
		return nil
	}

	player, err := s.directory.Get(ctx, id)
	if err != nil {
		return nil
	}
	s.notifier.SendTo(ctx, game.Opponent(id), model.NewEvent(model.EventTTTRematchRequest, &model.TTTRematchRequestPayload{
		Requester: id,
		Username:  player.DisplayName,
	}))
	return nil
}

// AcceptRematch starts a fresh game between the accepter and the requester,
// with the accepter moving first
func (s *Service) AcceptRematch(ctx context.Context, id model.PlayerID, requester model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startGame(ctx, id, requester)
}

// HandleDisconnect tears down any game the player is in, freeing and
// notifying the opponent, and vacates the waiting slot if held.
// No leaderboard changes are recorded for an abandoned game.
func (s *Service) HandleDisconnect(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.waiting == id {
		s.waiting = ""
	}

	for gameID, game := range s.games {
		if !game.HasPlayer(id) {
			continue
		}
		opponent := game.Opponent(id)
		s.notifier.SendTo(ctx, opponent, model.NewEvent(model.EventTTTOpponentDisconnected, nil))
		if err := s.directory.ClearInGame(ctx, opponent); err != nil {
			s.logger.Error("failed to free opponent",
				slog.String("player_id", string(opponent)),
				slog.Any("error", err),
			)
		}
		delete(s.games, gameID)
	}
	return nil
}

// startGame creates a game between the two players and notifies them.
// first plays X and moves first. Caller holds the mutex.
func (s *Service) startGame(ctx context.Context, first, second model.PlayerID) error {
	p1, err := s.directory.Get(ctx, first)
	if err != nil {
		return nil
	}
	p2, err := s.directory.Get(ctx, second)
	if err != nil {
		return nil
	}

	game := &model.TicTacToeGame{
		ID:          model.GameID("ttt_" + uuid.NewString()),
		PlayerX:     first,
		PlayerO:     second,
		NameX:       p1.DisplayName,
		NameO:       p2.DisplayName,
		CurrentTurn: first,
		CreatedAt:   s.clock.Now(),
	}
	s.games[game.ID] = game

	for _, id := range []model.PlayerID{first, second} {
		if err := s.directory.SetInGame(ctx, id, model.KindTicTacToe); err != nil {
			return err
		}
	}

	s.notifier.SendTo(ctx, first, model.NewEvent(model.EventTTTGameStart, &model.TTTGameStartPayload{
		GameID:   game.ID,
		Opponent: p2.DisplayName,
		Symbol:   model.MarkX,
		YourTurn: true,
	}))
	s.notifier.SendTo(ctx, second, model.NewEvent(model.EventTTTGameStart, &model.TTTGameStartPayload{
		GameID:   game.ID,
		Opponent: p1.DisplayName,
		Symbol:   model.MarkO,
		YourTurn: false,
	}))
	s.broadcastState(ctx, game)
	s.lobby.Refresh(ctx)

	s.logger.Info("game started",
		slog.String("game_id", string(game.ID)),
		slog.String("player_x", p1.DisplayName),
		slog.String("player_o", p2.DisplayName),
	)
	return nil
}

// broadcastState sends the board to both participants. Caller holds the mutex.
func (s *Service) broadcastState(ctx context.Context, game *model.TicTacToeGame) {
	state := &model.TTTGameUpdatePayload{
		GameID:      game.ID,
		Board:       game.Board,
		CurrentTurn: game.CurrentTurn,
		PlayerXName: game.NameX,
		PlayerOName: game.NameO,
	}
	s.notifier.SendTo(ctx, game.PlayerX, model.NewEvent(model.EventTTTGameUpdate, state))
	s.notifier.SendTo(ctx, game.PlayerO, model.NewEvent(model.EventTTTGameUpdate, state))
}

// endGame finishes the game, records results, notifies each player with
// their own outcome, and schedules the game record for removal after the
// linger period. Empty winnerID means a draw. Caller holds the mutex.
func (s *Service) endGame(ctx context.Context, game *model.TicTacToeGame, winnerID model.PlayerID) error {
	game.Finished = true

	for _, id := range []model.PlayerID{game.PlayerX, game.PlayerO} {
		if err := s.directory.ClearInGame(ctx, id); err != nil {
			return err
		}
	}

	if winnerID != "" {
		loserID := game.Opponent(winnerID)
		winnerName := game.NameX
		loserName := game.NameO
		if winnerID == game.PlayerO {
			winnerName, loserName = game.NameO, game.NameX
		}
		if err := s.leaderboard.RecordWin(ctx, model.KindTicTacToe, winnerName, winPoints); err != nil {
			return err
		}
		if err := s.leaderboard.RecordLoss(ctx, model.KindTicTacToe, loserName); err != nil {
			return err
		}
		s.notifier.SendTo(ctx, winnerID, model.NewEvent(model.EventTTTGameEnd, &model.TTTGameEndPayload{
			Result: "win",
			GameID: game.ID,
		}))
		s.notifier.SendTo(ctx, loserID, model.NewEvent(model.EventTTTGameEnd, &model.TTTGameEndPayload{
			Result: "loss",
			GameID: game.ID,
		}))
	} else {
		for _, name := range []string{game.NameX, game.NameO} {
			if err := s.leaderboard.RecordDraw(ctx, model.KindTicTacToe, name, drawPoints); err != nil {
				return err
			}
		}
		for _, id := range []model.PlayerID{game.PlayerX, game.PlayerO} {
			s.notifier.SendTo(ctx, id, model.NewEvent(model.EventTTTGameEnd, &model.TTTGameEndPayload{
				Result: "draw",
				GameID: game.ID,
			}))
		}
	}

	gameID := game.ID
	s.clock.AfterFunc(gameLinger, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.games, gameID)
	})

	s.lobby.Refresh(ctx)

	s.logger.Info("game finished",
		slog.String("game_id", string(game.ID)),
		slog.Bool("draw", winnerID == ""),
	)
	return nil
}

// Interface for dependency injection
type ServiceInterface interface {
	ActiveGames() int
	FindMatch(ctx context.Context, id model.PlayerID) error
	CancelSearch(ctx context.Context, id model.PlayerID) error
	MakeMove(ctx context.Context, id model.PlayerID, gameID model.GameID, position int) error
	StartTournament(ctx context.Context) error
	RequestRematch(ctx context.Context, id model.PlayerID, gameID model.GameID) error
	AcceptRematch(ctx context.Context, id model.PlayerID, requester model.PlayerID) error
	HandleDisconnect(ctx context.Context, id model.PlayerID) error
}

var _ ServiceInterface = (*Service)(nil)
