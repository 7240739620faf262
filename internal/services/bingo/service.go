package bingo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/gamenight-go/internal/dependencies/clock"
	"github.com/mcoot/gamenight-go/internal/dependencies/random"
	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/push"
	"github.com/mcoot/gamenight-go/internal/services/directory"
	"github.com/mcoot/gamenight-go/internal/services/leaderboard"
	"github.com/mcoot/gamenight-go/internal/services/lobby"
)

const minPlayers = 2

// Service is the bingo engine. There is a single room for the whole server;
// the first player to enter becomes host and drives the game. All room state
// lives behind one mutex.
type Service struct {
	mu        sync.Mutex
	players   map[model.PlayerID]*model.BingoPlayer
	order     []model.PlayerID
	host      model.PlayerID
	active    bool
	called    []int
	available []int
	winners   []string

	autoInterval int
	autoTicker   clock.Ticker
	autoDone     chan struct{}

	directory   directory.ServiceInterface
	leaderboard leaderboard.ServiceInterface
	lobby       lobby.BroadcasterInterface
	notifier    push.Notifier
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger
}

// New creates a new bingo Service
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
		players:     make(map[model.PlayerID]*model.BingoPlayer),
		directory:   directory,
		leaderboard: leaderboard,
		lobby:       lobby,
		notifier:    notifier,
		clock:       clock,
		random:      random,
		logger:      logger.With(slog.String("component", "bingo")),
	}
}

// PlayerCount returns the current room occupancy
func (s *Service) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// JoinRoom adds the player to the room with a fresh card. The first player
// to enter becomes host. Joining mid-game is allowed; the newcomer receives
// the call history so far.
func (s *Service) JoinRoom(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.directory.Get(ctx, id)
	if err != nil {
		return nil
	}

	bp := &model.BingoPlayer{
		DisplayName: player.DisplayName,
		Card:        s.generateCard(),
	}
	bp.ResetCardMarks()
	if _, rejoining := s.players[id]; !rejoining {
		s.order = append(s.order, id)
	}
	s.players[id] = bp

	if s.host == "" {
		s.host = id
		s.notifier.SendTo(ctx, id, model.NewEvent(model.EventBingoYouAreHost, nil))
	}

	s.notifier.SendTo(ctx, id, model.NewEvent(model.EventBingoCardAssigned, &model.BingoCardAssignedPayload{
		Card:          bp.Card,
		CalledNumbers: s.calledCopy(),
		GameActive:    s.active,
		IsHost:        s.host == id,
	}))
	s.broadcastRoomUpdate(ctx)
	s.lobby.Refresh(ctx)
	return nil
}

// LeaveRoom removes the player from the room
func (s *Service) LeaveRoom(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removePlayer(ctx, id)
	return nil
}

// HandleDisconnect removes a dropped connection from the room
func (s *Service) HandleDisconnect(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removePlayer(ctx, id)
	return nil
}

// StartGame begins a round: resets the call history, refills the pool, and
// clears every card's marks. Host-only; needs at least two players in the
// room. Starting while a round is active is ignored.
func (s *Service) StartGame(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.host != id {
		return nil
	}
	if len(s.players) < minPlayers {
		return model.ErrInsufficientPlayers
	}
	if s.active {
		return nil
	}

	s.called = nil
	s.available = make([]int, model.BingoNumberCount)
	for i := range s.available {
		s.available[i] = i + 1
	}
	s.winners = nil
	s.active = true
	for _, bp := range s.players {
		bp.ResetCardMarks()
	}

	s.notifier.Broadcast(ctx, model.NewEvent(model.EventBingoGameStarted, nil))
	s.broadcastRoomUpdate(ctx)

	s.logger.Info("bingo round started", slog.Int("players", len(s.players)))
	return nil
}

// CallNumber draws one number from the pool. Host-only, only while a round
// is active and the pool is non-empty.
func (s *Service) CallNumber(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.host != id {
		return nil
	}
	s.drawNumber(ctx)
	return nil
}

// SetAutoCall configures a recurring draw every intervalSeconds. Host-only;
// zero disables. The timer self-cancels when the pool empties or the round
// ends.
func (s *Service) SetAutoCall(ctx context.Context, id model.PlayerID, intervalSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.host != id {
		return nil
	}

	s.stopAutoCall()
	s.autoInterval = intervalSeconds

	if intervalSeconds > 0 && s.active {
		ticker := s.clock.NewTicker(time.Duration(intervalSeconds) * time.Second)
		done := make(chan struct{})
		s.autoTicker = ticker
		s.autoDone = done
		go s.runAutoCall(ticker, done)
	}

	s.notifier.Broadcast(ctx, model.NewEvent(model.EventBingoAutoCallUpdated, intervalSeconds))
	return nil
}

func (s *Service) runAutoCall(ticker clock.Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			s.mu.Lock()
			s.autoCallTick(context.Background())
			s.mu.Unlock()
		}
	}
}

// autoCallTick performs one recurring draw, cancelling the timer when the
// round is over or the pool is empty. Caller holds the mutex.
func (s *Service) autoCallTick(ctx context.Context) {
	if !s.active || len(s.available) == 0 {
		s.stopAutoCall()
		return
	}
	s.drawNumber(ctx)
}

// stopAutoCall cancels any running auto-call timer. Caller holds the mutex.
func (s *Service) stopAutoCall() {
	if s.autoTicker != nil {
		s.autoTicker.Stop()
		close(s.autoDone)
		s.autoTicker = nil
		s.autoDone = nil
	}
}

// drawNumber removes one random number from the pool and announces it.
// Caller holds the mutex.
func (s *Service) drawNumber(ctx context.Context) {
	if !s.active || len(s.available) == 0 {
		return
	}
	idx := s.random.Intn(len(s.available))
	num := s.available[idx]
	s.available = append(s.available[:idx], s.available[idx+1:]...)
	s.called = append(s.called, num)

	s.notifier.Broadcast(ctx, model.NewEvent(model.EventBingoNumberCalled, &model.BingoNumberCalledPayload{
		Number:        num,
		CalledNumbers: s.calledCopy(),
		Remaining:     len(s.available),
	}))
}

// MarkNumber marks a called number on the sender's card. Marks outside an
// active round, of uncalled numbers, or of numbers absent from the card are
// ignored. A mark completing the
// player's first line records a win immediately; the round ends when three
// players have won or the pool is empty.
func (s *Service) MarkNumber(ctx context.Context, id model.PlayerID, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bp, ok := s.players[id]
	if !ok || !s.active || !s.wasCalled(number) {
		return nil
	}
	idx := bp.Card.IndexOf(number)
	if idx == -1 {
		return nil
	}
	bp.Marked[idx] = true
	s.notifier.SendTo(ctx, id, model.NewEvent(model.EventBingoMarkConfirmed, &model.BingoMarkConfirmedPayload{
		Index:  idx,
		Number: number,
	}))

	if !bp.HasBingo && bp.HasWin() {
		bp.HasBingo = true
		s.winners = append(s.winners, bp.DisplayName)

		points := model.BingoPlacedPoints
		if len(s.winners) == 1 {
			points = model.BingoFirstPoints
		}
		if err := s.leaderboard.RecordWin(ctx, model.KindBingo, bp.DisplayName, points); err != nil {
			s.logger.Error("failed to record bingo win",
				slog.String("username", bp.DisplayName),
				slog.Any("error", err),
			)
		}

		s.notifier.Broadcast(ctx, model.NewEvent(model.EventBingoWinner, &model.BingoWinnerPayload{
			Username: bp.DisplayName,
			Position: len(s.winners),
			Card:     bp.Card,
			Marked:   bp.Marked,
		}))

		if len(s.winners) >= model.BingoMaxWinners || len(s.available) == 0 {
			s.endGame(ctx)
		}
	}
	return nil
}

// ClaimBingo checks the sender's card on demand. The claim is advisory: it
// reports validity to the sender but never changes standings, which update
// only through MarkNumber.
func (s *Service) ClaimBingo(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bp, ok := s.players[id]
	if !ok || bp.HasBingo {
		return nil
	}
	if bp.HasWin() {
		s.notifier.SendTo(ctx, id, model.NewEvent(model.EventBingoValidClaim, nil))
	} else {
		s.notifier.SendTo(ctx, id, model.NewEvent(model.EventBingoInvalidClaim, "Not a valid Bingo!"))
	}
	return nil
}

// ResetGame stops the round and deals every player a fresh card. Host-only.
func (s *Service) ResetGame(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.host != id {
		return nil
	}
	s.resetGame(ctx)
	return nil
}

// endGame stops the round, records losses for everyone without a bingo, and
// announces the final winner list. Caller holds the mutex.
func (s *Service) endGame(ctx context.Context) {
	s.active = false
	s.stopAutoCall()

	for _, bp := range s.players {
		if bp.HasBingo {
			continue
		}
		if err := s.leaderboard.RecordLoss(ctx, model.KindBingo, bp.DisplayName); err != nil {
			s.logger.Error("failed to record bingo loss",
				slog.String("username", bp.DisplayName),
				slog.Any("error", err),
			)
		}
	}

	s.notifier.Broadcast(ctx, model.NewEvent(model.EventBingoGameEnded, &model.BingoGameEndedPayload{
		Winners: append([]string{}, s.winners...),
	}))
	s.lobby.Refresh(ctx)

	s.logger.Info("bingo round ended", slog.Int("winners", len(s.winners)))
}

// resetGame returns the room to idle with fresh cards for everyone.
// Caller holds the mutex.
func (s *Service) resetGame(ctx context.Context) {
	s.stopAutoCall()
	s.called = nil
	s.available = nil
	s.active = false
	s.winners = nil
	s.autoInterval = 0
	for _, bp := range s.players {
		bp.Card = s.generateCard()
		bp.ResetCardMarks()
	}
	s.notifier.Broadcast(ctx, model.NewEvent(model.EventBingoGameReset, nil))
	s.broadcastRoomUpdate(ctx)
}

// removePlayer drops the player and reassigns hosting if needed. When the
// host leaves, the earliest remaining joiner inherits the role; an emptied
// room resets to idle. Caller holds the mutex.
func (s *Service) removePlayer(ctx context.Context, id model.PlayerID) {
	if _, ok := s.players[id]; !ok {
		return
	}
	delete(s.players, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if s.host == id {
		if len(s.order) > 0 {
			s.host = s.order[0]
			s.notifier.SendTo(ctx, s.host, model.NewEvent(model.EventBingoYouAreHost, nil))
			hd := s.players[s.host]
			s.notifier.SendTo(ctx, s.host, model.NewEvent(model.EventBingoCardAssigned, &model.BingoCardAssignedPayload{
				Card:          hd.Card,
				CalledNumbers: s.calledCopy(),
				GameActive:    s.active,
				IsHost:        true,
			}))
		} else {
			s.resetGame(ctx)
			s.host = ""
		}
	}
	s.broadcastRoomUpdate(ctx)
	s.lobby.Refresh(ctx)
}

// broadcastRoomUpdate announces the room roster to everyone connected.
// Caller holds the mutex.
func (s *Service) broadcastRoomUpdate(ctx context.Context) {
	roster := make([]model.BingoRoomPlayer, 0, len(s.order))
	for _, pid := range s.order {
		bp := s.players[pid]
		roster = append(roster, model.BingoRoomPlayer{
			Username: bp.DisplayName,
			HasBingo: bp.HasBingo,
		})
	}
	s.notifier.Broadcast(ctx, model.NewEvent(model.EventBingoRoomUpdate, &model.BingoRoomUpdatePayload{
		Players:     roster,
		PlayerCount: len(s.players),
		GameActive:  s.active,
		CalledCount: len(s.called),
		Winners:     append([]string{}, s.winners...),
	}))
}

// generateCard draws a card column by column: column i holds five distinct
// numbers from [15i+1, 15i+15], stored row-major, with the center free.
func (s *Service) generateCard() model.BingoCard {
	var card model.BingoCard
	for col := 0; col < 5; col++ {
		min := col*model.BingoColumnSpan + 1
		seen := make(map[int]bool, 5)
		row := 0
		for row < 5 {
			n := min + s.random.Intn(model.BingoColumnSpan)
			if seen[n] {
				continue
			}
			seen[n] = true
			card[row*5+col] = n
			row++
		}
	}
	card[model.BingoFreeCell] = 0
	return card
}

func (s *Service) wasCalled(number int) bool {
	for _, n := range s.called {
		if n == number {
			return true
		}
	}
	return false
}

func (s *Service) calledCopy() []int {
	out := make([]int, len(s.called))
	copy(out, s.called)
	return out
}

// Interface for dependency injection
type ServiceInterface interface {
	PlayerCount() int
	JoinRoom(ctx context.Context, id model.PlayerID) error
	LeaveRoom(ctx context.Context, id model.PlayerID) error
	StartGame(ctx context.Context, id model.PlayerID) error
	CallNumber(ctx context.Context, id model.PlayerID) error
	SetAutoCall(ctx context.Context, id model.PlayerID, intervalSeconds int) error
	MarkNumber(ctx context.Context, id model.PlayerID, number int) error
	ClaimBingo(ctx context.Context, id model.PlayerID) error
	ResetGame(ctx context.Context, id model.PlayerID) error
	HandleDisconnect(ctx context.Context, id model.PlayerID) error
}

var _ ServiceInterface = (*Service)(nil)
