package lobby

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/gamenight-go/internal/dependencies/clock"
	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/push"
	"github.com/mcoot/gamenight-go/internal/services/directory"
	"github.com/mcoot/gamenight-go/internal/services/leaderboard"
)

const (
	topEntries    = 10
	maxChatLength = 150
)

// Counters expose per-engine activity figures to the snapshot without the
// broadcaster importing the engines. The factory wires these after engine
// construction.
type Counters struct {
	ActiveTTTGames func() int
	BingoPlayers   func() int
	DABQueueDepth  func() int
}

// Broadcaster assembles lobby snapshots and pushes them to every connected
// client. Engines call Refresh after any state change a lobby watcher can
// observe.
type Broadcaster struct {
	directory   directory.ServiceInterface
	leaderboard leaderboard.ServiceInterface
	notifier    push.Notifier
	clock       clock.Clock
	logger      *slog.Logger
	counters    Counters
}

// New creates a new lobby Broadcaster
func New(
	directory directory.ServiceInterface,
	leaderboard leaderboard.ServiceInterface,
	notifier push.Notifier,
	clock clock.Clock,
	logger *slog.Logger,
) *Broadcaster {
	return &Broadcaster{
		directory:   directory,
		leaderboard: leaderboard,
		notifier:    notifier,
		clock:       clock,
		logger:      logger.With(slog.String("component", "lobby")),
	}
}

// SetCounters attaches the engine activity counters. Must be called before
// the first Refresh; nil counters report zero.
func (b *Broadcaster) SetCounters(c Counters) {
	b.counters = c
}

// Snapshot assembles the current lobby view
func (b *Broadcaster) Snapshot(ctx context.Context) (*model.LobbySnapshot, error) {
	players, err := b.directory.List(ctx)
	if err != nil {
		return nil, err
	}
	roster := make([]model.LobbyPlayer, 0, len(players))
	for _, p := range players {
		roster = append(roster, model.LobbyPlayer{
			Username: p.DisplayName,
			InGame:   p.InGame,
		})
	}

	ttt, err := b.leaderboard.Top(ctx, model.KindTicTacToe, topEntries)
	if err != nil {
		return nil, err
	}
	bingo, err := b.leaderboard.Top(ctx, model.KindBingo, topEntries)
	if err != nil {
		return nil, err
	}
	dab, err := b.leaderboard.Top(ctx, model.KindDotsBoxes, topEntries)
	if err != nil {
		return nil, err
	}

	snapshot := &model.LobbySnapshot{
		Players:          roster,
		TTTLeaderboard:   ttt,
		BingoLeaderboard: bingo,
		DABLeaderboard:   dab,
	}
	if b.counters.ActiveTTTGames != nil {
		snapshot.ActiveGames = b.counters.ActiveTTTGames()
	}
	if b.counters.BingoPlayers != nil {
		snapshot.BingoPlayers = b.counters.BingoPlayers()
	}
	if b.counters.DABQueueDepth != nil {
		snapshot.DABQueue = b.counters.DABQueueDepth()
	}
	return snapshot, nil
}

// Refresh broadcasts a fresh snapshot to all connected clients
func (b *Broadcaster) Refresh(ctx context.Context) error {
	snapshot, err := b.Snapshot(ctx)
	if err != nil {
		b.logger.Error("failed to assemble lobby snapshot", slog.Any("error", err))
		return err
	}
	b.notifier.Broadcast(ctx, model.NewEvent(model.EventLobbyUpdate, snapshot))
	return nil
}

// SendChat relays a lobby chat message from the given player. Empty messages
// are dropped; long messages are truncated.
func (b *Broadcaster) SendChat(ctx context.Context, from model.PlayerID, message string) error {
	player, err := b.directory.Get(ctx, from)
	if err != nil {
		return err
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		return nil
	}
	if runes := []rune(msg); len(runes) > maxChatLength {
		msg = string(runes[:maxChatLength])
	}

	b.notifier.Broadcast(ctx, model.NewEvent(model.EventChatMessage, &model.ChatMessagePayload{
		Username:  player.DisplayName,
		Message:   msg,
		Timestamp: b.clock.Now().UnixMilli(),
	}))
	return nil
}

// Interface for dependency injection
type BroadcasterInterface interface {
	SetCounters(c Counters)
	Snapshot(ctx context.Context) (*model.LobbySnapshot, error)
	Refresh(ctx context.Context) error
	SendChat(ctx context.Context, from model.PlayerID, message string) error
}

var _ BroadcasterInterface = (*Broadcaster)(nil)
