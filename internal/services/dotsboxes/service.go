package dotsboxes

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/gamenight-go/internal/dependencies/clock"
	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/push"
	"github.com/mcoot/gamenight-go/internal/services/directory"
	"github.com/mcoot/gamenight-go/internal/services/leaderboard"
	"github.com/mcoot/gamenight-go/internal/services/lobby"
)

const (
	winPoints  = 3
	drawPoints = 1

	defaultGridSize = 4

	// Finished rooms linger so all clients receive the final state before
	// the record disappears.
	roomLinger = 5 * time.Second
)

// queueEntry is one waiting player with their preferred grid size
type queueEntry struct {
	id       model.PlayerID
	username string
	gridSize int
}

// Service is the dots-and-boxes engine: a FIFO queue of waiting players and
// the set of running rooms. One mutex guards both.
type Service struct {
	mu    sync.Mutex
	queue []queueEntry
	rooms map[model.GameID]*model.DotsBoxesRoom

	directory   directory.ServiceInterface
	leaderboard leaderboard.ServiceInterface
	lobby       lobby.BroadcasterInterface
	notifier    push.Notifier
	clock       clock.Clock
	logger      *slog.Logger
}

// New creates a new dots-and-boxes Service
func New(
	directory directory.ServiceInterface,
	leaderboard leaderboard.ServiceInterface,
	lobby lobby.BroadcasterInterface,
	notifier push.Notifier,
	clock clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		rooms:       make(map[model.GameID]*model.DotsBoxesRoom),
		directory:   directory,
		leaderboard: leaderboard,
		lobby:       lobby,
		notifier:    notifier,
		clock:       clock,
		logger:      logger.With(slog.String("component", "dotsboxes")),
	}
}

// QueueDepth returns the number of waiting players
func (s *Service) QueueDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// JoinQueue appends the player to the waiting queue. Rejoining moves the
// player to the back rather than duplicating the entry. Players already in
// a game are ignored.
func (s *Service) JoinQueue(ctx context.Context, id model.PlayerID, gridSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.directory.Get(ctx, id)
	if err != nil || player.InGame {
		return nil
	}

	s.dropFromQueue(id)
	if gridSize == 0 {
		gridSize = defaultGridSize
	}
	s.queue = append(s.queue, queueEntry{id: id, username: player.DisplayName, gridSize: gridSize})

	s.notifier.SendTo(ctx, id, model.NewEvent(model.EventDABQueued, &model.DABQueuedPayload{
		Position: len(s.queue),
	}))
	s.lobby.Refresh(ctx)

	s.logger.Info("player queued",
		slog.String("username", player.DisplayName),
		slog.Int("depth", len(s.queue)),
	)
	return nil
}

// CancelQueue removes the player from the waiting queue
func (s *Service) CancelQueue(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropFromQueue(id)
	s.notifier.SendTo(ctx, id, model.NewEvent(model.EventDABQueueCancelled, nil))
	s.lobby.Refresh(ctx)
	return nil
}

// StartWithQueue starts a room with the requester plus waiting players in
// queue order, up to maxPlayers. Grid size clamps to [3,7] and party size to
// [2,4]; queued players who went into another game are skipped. Fewer than
// two gathered players is an error.
func (s *Service) StartWithQueue(ctx context.Context, id model.PlayerID, gridSize, maxPlayers int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	requester, err := s.directory.Get(ctx, id)
	if err != nil {
		return nil
	}

	if gridSize == 0 {
		gridSize = defaultGridSize
	}
	gs := clamp(gridSize, model.DotsBoxesMinGrid, model.DotsBoxesMaxGrid)
	if maxPlayers == 0 {
		maxPlayers = model.DotsBoxesMinPlayers
	}
	mp := clamp(maxPlayers, model.DotsBoxesMinPlayers, model.DotsBoxesMaxPlayers)

	gathered := []queueEntry{{id: id, username: requester.DisplayName}}
	for _, entry := range s.queue {
		if len(gathered) >= mp {
			break
		}
		if entry.id == id {
			continue
		}
		waiting, err := s.directory.Get(ctx, entry.id)
		if err != nil || waiting.InGame {
			continue
		}
		gathered = append(gathered, entry)
	}

	if len(gathered) < model.DotsBoxesMinPlayers {
		return model.ErrInsufficientPlayers
	}

	for _, entry := range gathered {
		s.dropFromQueue(entry.id)
	}
	return s.startGame(ctx, gathered, gs)
}

// DrawLine claims an undrawn line for the turn-holder. Completing one or
// more boxes scores them and retains the turn; otherwise the turn passes.
// The game ends when every box is owned.
func (s *Service) DrawLine(ctx context.Context, id model.PlayerID, roomID model.GameID, line model.LineKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok || room.Finished {
		return nil
	}
	current := room.CurrentPlayer()
	if current.ID != id {
		return nil
	}
	if !line.InBounds(room.GridSize) {
		return nil
	}
	if _, drawn := room.Lines[line]; drawn {
		return nil
	}

	owner := model.LineOwner{
		PlayerID:    id,
		DisplayName: current.DisplayName,
		Color:       current.Color,
	}
	room.Lines[line] = owner

	completed := room.CompletedBy(line)
	for _, box := range completed {
		room.Boxes[box] = owner
		current.Score++
	}

	if len(room.Boxes) >= room.TotalBoxes() {
		return s.endGame(ctx, room)
	}
	if len(completed) == 0 {
		room.CurrentIdx = (room.CurrentIdx + 1) % len(room.Players)
	}
	s.broadcastState(ctx, room)
	return nil
}

// LeaveRoom tears down any room the player is in
func (s *Service) LeaveRoom(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removePlayer(ctx, id)
	return nil
}

// HandleDisconnect removes the player from the queue and tears down any
// room they were in
func (s *Service) HandleDisconnect(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropFromQueue(id)
	s.removePlayer(ctx, id)
	return nil
}

// startGame creates a room with the gathered players in queue order, the
// requester first. Colors follow turn order. Caller holds the mutex.
func (s *Service) startGame(ctx context.Context, gathered []queueEntry, gridSize int) error {
	room := &model.DotsBoxesRoom{
		ID:       model.GameID("dab_" + uuid.NewString()),
		GridSize: gridSize,
		Lines:    make(map[model.LineKey]model.LineOwner),
		Boxes:    make(map[model.BoxKey]model.LineOwner),
	}
	for i, entry := range gathered {
		room.Players = append(room.Players, model.DotsBoxesPlayer{
			ID:          entry.id,
			DisplayName: entry.username,
			Color:       model.DotsBoxesColors[i],
		})
		if err := s.directory.SetInGame(ctx, entry.id, model.KindDotsBoxes); err != nil {
			return err
		}
	}
	s.rooms[room.ID] = room

	roster := playerStates(room.Players)
	for i, p := range room.Players {
		s.notifier.SendTo(ctx, p.ID, model.NewEvent(model.EventDABGameStart, &model.DABGameStartPayload{
			RoomID:             room.ID,
			GridSize:           room.GridSize,
			PlayerOrder:        roster,
			YourIndex:          i,
			YourColor:          p.Color,
			CurrentPlayerIndex: 0,
		}))
	}
	s.lobby.Refresh(ctx)

	s.logger.Info("room started",
		slog.String("room_id", string(room.ID)),
		slog.Int("grid_size", gridSize),
		slog.Int("players", len(room.Players)),
	)
	return nil
}

// broadcastState sends the full room state to every participant.
// Caller holds the mutex.
func (s *Service) broadcastState(ctx context.Context, room *model.DotsBoxesRoom) {
	lines := make([]model.DABLineState, 0, len(room.Lines))
	for key, owner := range room.Lines {
		lines = append(lines, model.DABLineState{
			Orientation: key.Orientation,
			Row:         key.Row,
			Col:         key.Col,
			Username:    owner.DisplayName,
			Color:       owner.Color,
		})
	}
	boxes := make([]model.DABBoxState, 0, len(room.Boxes))
	for key, owner := range room.Boxes {
		boxes = append(boxes, model.DABBoxState{
			Row:      key.Row,
			Col:      key.Col,
			Username: owner.DisplayName,
			Color:    owner.Color,
		})
	}

	state := &model.DABGameUpdatePayload{
		RoomID:             room.ID,
		Lines:              lines,
		Boxes:              boxes,
		CurrentPlayerIndex: room.CurrentIdx,
		Scores:             playerStates(room.Players),
	}
	for _, p := range room.Players {
		s.notifier.SendTo(ctx, p.ID, model.NewEvent(model.EventDABGameUpdate, state))
	}
}

// endGame ranks players by score, records results, frees everyone, and
// schedules the room for removal after the linger period. A tie at the top
// score is a shared-win draw. Caller holds the mutex.
func (s *Service) endGame(ctx context.Context, room *model.DotsBoxesRoom) error {
	room.Finished = true

	ranked := make([]model.DotsBoxesPlayer, len(room.Players))
	copy(ranked, room.Players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	topScore := ranked[0].Score
	var winners []model.DotsBoxesPlayer
	for _, p := range ranked {
		if p.Score == topScore {
			winners = append(winners, p)
		}
	}
	isDraw := len(winners) > 1

	for _, p := range room.Players {
		var err error
		switch {
		case isDraw && p.Score == topScore:
			err = s.leaderboard.RecordDraw(ctx, model.KindDotsBoxes, p.DisplayName, drawPoints)
		case !isDraw && p.ID == winners[0].ID:
			err = s.leaderboard.RecordWin(ctx, model.KindDotsBoxes, p.DisplayName, winPoints)
		default:
			err = s.leaderboard.RecordLoss(ctx, model.KindDotsBoxes, p.DisplayName)
		}
		if err != nil {
			return err
		}
		if err := s.directory.ClearInGame(ctx, p.ID); err != nil {
			return err
		}
	}

	winnerNames := make([]string, 0, len(winners))
	for _, w := range winners {
		winnerNames = append(winnerNames, w.DisplayName)
	}
	result := &model.DABGameEndPayload{
		Finished: true,
		Scores:   playerStates(ranked),
		Winners:  winnerNames,
		IsDraw:   isDraw,
	}
	for _, p := range room.Players {
		s.notifier.SendTo(ctx, p.ID, model.NewEvent(model.EventDABGameEnd, result))
	}

	roomID := room.ID
	s.clock.AfterFunc(roomLinger, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.rooms, roomID)
	})

	s.lobby.Refresh(ctx)

	s.logger.Info("room finished",
		slog.String("room_id", string(room.ID)),
		slog.Bool("draw", isDraw),
	)
	return nil
}

// removePlayer tears down any room containing the player: the remaining
// participants are notified and freed and the room is destroyed immediately,
// with no leaderboard changes. Caller holds the mutex.
func (s *Service) removePlayer(ctx context.Context, id model.PlayerID) {
	for roomID, room := range s.rooms {
		if !room.HasPlayer(id) {
			continue
		}
		for _, p := range room.Players {
			if p.ID != id {
				s.notifier.SendTo(ctx, p.ID, model.NewEvent(model.EventDABPlayerLeft, &model.DABPlayerLeftPayload{
					Message: "A player left the game",
				}))
			}
			if err := s.directory.ClearInGame(ctx, p.ID); err != nil {
				s.logger.Error("failed to free player",
					slog.String("player_id", string(p.ID)),
					slog.Any("error", err),
				)
			}
		}
		delete(s.rooms, roomID)
	}
}

// dropFromQueue removes the player's queue entry if present.
// Caller holds the mutex.
func (s *Service) dropFromQueue(id model.PlayerID) {
	for i, entry := range s.queue {
		if entry.id == id {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

func playerStates(players []model.DotsBoxesPlayer) []model.DABPlayerState {
	out := make([]model.DABPlayerState, 0, len(players))
	for _, p := range players {
		out = append(out, model.DABPlayerState{
			Username: p.DisplayName,
			Color:    p.Color,
			Score:    p.Score,
		})
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Interface for dependency injection
type ServiceInterface interface {
	QueueDepth() int
	JoinQueue(ctx context.Context, id model.PlayerID, gridSize int) error
	CancelQueue(ctx context.Context, id model.PlayerID) error
	StartWithQueue(ctx context.Context, id model.PlayerID, gridSize, maxPlayers int) error
	DrawLine(ctx context.Context, id model.PlayerID, roomID model.GameID, line model.LineKey) error
	LeaveRoom(ctx context.Context, id model.PlayerID) error
	HandleDisconnect(ctx context.Context, id model.PlayerID) error
}

var _ ServiceInterface = (*Service)(nil)
