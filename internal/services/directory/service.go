package directory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/gamenight-go/internal/dependencies/clock"
	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/storage"
)

// Service is the player directory: the single owner of connected-player
// records. Games hold only PlayerIDs and resolve them here. The mutex
// serializes read-modify-write sequences (join uniqueness, occupancy flips)
// so each directory action is atomic.
type Service struct {
	mu      sync.Mutex
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new directory Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "directory")),
	}
}

// Join registers a connection under a display name. The name is trimmed,
// must be non-empty, and must not match any connected player's name
// (case-sensitive).
func (s *Service) Join(ctx context.Context, id model.PlayerID, username string) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(username)
	if name == "" {
		return nil, model.ErrInvalidName
	}

	if _, err := s.storage.GetPlayerByName(ctx, name); err == nil {
		return nil, model.ErrNameTaken
	} else if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	player := &model.Player{
		ID:          id,
		DisplayName: name,
		JoinedAt:    s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player joined",
		slog.String("player_id", string(id)),
		slog.String("username", name),
	)

	return player, nil
}

// Leave removes the player record; unknown ids are a no-op
func (s *Service) Leave(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil
		}
		return err
	}

	if err := s.storage.DeletePlayer(ctx, id); err != nil {
		return err
	}

	s.logger.Info("player left",
		slog.String("player_id", string(id)),
		slog.String("username", player.DisplayName),
	)
	return nil
}

// Get retrieves a player by connection id
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// List returns all connected players in join order
func (s *Service) List(ctx context.Context) ([]*model.Player, error) {
	return s.storage.ListPlayers(ctx)
}

// Available returns all connected players not currently in a game
func (s *Service) Available(ctx context.Context) ([]*model.Player, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]*model.Player, 0, len(players))
	for _, p := range players {
		if !p.InGame {
			available = append(available, p)
		}
	}
	return available, nil
}

// SetInGame marks a player as occupied by the given game kind
func (s *Service) SetInGame(ctx context.Context, id model.PlayerID, kind model.GameKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return err
	}
	player.InGame = true
	player.CurrentGame = kind
	return s.storage.SavePlayer(ctx, player)
}

// ClearInGame frees a player; unknown ids (already disconnected) are a no-op
func (s *Service) ClearInGame(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil
		}
		return err
	}
	player.InGame = false
	player.CurrentGame = ""
	return s.storage.SavePlayer(ctx, player)
}

// Interface for dependency injection
type ServiceInterface interface {
	Join(ctx context.Context, id model.PlayerID, username string) (*model.Player, error)
	Leave(ctx context.Context, id model.PlayerID) error
	Get(ctx context.Context, id model.PlayerID) (*model.Player, error)
	List(ctx context.Context) ([]*model.Player, error)
	Available(ctx context.Context) ([]*model.Player, error)
	SetInGame(ctx context.Context, id model.PlayerID, kind model.GameKind) error
	ClearInGame(ctx context.Context, id model.PlayerID) error
}

var _ ServiceInterface = (*Service)(nil)
