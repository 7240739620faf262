package memory

import (
	"context"
	"sync"

	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players   map[model.PlayerID]*model.Player
	nameIndex map[string]model.PlayerID
	// insertion order of player ids, for a stable roster listing
	playerOrder []model.PlayerID

	entries map[model.GameKind]map[string]*model.LeaderboardEntry
	// first-seen order of display names per kind
	entryOrder map[model.GameKind][]string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:    make(map[model.PlayerID]*model.Player),
		nameIndex:  make(map[string]model.PlayerID),
		entries:    make(map[model.GameKind]map[string]*model.LeaderboardEntry),
		entryOrder: make(map[model.GameKind][]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.players[player.ID]; !exists {
		s.playerOrder = append(s.playerOrder, player.ID)
	}
	s.players[player.ID] = player
	s.nameIndex[player.DisplayName] = player.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, displayName string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.nameIndex[displayName]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, id := range s.playerOrder {
		if p, ok := s.players[id]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return nil
	}
	delete(s.players, id)
	if s.nameIndex[player.DisplayName] == id {
		delete(s.nameIndex, player.DisplayName)
	}
	for i, pid := range s.playerOrder {
		if pid == id {
			s.playerOrder = append(s.playerOrder[:i], s.playerOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Leaderboard operations

func (s *Storage) SaveLeaderboardEntry(ctx context.Context, kind model.GameKind, entry *model.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byName, ok := s.entries[kind]
	if !ok {
		byName = make(map[string]*model.LeaderboardEntry)
		s.entries[kind] = byName
	}
	if _, exists := byName[entry.DisplayName]; !exists {
		s.entryOrder[kind] = append(s.entryOrder[kind], entry.DisplayName)
	}
	byName[entry.DisplayName] = entry
	return nil
}

func (s *Storage) GetLeaderboardEntry(ctx context.Context, kind model.GameKind, displayName string) (*model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[kind][displayName]
	if !ok {
		return nil, model.ErrEntryNotFound
	}
	return entry, nil
}

func (s *Storage) ListLeaderboard(ctx context.Context, kind model.GameKind) ([]*model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := s.entryOrder[kind]
	entries := make([]*model.LeaderboardEntry, 0, len(names))
	for _, name := range names {
		if e, ok := s.entries[kind][name]; ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
