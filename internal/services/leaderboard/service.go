package leaderboard

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/storage"
)

// Service tracks per-game-kind standings keyed by display name. Records
// persist across disconnects so a returning player resumes their stats.
type Service struct {
	mu      sync.Mutex
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new leaderboard Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "leaderboard")),
	}
}

// EnsureEntries creates zeroed entries for the name under every game kind
// if none exist yet. Called when a player joins so the boards always show
// everyone who has ever connected.
func (s *Service) EnsureEntries(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, kind := range model.AllGameKinds {
		_, err := s.storage.GetLeaderboardEntry(ctx, kind, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, model.ErrEntryNotFound) {
			return err
		}
		entry := &model.LeaderboardEntry{DisplayName: name}
		if err := s.storage.SaveLeaderboardEntry(ctx, kind, entry); err != nil {
			return err
		}
	}
	return nil
}

// RecordWin adds a win and the given points to the name's entry
func (s *Service) RecordWin(ctx context.Context, kind model.GameKind, name string, points int) error {
	return s.update(ctx, kind, name, func(e *model.LeaderboardEntry) {
		e.Wins++
		e.Points += points
	})
}

// RecordLoss adds a loss to the name's entry
func (s *Service) RecordLoss(ctx context.Context, kind model.GameKind, name string) error {
	return s.update(ctx, kind, name, func(e *model.LeaderboardEntry) {
		e.Losses++
	})
}

// RecordDraw adds a draw and the given points to the name's entry
func (s *Service) RecordDraw(ctx context.Context, kind model.GameKind, name string, points int) error {
	return s.update(ctx, kind, name, func(e *model.LeaderboardEntry) {
		e.Draws++
		e.Points += points
	})
}

func (s *Service) update(ctx context.Context, kind model.GameKind, name string, apply func(*model.LeaderboardEntry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.storage.GetLeaderboardEntry(ctx, kind, name)
	if errors.Is(err, model.ErrEntryNotFound) {
		entry = &model.LeaderboardEntry{DisplayName: name}
	} else if err != nil {
		return err
	}
	apply(entry)
	return s.storage.SaveLeaderboardEntry(ctx, kind, entry)
}

// Top returns up to n entries for the kind sorted by points descending.
// Ties keep first-recorded order, so standings don't shuffle between
// snapshots.
func (s *Service) Top(ctx context.Context, kind model.GameKind, n int) ([]*model.LeaderboardEntry, error) {
	entries, err := s.storage.ListLeaderboard(ctx, kind)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	EnsureEntries(ctx context.Context, name string) error
	RecordWin(ctx context.Context, kind model.GameKind, name string, points int) error
	RecordLoss(ctx context.Context, kind model.GameKind, name string) error
	RecordDraw(ctx context.Context, kind model.GameKind, name string, points int) error
	Top(ctx context.Context, kind model.GameKind, n int) ([]*model.LeaderboardEntry, error)
}

var _ ServiceInterface = (*Service)(nil)
