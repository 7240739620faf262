package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	key := playerKey(player.ID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, s.cfg.PlayerTTL)
	pipe.Set(ctx, playerNameIndexKey(player.DisplayName), string(player.ID), s.cfg.PlayerTTL)
	if exists == 0 {
		pipe.RPush(ctx, playerOrderKey(), string(player.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, displayName string) (*model.Player, error) {
	id, err := s.client.Get(ctx, playerNameIndexKey(displayName)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetPlayer(ctx, model.PlayerID(id))
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.LRange(ctx, playerOrderKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(ids))
	for _, id := range ids {
		player, err := s.GetPlayer(ctx, model.PlayerID(id))
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				// Expired record still listed in the index
				continue
			}
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.Del(ctx, playerNameIndexKey(player.DisplayName))
	pipe.LRem(ctx, playerOrderKey(), 0, string(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Leaderboard operations

func (s *Storage) SaveLeaderboardEntry(ctx context.Context, kind model.GameKind, entry *model.LeaderboardEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := entryKey(kind, entry.DisplayName)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	// Leaderboard history is kept forever; no TTL
	pipe.Set(ctx, key, data, 0)
	if exists == 0 {
		pipe.RPush(ctx, entryOrderKey(kind), entry.DisplayName)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetLeaderboardEntry(ctx context.Context, kind model.GameKind, displayName string) (*model.LeaderboardEntry, error) {
	data, err := s.client.Get(ctx, entryKey(kind, displayName)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEntryNotFound
		}
		return nil, err
	}

	var entry model.LeaderboardEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Storage) ListLeaderboard(ctx context.Context, kind model.GameKind) ([]*model.LeaderboardEntry, error) {
	names, err := s.client.LRange(ctx, entryOrderKey(kind), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*model.LeaderboardEntry, 0, len(names))
	for _, name := range names {
		entry, err := s.GetLeaderboardEntry(ctx, kind, name)
		if err != nil {
			if errors.Is(err, model.ErrEntryNotFound) {
				continue
			}
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
