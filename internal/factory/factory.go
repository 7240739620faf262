package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/gamenight-go/internal/dependencies/clock"
	"github.com/mcoot/gamenight-go/internal/dependencies/random"
	"github.com/mcoot/gamenight-go/internal/push"
	"github.com/mcoot/gamenight-go/internal/services/bingo"
	"github.com/mcoot/gamenight-go/internal/services/directory"
	"github.com/mcoot/gamenight-go/internal/services/dotsboxes"
	"github.com/mcoot/gamenight-go/internal/services/leaderboard"
	"github.com/mcoot/gamenight-go/internal/services/lobby"
	"github.com/mcoot/gamenight-go/internal/services/tictactoe"
	"github.com/mcoot/gamenight-go/internal/storage"
	"github.com/mcoot/gamenight-go/internal/storage/memory"
	redisstorage "github.com/mcoot/gamenight-go/internal/storage/redis"
	"github.com/mcoot/gamenight-go/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Transport
	Hub     *ws.Hub
	Gateway *ws.Gateway

	// Services
	Directory   *directory.Service
	Leaderboard *leaderboard.Service
	Lobby       *lobby.Broadcaster
	TicTacToe   *tictactoe.Service
	Bingo       *bingo.Service
	DotsBoxes   *dotsboxes.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()
	hub := ws.NewHub(logger)

	app := newWithDependencies(store, clk, rnd, hub, logger)
	app.Hub = hub
	app.Gateway = ws.NewGateway(
		hub,
		app.Directory,
		app.Leaderboard,
		app.Lobby,
		app.TicTacToe,
		app.Bingo,
		app.DotsBoxes,
		logger,
	)
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for
// testing with mocks). The lobby broadcaster is constructed before the
// engines and receives its activity counters afterwards.
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, notifier push.Notifier, logger *slog.Logger) *App {
	directoryService := directory.New(store, clk, logger)
	leaderboardService := leaderboard.New(store, logger)
	lobbyBroadcaster := lobby.New(directoryService, leaderboardService, notifier, clk, logger)

	tictactoeService := tictactoe.New(directoryService, leaderboardService, lobbyBroadcaster, notifier, clk, rnd, logger)
	bingoService := bingo.New(directoryService, leaderboardService, lobbyBroadcaster, notifier, clk, rnd, logger)
	dotsboxesService := dotsboxes.New(directoryService, leaderboardService, lobbyBroadcaster, notifier, clk, logger)

	lobbyBroadcaster.SetCounters(lobby.Counters{
		ActiveTTTGames: tictactoeService.ActiveGames,
		BingoPlayers:   bingoService.PlayerCount,
		DABQueueDepth:  dotsboxesService.QueueDepth,
	})

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Directory:   directoryService,
		Leaderboard: leaderboardService,
		Lobby:       lobbyBroadcaster,
		TicTacToe:   tictactoeService,
		Bingo:       bingoService,
		DotsBoxes:   dotsboxesService,
	}
}
