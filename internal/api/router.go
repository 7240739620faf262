package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamenight-go/internal/api/handler"
	apimiddleware "github.com/mcoot/gamenight-go/internal/api/middleware"
	"github.com/mcoot/gamenight-go/internal/middleware"
	"github.com/mcoot/gamenight-go/internal/services/leaderboard"
	"github.com/mcoot/gamenight-go/internal/services/lobby"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Lobby       lobby.BroadcasterInterface
	Leaderboard leaderboard.ServiceInterface

	// Gateway handles websocket upgrades on /ws
	Gateway http.Handler
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	lobbyHandler := handler.NewLobbyHandler(cfg.Lobby, cfg.Leaderboard)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/lobby", lobbyHandler.GetLobby).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard/{kind}", lobbyHandler.GetLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Game traffic runs over the websocket, outside the API middleware chain
	r.Handle("/ws", cfg.Gateway)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
