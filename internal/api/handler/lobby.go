package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamenight-go/internal/api/apierr"
	"github.com/mcoot/gamenight-go/internal/api/response"
	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/services/leaderboard"
	"github.com/mcoot/gamenight-go/internal/services/lobby"
)

const leaderboardLimit = 10

// LobbyHandler serves read-only views of the lobby and leaderboards. All
// mutation happens over the websocket channel; these endpoints exist for
// dashboards and the CLI.
type LobbyHandler struct {
	lobby       lobby.BroadcasterInterface
	leaderboard leaderboard.ServiceInterface
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(lobby lobby.BroadcasterInterface, leaderboard leaderboard.ServiceInterface) *LobbyHandler {
	return &LobbyHandler{
		lobby:       lobby,
		leaderboard: leaderboard,
	}
}

// GetLobby returns the current lobby snapshot
func (h *LobbyHandler) GetLobby(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.lobby.Snapshot(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, snapshot)
}

// GetLeaderboard returns the top entries for one game kind
func (h *LobbyHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	kind := model.GameKind(mux.Vars(r)["kind"])
	if !model.ValidGameKind(kind) {
		apierr.WriteError(w, model.ErrUnknownKind)
		return
	}

	entries, err := h.leaderboard.Top(r.Context(), kind, leaderboardLimit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, entries)
}
