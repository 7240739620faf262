package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamenight-go/internal/api/apierr"
	"github.com/mcoot/gamenight-go/internal/factory"
	"github.com/mcoot/gamenight-go/internal/model"
)

type APISuite struct {
	suite.Suite
	app    *factory.TestApp
	router http.Handler
	ctx    context.Context
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.router = NewRouter(RouterConfig{
		Logger:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Lobby:       s.app.Lobby,
		Leaderboard: s.app.Leaderboard,
		Gateway: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusSwitchingProtocols)
		}),
	})
	s.ctx = context.Background()
}

func (s *APISuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) join(id, name string) {
	_, err := s.app.Directory.Join(s.ctx, model.PlayerID(id), name)
	s.Require().NoError(err)
	s.Require().NoError(s.app.Leaderboard.EnsureEntries(s.ctx, name))
}

func (s *APISuite) TestHealth() {
	rec := s.get("/api/v1/health")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (s *APISuite) TestGetLobbyEmpty() {
	rec := s.get("/api/v1/lobby")
	s.Require().Equal(http.StatusOK, rec.Code)

	var snapshot model.LobbySnapshot
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &snapshot))
	s.Empty(snapshot.Players)
	s.Zero(snapshot.ActiveGames)
}

func (s *APISuite) TestGetLobbyListsPlayers() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.Require().NoError(s.app.Directory.SetInGame(s.ctx, "conn-2", model.KindTicTacToe))

	rec := s.get("/api/v1/lobby")
	s.Require().Equal(http.StatusOK, rec.Code)

	var snapshot model.LobbySnapshot
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &snapshot))
	s.Require().Len(snapshot.Players, 2)
	s.Equal("alice", snapshot.Players[0].Username)
	s.False(snapshot.Players[0].InGame)
	s.Equal("bob", snapshot.Players[1].Username)
	s.True(snapshot.Players[1].InGame)
	s.Len(snapshot.TTTLeaderboard, 2)
}

func (s *APISuite) TestGetLeaderboard() {
	s.join("conn-1", "alice")
	s.Require().NoError(s.app.Leaderboard.RecordWin(s.ctx, model.KindBingo, "alice", 5))

	rec := s.get("/api/v1/leaderboard/bingo")
	s.Require().Equal(http.StatusOK, rec.Code)

	var entries []model.LeaderboardEntry
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &entries))
	s.Require().Len(entries, 1)
	s.Equal("alice", entries[0].DisplayName)
	s.Equal(5, entries[0].Points)
}

func (s *APISuite) TestGetLeaderboardUnknownKind() {
	rec := s.get("/api/v1/leaderboard/chess")
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var resp apierr.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(apierr.CodeUnknownKind, resp.Error.Code)
}

func (s *APISuite) TestUnknownRouteNotFound() {
	rec := s.get("/api/v1/nonexistent")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestWebsocketRouteBypassesAPIChain() {
	rec := s.get("/ws")
	s.Equal(http.StatusSwitchingProtocols, rec.Code)
}
