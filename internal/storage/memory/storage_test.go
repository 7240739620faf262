package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamenight-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "conn-1",
		DisplayName: "alice",
		JoinedAt:    time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "conn-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetPlayerByName() {
	player := &model.Player{ID: "conn-1", DisplayName: "alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	retrieved, err := s.storage.GetPlayerByName(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("conn-1"), retrieved.ID)
}

func (s *StorageSuite) TestGetPlayerByNameNotFound() {
	_, err := s.storage.GetPlayerByName(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestListPlayersPreservesInsertionOrder() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "conn-1", DisplayName: "alice"})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "conn-2", DisplayName: "bob"})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "conn-3", DisplayName: "carol"})

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("alice", players[0].DisplayName)
	s.Equal("bob", players[1].DisplayName)
	s.Equal("carol", players[2].DisplayName)
}

func (s *StorageSuite) TestResaveDoesNotDuplicateListing() {
	player := &model.Player{ID: "conn-1", DisplayName: "alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	player.InGame = true
	_ = s.storage.SavePlayer(s.ctx, player)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.True(players[0].InGame)
}

func (s *StorageSuite) TestDeletePlayer() {
	player := &model.Player{ID: "conn-1", DisplayName: "alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	err := s.storage.DeletePlayer(s.ctx, "conn-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "conn-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetPlayerByName(s.ctx, "alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestDeletePlayerFreesName() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "conn-1", DisplayName: "alice"})
	_ = s.storage.DeletePlayer(s.ctx, "conn-1")

	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "conn-2", DisplayName: "alice"})

	retrieved, err := s.storage.GetPlayerByName(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("conn-2"), retrieved.ID)
}

func (s *StorageSuite) TestDeleteUnknownPlayerIsNoop() {
	err := s.storage.DeletePlayer(s.ctx, "nonexistent")
	s.Require().NoError(err)
}

// Leaderboard tests

func (s *StorageSuite) TestSaveAndGetLeaderboardEntry() {
	entry := &model.LeaderboardEntry{DisplayName: "alice", Wins: 2, Points: 6}

	err := s.storage.SaveLeaderboardEntry(s.ctx, model.KindTicTacToe, entry)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetLeaderboardEntry(s.ctx, model.KindTicTacToe, "alice")
	s.Require().NoError(err)
	s.Equal(2, retrieved.Wins)
	s.Equal(6, retrieved.Points)
}

func (s *StorageSuite) TestGetLeaderboardEntryNotFound() {
	_, err := s.storage.GetLeaderboardEntry(s.ctx, model.KindTicTacToe, "nonexistent")
	s.ErrorIs(err, model.ErrEntryNotFound)
}

func (s *StorageSuite) TestLeaderboardsAreIndependentPerKind() {
	entry := &model.LeaderboardEntry{DisplayName: "alice", Points: 6}
	_ = s.storage.SaveLeaderboardEntry(s.ctx, model.KindTicTacToe, entry)

	_, err := s.storage.GetLeaderboardEntry(s.ctx, model.KindBingo, "alice")
	s.ErrorIs(err, model.ErrEntryNotFound)
}

func (s *StorageSuite) TestListLeaderboardPreservesFirstSeenOrder() {
	_ = s.storage.SaveLeaderboardEntry(s.ctx, model.KindBingo, &model.LeaderboardEntry{DisplayName: "alice"})
	_ = s.storage.SaveLeaderboardEntry(s.ctx, model.KindBingo, &model.LeaderboardEntry{DisplayName: "bob"})
	_ = s.storage.SaveLeaderboardEntry(s.ctx, model.KindBingo, &model.LeaderboardEntry{DisplayName: "alice", Wins: 1})

	entries, err := s.storage.ListLeaderboard(s.ctx, model.KindBingo)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("alice", entries[0].DisplayName)
	s.Equal(1, entries[0].Wins)
	s.Equal("bob", entries[1].DisplayName)
}

func (s *StorageSuite) TestListLeaderboardEmpty() {
	entries, err := s.storage.ListLeaderboard(s.ctx, model.KindDotsBoxes)
	s.Require().NoError(err)
	s.Empty(entries)
}
