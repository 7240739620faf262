package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamenight-go/internal/dependencies/mocks"
	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/storage/memory"
	"github.com/mcoot/gamenight-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestJoinSucceeds() {
	player, err := s.service.Join(s.ctx, "conn-1", "alice")
	s.Require().NoError(err)

	s.Equal(model.PlayerID("conn-1"), player.ID)
	s.Equal("alice", player.DisplayName)
	s.False(player.InGame)
	s.Equal(s.clock.Now(), player.JoinedAt)
}

func (s *ServiceSuite) TestJoinTrimsWhitespace() {
	player, err := s.service.Join(s.ctx, "conn-1", "  alice  ")
	s.Require().NoError(err)
	s.Equal("alice", player.DisplayName)
}

func (s *ServiceSuite) TestJoinRejectsEmptyName() {
	_, err := s.service.Join(s.ctx, "conn-1", "   ")
	s.Require().ErrorIs(err, model.ErrInvalidName)
}

func (s *ServiceSuite) TestJoinRejectsTakenName() {
	_, err := s.service.Join(s.ctx, "conn-1", "alice")
	s.Require().NoError(err)

	_, err = s.service.Join(s.ctx, "conn-2", "alice")
	s.Require().ErrorIs(err, model.ErrNameTaken)
}

func (s *ServiceSuite) TestJoinRejectsNameTakenAfterTrim() {
	_, err := s.service.Join(s.ctx, "conn-1", "alice")
	s.Require().NoError(err)

	_, err = s.service.Join(s.ctx, "conn-2", " alice ")
	s.Require().ErrorIs(err, model.ErrNameTaken)
}

func (s *ServiceSuite) TestNameFreedAfterLeave() {
	_, err := s.service.Join(s.ctx, "conn-1", "alice")
	s.Require().NoError(err)
	s.Require().NoError(s.service.Leave(s.ctx, "conn-1"))

	_, err = s.service.Join(s.ctx, "conn-2", "alice")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestLeaveUnknownIsNoop() {
	s.Require().NoError(s.service.Leave(s.ctx, "nope"))
}

func (s *ServiceSuite) TestGetUnknownFails() {
	_, err := s.service.Get(s.ctx, "nope")
	s.Require().ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestListReturnsJoinOrder() {
	_, err := s.service.Join(s.ctx, "conn-1", "alice")
	s.Require().NoError(err)
	_, err = s.service.Join(s.ctx, "conn-2", "bob")
	s.Require().NoError(err)

	players, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal("alice", players[0].DisplayName)
	s.Equal("bob", players[1].DisplayName)
}

func (s *ServiceSuite) TestSetAndClearInGame() {
	_, err := s.service.Join(s.ctx, "conn-1", "alice")
	s.Require().NoError(err)

	s.Require().NoError(s.service.SetInGame(s.ctx, "conn-1", model.KindTicTacToe))
	player, err := s.service.Get(s.ctx, "conn-1")
	s.Require().NoError(err)
	s.True(player.InGame)
	s.Equal(model.KindTicTacToe, player.CurrentGame)

	s.Require().NoError(s.service.ClearInGame(s.ctx, "conn-1"))
	player, err = s.service.Get(s.ctx, "conn-1")
	s.Require().NoError(err)
	s.False(player.InGame)
	s.Empty(player.CurrentGame)
}

func (s *ServiceSuite) TestClearInGameUnknownIsNoop() {
	s.Require().NoError(s.service.ClearInGame(s.ctx, "nope"))
}

func (s *ServiceSuite) TestAvailableExcludesOccupiedPlayers() {
	_, err := s.service.Join(s.ctx, "conn-1", "alice")
	s.Require().NoError(err)
	_, err = s.service.Join(s.ctx, "conn-2", "bob")
	s.Require().NoError(err)
	s.Require().NoError(s.service.SetInGame(s.ctx, "conn-1", model.KindBingo))

	available, err := s.service.Available(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(available, 1)
	s.Equal("bob", available[0].DisplayName)
}
