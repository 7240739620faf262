package leaderboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/storage/memory"
	"github.com/mcoot/gamenight-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestEnsureEntriesCreatesAllKinds() {
	s.Require().NoError(s.service.EnsureEntries(s.ctx, "alice"))

	for _, kind := range model.AllGameKinds {
		entry, err := s.storage.GetLeaderboardEntry(s.ctx, kind, "alice")
		s.Require().NoError(err)
		s.Equal("alice", entry.DisplayName)
		s.Zero(entry.Wins)
		s.Zero(entry.Losses)
		s.Zero(entry.Draws)
		s.Zero(entry.Points)
	}
}

func (s *ServiceSuite) TestEnsureEntriesPreservesExistingStats() {
	s.Require().NoError(s.service.EnsureEntries(s.ctx, "alice"))
	s.Require().NoError(s.service.RecordWin(s.ctx, model.KindTicTacToe, "alice", 3))

	// Rejoining must not reset the record
	s.Require().NoError(s.service.EnsureEntries(s.ctx, "alice"))

	entry, err := s.storage.GetLeaderboardEntry(s.ctx, model.KindTicTacToe, "alice")
	s.Require().NoError(err)
	s.Equal(1, entry.Wins)
	s.Equal(3, entry.Points)
}

func (s *ServiceSuite) TestRecordWinAccumulates() {
	s.Require().NoError(s.service.RecordWin(s.ctx, model.KindBingo, "alice", 5))
	s.Require().NoError(s.service.RecordWin(s.ctx, model.KindBingo, "alice", 3))

	entry, err := s.storage.GetLeaderboardEntry(s.ctx, model.KindBingo, "alice")
	s.Require().NoError(err)
	s.Equal(2, entry.Wins)
	s.Equal(8, entry.Points)
}

func (s *ServiceSuite) TestRecordLossAddsNoPoints() {
	s.Require().NoError(s.service.RecordLoss(s.ctx, model.KindTicTacToe, "alice"))

	entry, err := s.storage.GetLeaderboardEntry(s.ctx, model.KindTicTacToe, "alice")
	s.Require().NoError(err)
	s.Equal(1, entry.Losses)
	s.Zero(entry.Points)
}

func (s *ServiceSuite) TestRecordDraw() {
	s.Require().NoError(s.service.RecordDraw(s.ctx, model.KindDotsBoxes, "alice", 1))

	entry, err := s.storage.GetLeaderboardEntry(s.ctx, model.KindDotsBoxes, "alice")
	s.Require().NoError(err)
	s.Equal(1, entry.Draws)
	s.Equal(1, entry.Points)
}

func (s *ServiceSuite) TestRecordCreatesEntryForUnknownName() {
	s.Require().NoError(s.service.RecordWin(s.ctx, model.KindTicTacToe, "ghost", 3))

	entry, err := s.storage.GetLeaderboardEntry(s.ctx, model.KindTicTacToe, "ghost")
	s.Require().NoError(err)
	s.Equal(1, entry.Wins)
}

func (s *ServiceSuite) TestTopSortsByPointsDescending() {
	s.Require().NoError(s.service.RecordWin(s.ctx, model.KindTicTacToe, "alice", 3))
	s.Require().NoError(s.service.RecordWin(s.ctx, model.KindTicTacToe, "bob", 6))
	s.Require().NoError(s.service.RecordDraw(s.ctx, model.KindTicTacToe, "carol", 1))

	top, err := s.service.Top(s.ctx, model.KindTicTacToe, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 3)
	s.Equal("bob", top[0].DisplayName)
	s.Equal("alice", top[1].DisplayName)
	s.Equal("carol", top[2].DisplayName)
}

func (s *ServiceSuite) TestTopBreaksTiesByInsertionOrder() {
	s.Require().NoError(s.service.EnsureEntries(s.ctx, "alice"))
	s.Require().NoError(s.service.EnsureEntries(s.ctx, "bob"))
	s.Require().NoError(s.service.RecordWin(s.ctx, model.KindTicTacToe, "alice", 3))
	s.Require().NoError(s.service.RecordWin(s.ctx, model.KindTicTacToe, "bob", 3))

	// Repeated snapshots must not shuffle tied entries
	for i := 0; i < 5; i++ {
		top, err := s.service.Top(s.ctx, model.KindTicTacToe, 10)
		s.Require().NoError(err)
		s.Require().Len(top, 2)
		s.Equal("alice", top[0].DisplayName)
		s.Equal("bob", top[1].DisplayName)
	}
}

func (s *ServiceSuite) TestTopLimitsEntries() {
	for i := 0; i < 15; i++ {
		name := fmt.Sprintf("player-%02d", i)
		s.Require().NoError(s.service.RecordWin(s.ctx, model.KindBingo, name, i))
	}

	top, err := s.service.Top(s.ctx, model.KindBingo, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 10)
	s.Equal("player-14", top[0].DisplayName)
	s.Equal("player-05", top[9].DisplayName)
}

func (s *ServiceSuite) TestTopEmptyBoard() {
	top, err := s.service.Top(s.ctx, model.KindBingo, 10)
	s.Require().NoError(err)
	s.Empty(top)
}
