package bingo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamenight-go/internal/dependencies/mocks"
	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/services/directory"
	"github.com/mcoot/gamenight-go/internal/services/leaderboard"
	"github.com/mcoot/gamenight-go/internal/services/lobby"
	"github.com/mcoot/gamenight-go/internal/storage/memory"
	"github.com/mcoot/gamenight-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	directory   *directory.Service
	leaderboard *leaderboard.Service
	notifier    *mocks.MockNotifier
	clock       *mocks.MockClock
	random      *mocks.MockRandom
	service     *Service
	ctx         context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	store := memory.New()
	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.notifier = mocks.NewMockNotifier()
	s.directory = directory.New(store, s.clock, logger)
	s.leaderboard = leaderboard.New(store, logger)
	broadcaster := lobby.New(s.directory, s.leaderboard, s.notifier, s.clock, logger)
	s.service = New(s.directory, s.leaderboard, broadcaster, s.notifier, s.clock, s.random, logger)
	broadcaster.SetCounters(lobby.Counters{BingoPlayers: s.service.PlayerCount})
	s.ctx = context.Background()
}

// queueCard feeds the random source one full card draw: offsets 0..4 for each
// of the five columns, producing column values min..min+4 top to bottom.
func (s *ServiceSuite) queueCard() {
	for col := 0; col < 5; col++ {
		s.random.QueueIntn(0, 1, 2, 3, 4)
	}
}

func (s *ServiceSuite) join(id, name string) {
	_, err := s.directory.Join(s.ctx, model.PlayerID(id), name)
	s.Require().NoError(err)
	s.Require().NoError(s.leaderboard.EnsureEntries(s.ctx, name))
	s.queueCard()
	s.Require().NoError(s.service.JoinRoom(s.ctx, model.PlayerID(id)))
}

func (s *ServiceSuite) eventsOf(id model.PlayerID, t model.EventType) []model.Event {
	var out []model.Event
	for _, e := range s.notifier.SentTo(id) {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// callNumbers makes the host draw exactly the given numbers, in order, by
// queueing each one's index in the shrinking pool. Only valid when the
// numbers are drawn ascending from a fresh pool.
func (s *ServiceSuite) callNumbers(host model.PlayerID, numbers ...int) {
	for drawn, n := range numbers {
		s.random.QueueIntn(n - 1 - drawn)
		s.Require().NoError(s.service.CallNumber(s.ctx, host))
	}
}

func (s *ServiceSuite) TestFirstJoinerBecomesHost() {
	s.join("conn-1", "alice")

	s.Len(s.eventsOf("conn-1", model.EventBingoYouAreHost), 1)

	assigned := s.eventsOf("conn-1", model.EventBingoCardAssigned)
	s.Require().Len(assigned, 1)
	payload := assigned[0].Payload.(*model.BingoCardAssignedPayload)
	s.True(payload.IsHost)
	s.False(payload.GameActive)
	s.Empty(payload.CalledNumbers)
	s.Equal(1, s.service.PlayerCount())
}

func (s *ServiceSuite) TestGeneratedCardLayout() {
	s.join("conn-1", "alice")

	card := s.service.players["conn-1"].Card
	s.Zero(card[model.BingoFreeCell])
	// Column ranges: 1-15, 16-30, 31-45, 46-60, 61-75
	for col := 0; col < 5; col++ {
		min := col*model.BingoColumnSpan + 1
		for row := 0; row < 5; row++ {
			idx := row*5 + col
			if idx == model.BingoFreeCell {
				continue
			}
			s.GreaterOrEqual(card[idx], min)
			s.Less(card[idx], min+model.BingoColumnSpan)
		}
	}
	s.True(s.service.players["conn-1"].Marked[model.BingoFreeCell])
}

func (s *ServiceSuite) TestSecondJoinerIsNotHost() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")

	s.Empty(s.eventsOf("conn-2", model.EventBingoYouAreHost))
	assigned := s.eventsOf("conn-2", model.EventBingoCardAssigned)
	s.Require().Len(assigned, 1)
	s.False(assigned[0].Payload.(*model.BingoCardAssignedPayload).IsHost)
}

func (s *ServiceSuite) TestMidGameJoinerReceivesCallHistory() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))
	s.callNumbers("conn-1", 7)

	s.join("conn-3", "carol")

	assigned := s.eventsOf("conn-3", model.EventBingoCardAssigned)
	s.Require().Len(assigned, 1)
	payload := assigned[0].Payload.(*model.BingoCardAssignedPayload)
	s.True(payload.GameActive)
	s.Equal([]int{7}, payload.CalledNumbers)
}

func (s *ServiceSuite) TestStartGameIsHostOnly() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")

	s.Require().NoError(s.service.StartGame(s.ctx, "conn-2"))
	s.Empty(s.notifier.BroadcastsOf(model.EventBingoGameStarted))
}

func (s *ServiceSuite) TestStartGameNeedsTwoPlayers() {
	s.join("conn-1", "alice")
	err := s.service.StartGame(s.ctx, "conn-1")
	s.Require().ErrorIs(err, model.ErrInsufficientPlayers)
}

func (s *ServiceSuite) TestStartGameWhileActiveIgnored() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")

	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))
	s.Len(s.notifier.BroadcastsOf(model.EventBingoGameStarted), 1)
}

func (s *ServiceSuite) TestCallNumberDrawsFromPool() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))

	s.random.QueueIntn(41)
	s.Require().NoError(s.service.CallNumber(s.ctx, "conn-1"))

	calls := s.notifier.BroadcastsOf(model.EventBingoNumberCalled)
	s.Require().Len(calls, 1)
	payload := calls[0].Payload.(*model.BingoNumberCalledPayload)
	s.Equal(42, payload.Number)
	s.Equal([]int{42}, payload.CalledNumbers)
	s.Equal(model.BingoNumberCount-1, payload.Remaining)
}

func (s *ServiceSuite) TestCallNumberIsHostOnly() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))

	s.Require().NoError(s.service.CallNumber(s.ctx, "conn-2"))
	s.Empty(s.notifier.BroadcastsOf(model.EventBingoNumberCalled))
}

func (s *ServiceSuite) TestCallNumberBeforeStartIgnored() {
	s.join("conn-1", "alice")
	s.Require().NoError(s.service.CallNumber(s.ctx, "conn-1"))
	s.Empty(s.notifier.BroadcastsOf(model.EventBingoNumberCalled))
}

func (s *ServiceSuite) TestMarkNumberRequiresCalledNumber() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))

	s.Require().NoError(s.service.MarkNumber(s.ctx, "conn-2", 16))
	s.Empty(s.eventsOf("conn-2", model.EventBingoMarkConfirmed))
}

func (s *ServiceSuite) TestMarkNumberConfirmsMark() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))
	s.callNumbers("conn-1", 16)

	s.Require().NoError(s.service.MarkNumber(s.ctx, "conn-2", 16))

	confirms := s.eventsOf("conn-2", model.EventBingoMarkConfirmed)
	s.Require().Len(confirms, 1)
	payload := confirms[0].Payload.(*model.BingoMarkConfirmedPayload)
	s.Equal(16, payload.Number)
	// 16 is the top of the second column
	s.Equal(1, payload.Index)
}

// winningNumbers is the middle row of the deterministic test card, minus the
// free center: 3, 18, 48, 63
func winningNumbers() []int {
	return []int{3, 18, 48, 63}
}

func (s *ServiceSuite) markLine(id model.PlayerID) {
	for _, n := range winningNumbers() {
		s.Require().NoError(s.service.MarkNumber(s.ctx, id, n))
	}
}

func (s *ServiceSuite) TestFirstWinnerGetsFivePoints() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))
	s.callNumbers("conn-1", winningNumbers()...)

	s.markLine("conn-2")

	winners := s.notifier.BroadcastsOf(model.EventBingoWinner)
	s.Require().Len(winners, 1)
	payload := winners[0].Payload.(*model.BingoWinnerPayload)
	s.Equal("bob", payload.Username)
	s.Equal(1, payload.Position)

	top, err := s.leaderboard.Top(s.ctx, model.KindBingo, 10)
	s.Require().NoError(err)
	s.Require().NotEmpty(top)
	s.Equal("bob", top[0].DisplayName)
	s.Equal(1, top[0].Wins)
	s.Equal(model.BingoFirstPoints, top[0].Points)
}

func (s *ServiceSuite) TestRoundEndsAfterThreeWinners() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.join("conn-3", "carol")
	s.join("conn-4", "dave")
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))
	s.callNumbers("conn-1", winningNumbers()...)

	// Every card in this suite is dealt identically, so the same marks win
	// for each player in turn
	s.markLine("conn-1")
	s.markLine("conn-2")
	s.markLine("conn-3")

	ended := s.notifier.BroadcastsOf(model.EventBingoGameEnded)
	s.Require().Len(ended, 1)
	s.Equal([]string{"alice", "bob", "carol"}, ended[0].Payload.(*model.BingoGameEndedPayload).Winners)

	top, err := s.leaderboard.Top(s.ctx, model.KindBingo, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 4)
	s.Equal(model.BingoFirstPoints, top[0].Points)
	s.Equal(model.BingoPlacedPoints, top[1].Points)
	s.Equal(model.BingoPlacedPoints, top[2].Points)
	s.Equal("dave", top[3].DisplayName)
	s.Equal(1, top[3].Losses)
	s.Zero(top[3].Points)

	// Marks after the round no longer score
	s.markLine("conn-4")
	s.Len(s.notifier.BroadcastsOf(model.EventBingoWinner), 3)
}

func (s *ServiceSuite) TestClaimBingoIsAdvisory() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))

	s.Require().NoError(s.service.ClaimBingo(s.ctx, "conn-2"))
	invalid := s.eventsOf("conn-2", model.EventBingoInvalidClaim)
	s.Require().Len(invalid, 1)
	s.Equal("Not a valid Bingo!", invalid[0].Payload)

	// A complete line that MarkNumber has not yet scored validates
	bp := s.service.players["conn-2"]
	for _, idx := range []int{10, 11, 13, 14} {
		bp.Marked[idx] = true
	}
	s.Require().NoError(s.service.ClaimBingo(s.ctx, "conn-2"))
	s.Len(s.eventsOf("conn-2", model.EventBingoValidClaim), 1)

	// Claims never touch the leaderboard
	top, err := s.leaderboard.Top(s.ctx, model.KindBingo, 10)
	s.Require().NoError(err)
	for _, entry := range top {
		s.Zero(entry.Wins)
	}
}

func (s *ServiceSuite) TestResetGameDealsFreshCards() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))
	s.callNumbers("conn-1", 7)

	s.queueCard()
	s.queueCard()
	s.Require().NoError(s.service.ResetGame(s.ctx, "conn-1"))

	s.Len(s.notifier.BroadcastsOf(model.EventBingoGameReset), 1)
	s.False(s.service.active)
	s.Empty(s.service.called)
	s.False(s.service.players["conn-1"].HasBingo)
}

func (s *ServiceSuite) TestResetGameIsHostOnly() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")

	s.Require().NoError(s.service.ResetGame(s.ctx, "conn-2"))
	s.Empty(s.notifier.BroadcastsOf(model.EventBingoGameReset))
}

func (s *ServiceSuite) TestHostReassignedOnLeave() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.notifier.Reset()

	s.Require().NoError(s.service.LeaveRoom(s.ctx, "conn-1"))

	s.Len(s.eventsOf("conn-2", model.EventBingoYouAreHost), 1)
	assigned := s.eventsOf("conn-2", model.EventBingoCardAssigned)
	s.Require().Len(assigned, 1)
	s.True(assigned[0].Payload.(*model.BingoCardAssignedPayload).IsHost)
	s.Equal(1, s.service.PlayerCount())
}

func (s *ServiceSuite) TestEmptiedRoomResets() {
	s.join("conn-1", "alice")

	s.Require().NoError(s.service.LeaveRoom(s.ctx, "conn-1"))
	s.Zero(s.service.PlayerCount())
	s.Empty(s.service.host)

	// The next joiner starts a fresh room as host
	s.join("conn-2", "bob")
	s.Len(s.eventsOf("conn-2", model.EventBingoYouAreHost), 1)
}

func (s *ServiceSuite) TestDisconnectLeavesRoom() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")

	s.Require().NoError(s.service.HandleDisconnect(s.ctx, "conn-2"))
	s.Equal(1, s.service.PlayerCount())

	updates := s.notifier.BroadcastsOf(model.EventBingoRoomUpdate)
	s.Require().NotEmpty(updates)
	last := updates[len(updates)-1].Payload.(*model.BingoRoomUpdatePayload)
	s.Equal(1, last.PlayerCount)
}

func (s *ServiceSuite) TestSetAutoCallStartsTicker() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))

	s.Require().NoError(s.service.SetAutoCall(s.ctx, "conn-1", 5))

	updated := s.notifier.BroadcastsOf(model.EventBingoAutoCallUpdated)
	s.Require().Len(updated, 1)
	s.Equal(5, updated[0].Payload)

	tickers := s.clock.Tickers()
	s.Require().Len(tickers, 1)
	s.Equal(5*time.Second, tickers[0].Period)
	s.False(tickers[0].Stopped)

	// Zero interval disables it again
	s.Require().NoError(s.service.SetAutoCall(s.ctx, "conn-1", 0))
	s.True(tickers[0].Stopped)
}

func (s *ServiceSuite) TestSetAutoCallIsHostOnly() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))

	s.Require().NoError(s.service.SetAutoCall(s.ctx, "conn-2", 5))
	s.Empty(s.notifier.BroadcastsOf(model.EventBingoAutoCallUpdated))
	s.Empty(s.clock.Tickers())
}

func (s *ServiceSuite) TestAutoCallTickDrawsWhileActive() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))

	s.random.QueueIntn(0)
	s.service.mu.Lock()
	s.service.autoCallTick(s.ctx)
	s.service.mu.Unlock()

	calls := s.notifier.BroadcastsOf(model.EventBingoNumberCalled)
	s.Require().Len(calls, 1)
	s.Equal(1, calls[0].Payload.(*model.BingoNumberCalledPayload).Number)
}

func (s *ServiceSuite) TestAutoCallCancelsWhenRoundEnds() {
	s.join("conn-1", "alice")
	s.join("conn-2", "bob")
	s.Require().NoError(s.service.StartGame(s.ctx, "conn-1"))
	s.Require().NoError(s.service.SetAutoCall(s.ctx, "conn-1", 5))

	ticker := s.clock.Tickers()[0]
	s.service.mu.Lock()
	s.service.active = false
	s.service.autoCallTick(s.ctx)
	s.service.mu.Unlock()

	s.True(ticker.Stopped)
}
