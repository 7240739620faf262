package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/testutil"
)

type HubSuite struct {
	suite.Suite
	hub *Hub
	ctx context.Context
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.hub = NewHub(testutil.NopLogger())
	s.ctx = context.Background()
}

// register adds a connectionless client; SendTo and Broadcast only touch the
// send queue
func (s *HubSuite) register(id model.PlayerID) *Client {
	c := NewClient(id, nil)
	s.hub.Register(c)
	return c
}

func (s *HubSuite) decode(data []byte) model.Event {
	var event model.Event
	s.Require().NoError(json.Unmarshal(data, &event))
	return event
}

func (s *HubSuite) TestRegisterTracksClients() {
	s.Zero(s.hub.ClientCount())
	s.register("conn-1")
	s.register("conn-2")
	s.Equal(2, s.hub.ClientCount())
}

func (s *HubSuite) TestSendToQueuesEncodedEvent() {
	c := s.register("conn-1")

	s.hub.SendTo(s.ctx, "conn-1", model.NewEvent(model.EventTTTWaiting, "Searching for opponent..."))

	s.Require().Len(c.Send, 1)
	event := s.decode(<-c.Send)
	s.Equal(model.EventTTTWaiting, event.Type)
	s.Equal("Searching for opponent...", event.Payload)
}

func (s *HubSuite) TestSendToUnknownPlayerDropped() {
	c := s.register("conn-1")
	s.hub.SendTo(s.ctx, "conn-2", model.NewEvent(model.EventTTTWaiting, nil))
	s.Empty(c.Send)
}

func (s *HubSuite) TestBroadcastReachesEveryClient() {
	c1 := s.register("conn-1")
	c2 := s.register("conn-2")

	s.hub.Broadcast(s.ctx, model.NewEvent(model.EventBingoGameStarted, nil))

	for _, c := range []*Client{c1, c2} {
		s.Require().Len(c.Send, 1)
		s.Equal(model.EventBingoGameStarted, s.decode(<-c.Send).Type)
	}
}

func (s *HubSuite) TestSlowClientMissesEventsWithoutBlocking() {
	slow := s.register("conn-1")
	fast := s.register("conn-2")

	for i := 0; i < sendBuffer; i++ {
		s.hub.SendTo(s.ctx, "conn-1", model.NewEvent(model.EventTTTWaiting, nil))
	}
	s.Require().Len(slow.Send, sendBuffer)

	s.hub.Broadcast(s.ctx, model.NewEvent(model.EventBingoGameStarted, nil))

	// The full queue stays full and the healthy client still receives it
	s.Len(slow.Send, sendBuffer)
	s.Require().Len(fast.Send, 1)
	s.Equal(model.EventBingoGameStarted, s.decode(<-fast.Send).Type)
}

func (s *HubSuite) TestUnregisterClosesSendQueue() {
	c := s.register("conn-1")
	s.hub.Unregister("conn-1")

	s.Zero(s.hub.ClientCount())
	_, open := <-c.Send
	s.False(open)

	// Further deliveries to the departed player are dropped
	s.hub.SendTo(s.ctx, "conn-1", model.NewEvent(model.EventTTTWaiting, nil))
}

func (s *HubSuite) TestUnregisterUnknownIsNoop() {
	s.hub.Unregister("conn-1")
	s.Zero(s.hub.ClientCount())
}
