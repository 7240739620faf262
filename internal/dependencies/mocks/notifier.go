package mocks

import (
	"context"

	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/push"
)

// SentEvent records one targeted delivery
type SentEvent struct {
	To    model.PlayerID
	Event model.Event
}

// MockNotifier records deliveries for assertion in tests
type MockNotifier struct {
	Sent       []SentEvent
	Broadcasts []model.Event
}

// Ensure MockNotifier implements Notifier
var _ push.Notifier = (*MockNotifier)(nil)

// NewMockNotifier creates a new MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// SendTo records a targeted event
func (n *MockNotifier) SendTo(_ context.Context, to model.PlayerID, event model.Event) {
	n.Sent = append(n.Sent, SentEvent{To: to, Event: event})
}

// Broadcast records a broadcast event
func (n *MockNotifier) Broadcast(_ context.Context, event model.Event) {
	n.Broadcasts = append(n.Broadcasts, event)
}

// SentTo returns all events delivered to a specific player
func (n *MockNotifier) SentTo(to model.PlayerID) []model.Event {
	var events []model.Event
	for _, s := range n.Sent {
		if s.To == to {
			events = append(events, s.Event)
		}
	}
	return events
}

// LastBroadcast returns the most recent broadcast, or a zero Event
func (n *MockNotifier) LastBroadcast() model.Event {
	if len(n.Broadcasts) == 0 {
		return model.Event{}
	}
	return n.Broadcasts[len(n.Broadcasts)-1]
}

// BroadcastsOf returns all broadcasts of the given type
func (n *MockNotifier) BroadcastsOf(t model.EventType) []model.Event {
	var events []model.Event
	for _, e := range n.Broadcasts {
		if e.Type == t {
			events = append(events, e)
		}
	}
	return events
}

// Reset clears all recorded deliveries
func (n *MockNotifier) Reset() {
	n.Sent = nil
	n.Broadcasts = nil
}
