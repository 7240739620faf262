package ws

import (
	"context"

	"github.com/coder/websocket"

	"github.com/mcoot/gamenight-go/internal/model"
)

const sendBuffer = 64

// Client is one registered websocket connection. Outbound events are queued
// on Send and written by a single WritePump goroutine, so writes never race.
type Client struct {
	PlayerID model.PlayerID
	Conn     *websocket.Conn
	Send     chan []byte
}

// NewClient wraps an accepted connection
func NewClient(id model.PlayerID, conn *websocket.Conn) *Client {
	return &Client{
		PlayerID: id,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
	}
}

// WritePump drains the Send channel onto the connection until the channel
// closes, the context ends, or a write fails
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}
