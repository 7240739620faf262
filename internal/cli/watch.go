package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var username string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live events from the server",
		Long: `Connect to the server's websocket channel and stream events in
real-time. With --username the connection joins the lobby first, which
subscribes it to chat and lobby updates addressed to joined players.

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchEvents(username, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Join the lobby under this name before watching")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// watchedEvent is one received event with its arrival time
type watchedEvent struct {
	Time time.Time       `json:"time"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func watchEvents(username string, jsonOutput bool) error {
	url := wsURL(cfg.ServerURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	if username != "" {
		join := map[string]any{
			"type":    "join",
			"payload": map[string]string{"username": username},
		}
		data, _ := json.Marshal(join)
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			return fmt.Errorf("join failed: %w", err)
		}
	}

	if !jsonOutput {
		fmt.Printf("Connected to %s\n", url)
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		var event struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(data, &event); err != nil {
			continue
		}
		printEvent(event.Type, event.Payload, jsonOutput)
	}
}

func printEvent(eventType string, payload json.RawMessage, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		evt := watchedEvent{Time: now, Type: eventType, Data: payload}
		jsonData, _ := json.Marshal(evt)
		fmt.Println(string(jsonData))
		return
	}

	display := string(payload)
	if len(display) > 100 {
		display = display[:100] + "..."
	}
	display = strings.ReplaceAll(display, "\n", " ")
	fmt.Printf("[%s] %s: %s\n", now.Format("2006-01-02 15:04:05"), eventType, display)
}

// wsURL converts the configured HTTP base URL to the websocket endpoint
func wsURL(base string) string {
	url := strings.TrimSuffix(base, "/")
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url + "/ws"
}
