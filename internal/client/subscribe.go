package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rpggio/tasker/internal/live"
)

// Subscribe opens the server's change feed. The returned channel is closed
// when ctx is done or the connection drops.
func (c *Client) Subscribe(ctx context.Context) (<-chan live.Event, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, http.Header{})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	events := make(chan live.Event, 16)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()
	go func() {
		defer close(events)
		defer close(done)
		for {
			var ev live.Event
			if err := conn.ReadJSON(&ev); err != nil {
				if ctx.Err() == nil {
					c.logger.Debug("change feed closed", "error", err)
				}
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}
