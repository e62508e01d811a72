package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrCommandFailed wraps the error text of an unsuccessful response.
var ErrCommandFailed = errors.New("command failed")

// Client sends commands to a running daemon.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the daemon listening on addr (host:port).
func Dial(ctx context.Context, addr string) (*Client, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: PathWebSocket}

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Call sends a command and waits for its response. Event envelopes that
// arrive in between are skipped. An unsuccessful response is returned
// together with an error wrapping ErrCommandFailed.
func (c *Client) Call(ctx context.Context, cmdType string, data any) (Response, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Response{}, fmt.Errorf("encode %s: %w", cmdType, err)
	}

	cmd := WSCommand{Type: cmdType, ID: uuid.NewString(), Data: raw}

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		_ = c.conn.SetReadDeadline(deadline)
	}
	if err := c.conn.WriteJSON(cmd); err != nil {
		return Response{}, fmt.Errorf("send %s: %w", cmdType, err)
	}

	for {
		var msg struct {
			Response
			Event string `json:"event"`
		}
		if err := c.conn.ReadJSON(&msg); err != nil {
			return Response{}, fmt.Errorf("read %s response: %w", cmdType, err)
		}
		if msg.Event != "" || msg.ID != cmd.ID {
			continue
		}

		if !msg.Success {
			return msg.Response, fmt.Errorf("%w: %s: %s", ErrCommandFailed, cmdType, msg.Error)
		}
		return msg.Response, nil
	}
}
