// Package ws is the real-time transport: it tracks live connections, feeds
// presence, and relays chat frames between connected users.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	ErrConnClosed   = errors.New("ws: connection closed")
	ErrWriteTimeout = errors.New("ws: write timed out")
)

const (
	// writeBuffer bounds how many frames may queue for a slow client before
	// sends start timing out.
	writeBuffer  = 64
	writeTimeout = 5 * time.Second
)

// conn wraps a websocket connection with a single writer goroutine. All
// writes funnel through writeCh; gorilla connections do not allow concurrent
// writers.
type conn struct {
	userID string

	ws      *websocket.Conn
	writeCh chan []byte

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newConn(userID string, ws *websocket.Conn) *conn {
	ctx, cancel := context.WithCancel(context.Background())
	c := &conn{
		userID:  userID,
		ws:      ws,
		writeCh: make(chan []byte, writeBuffer),
		ctx:     ctx,
		cancel:  cancel,
	}
	go c.writeLoop()
	return c
}

func (c *conn) writeLoop() {
	for {
		select {
		case data := <-c.writeCh:
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				c.close()
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// writeJSON queues a frame for the writer goroutine.
func (c *conn) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case c.writeCh <- data:
		return nil
	case <-c.ctx.Done():
		return ErrConnClosed
	case <-time.After(writeTimeout):
		return ErrWriteTimeout
	}
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.ws.Close()
	})
}
