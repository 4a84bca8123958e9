package websocket

import (
	"context"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// wsConn serialises writes on a gorilla connection.
type wsConn struct {
	conn *ws.Conn
	mu   sync.Mutex
}

func newWSConn(conn *ws.Conn) *wsConn {
	return &wsConn{conn: conn}
}

func (c *wsConn) Send(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.conn.WriteMessage(ws.TextMessage, data)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
