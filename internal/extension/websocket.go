package extension

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// wsConn adapts a gorilla connection to Conn. gorilla allows one concurrent
// writer, so writes are serialized.
type wsConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func NewWebsocketConn(conn *websocket.Conn) Conn {
	return &wsConn{conn: conn}
}

func (c *wsConn) ReadMessage() (Message, error) {
	var msg Message
	if err := c.conn.ReadJSON(&msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

func (c *wsConn) WriteMessage(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// Dial connects a Bridge-side Conn to a companion listening at url.
func Dial(ctx context.Context, url string) (Conn, error) {
	dialer := websocket.DefaultDialer
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial companion: %w", err)
	}
	return NewWebsocketConn(conn), nil
}

// Handler upgrades requests and serves the protocol on each connection.
func (c *Companion) Handler(ctx context.Context) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			c.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		if err := c.Serve(ctx, NewWebsocketConn(conn)); err != nil && ctx.Err() == nil {
			c.logger.Debug("companion connection ended", zap.Error(err))
		}
	})
}
