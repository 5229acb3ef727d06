package realtime

import (
	"time"

	"github.com/vintek-market/internal/logger"

	"github.com/gorilla/websocket"
)

// Client 单条 WebSocket 连接
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	room   string
	userID uint
	send   chan []byte
}

// NewClient 创建连接并加入房间
func NewClient(hub *Hub, conn *websocket.Conn, room string, userID uint) *Client {
	c := &Client{
		hub:    hub,
		conn:   conn,
		room:   room,
		userID: userID,
		send:   make(chan []byte, hub.sendBufferSize()),
	}
	hub.Join(room, c)
	return c
}

// Run 启动读写循环，任一侧退出即断开连接
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump 只消费心跳与关闭帧，通知通道是单向下行的
func (c *Client) readPump() {
	defer func() {
		c.hub.Leave(c.room, c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(c.hub.maxMessageBytes())
	_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait()))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait()))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnw("realtime_read_error",
					"room", c.room,
					"user_id", c.userID,
					"error", err,
				)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	pingPeriod := c.hub.pongWait() * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeWait()))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeWait()))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
