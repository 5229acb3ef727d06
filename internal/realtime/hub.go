package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vintek-market/internal/cache"
	"github.com/vintek-market/internal/config"
	"github.com/vintek-market/internal/logger"
)

const (
	// EventNewMessage 新站内消息事件
	EventNewMessage = "new_message"

	// UserChannelPrefix 跨实例分发的频道前缀
	UserChannelPrefix = "notify:user:"
)

// Envelope 推送给客户端的消息封装
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// UserRoom 用户私有房间名
func UserRoom(userID uint) string {
	return fmt.Sprintf("messages_%d", userID)
}

// UserChannel 用户跨实例分发频道
func UserChannel(userID uint) string {
	return fmt.Sprintf("%s%d", UserChannelPrefix, userID)
}

// Hub 维护房间与连接的注册关系并负责房间内广播
type Hub struct {
	cfg *config.RealtimeConfig

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewHub 创建推送中枢
func NewHub(cfg *config.RealtimeConfig) *Hub {
	return &Hub{
		cfg:   cfg,
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Join 将连接加入房间
func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.rooms[room]
	if !ok {
		clients = make(map[*Client]struct{})
		h.rooms[room] = clients
	}
	clients[c] = struct{}{}
}

// Leave 将连接移出房间，空房间随之回收
func (h *Hub) Leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.rooms[room]
	if !ok {
		return
	}
	if _, member := clients[c]; !member {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.rooms, room)
	}
}

// Broadcast 向房间内所有连接投递消息
// 发送缓冲已满的慢连接直接丢弃本条，不阻塞其余连接
func (h *Hub) Broadcast(room string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for c := range h.rooms[room] {
		select {
		case c.send <- payload:
			delivered++
		default:
			logger.Warnw("realtime_send_buffer_full",
				"room", room,
				"user_id", c.userID,
			)
		}
	}
	return delivered
}

// BroadcastEvent 序列化事件封装后广播
func (h *Hub) BroadcastEvent(room, event string, data interface{}) (int, error) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return 0, err
	}
	return h.Broadcast(room, payload), nil
}

// RoomSize 房间当前连接数
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) sendBufferSize() int {
	if h.cfg != nil && h.cfg.SendBufferSize > 0 {
		return h.cfg.SendBufferSize
	}
	return 64
}

func (h *Hub) writeWait() time.Duration {
	if h.cfg != nil && h.cfg.WriteWaitSeconds > 0 {
		return time.Duration(h.cfg.WriteWaitSeconds) * time.Second
	}
	return 10 * time.Second
}

func (h *Hub) pongWait() time.Duration {
	if h.cfg != nil && h.cfg.PongWaitSeconds > 0 {
		return time.Duration(h.cfg.PongWaitSeconds) * time.Second
	}
	return 60 * time.Second
}

func (h *Hub) maxMessageBytes() int64 {
	if h.cfg != nil && h.cfg.MaxMessageBytes > 0 {
		return int64(h.cfg.MaxMessageBytes)
	}
	return 4096
}

// RunBridge 订阅 Redis 分发频道并转发到本实例房间
// Redis 未启用时退化为空操作，单实例部署仍可直接广播
func (h *Hub) RunBridge(ctx context.Context) {
	if !cache.Enabled() {
		logger.Infow("realtime_bridge_disabled", "reason", "redis_not_enabled")
		return
	}
	sub := cache.PSubscribe(ctx, UserChannelPrefix+"*")
	if sub == nil {
		return
	}
	defer sub.Close()
	logger.Infow("realtime_bridge_started", "pattern", UserChannelPrefix+"*")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			userID, err := parseUserChannel(msg.Channel)
			if err != nil {
				logger.Warnw("realtime_bridge_bad_channel",
					"channel", msg.Channel,
					"error", err,
				)
				continue
			}
			h.Broadcast(UserRoom(userID), []byte(msg.Payload))
		}
	}
}

func parseUserChannel(channel string) (uint, error) {
	idx := strings.LastIndex(channel, ":")
	if idx < 0 || idx == len(channel)-1 {
		return 0, fmt.Errorf("malformed channel %q", channel)
	}
	id, err := strconv.ParseUint(channel[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed channel %q: %w", channel, err)
	}
	return uint(id), nil
}
