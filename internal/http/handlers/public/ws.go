package public

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/vintek-market/internal/http/response"
	"github.com/vintek-market/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// NotificationSocket 建立通知推送连接
// 房间名必须是当前用户自己的私有房间
func (h *Handler) NotificationSocket(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	room := strings.TrimSpace(c.Param("room_name"))
	if room != realtime.UserRoom(userID) {
		respondError(c, response.CodeForbidden, "room does not belong to current user", nil)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  h.Config.Realtime.ReadBufferSize,
		WriteBufferSize: h.Config.Realtime.WriteBufferSize,
		CheckOrigin:     h.checkSocketOrigin,
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		requestLog(c).Warnw("websocket_upgrade_failed",
			"user_id", userID,
			"error", err,
		)
		return
	}

	client := realtime.NewClient(h.Hub, conn, room, userID)
	client.Run()
}

func (h *Handler) checkSocketOrigin(r *http.Request) bool {
	allowed := strings.TrimSpace(h.Config.Realtime.AllowedOriginHost)
	if allowed == "" {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Host, allowed)
}
