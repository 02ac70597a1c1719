package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thereayou/chat-local/internal/middleware"
	ws "github.com/thereayou/chat-local/internal/websocket"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	actions  ws.Actions
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, actions ws.Actions) *WebSocketHandler {
	return &WebSocketHandler{
		hub:     hub,
		actions: actions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API serves a single local user.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the session's connection. ?room_id= joins that
// room straight away, the same as a room_join frame would.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	senderID, exists := c.Get(middleware.SenderIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var initial []uuid.UUID
	if raw := c.Query("room_id"); raw != "" {
		roomID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
			return
		}
		initial = append(initial, roomID)
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, senderID.(uuid.UUID))
	go client.Serve(h.actions, initial...)
}
