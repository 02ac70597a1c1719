package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/chat-local/internal/database"
	"github.com/thereayou/chat-local/internal/debug"
	"github.com/thereayou/chat-local/internal/handlers/dto"
	"github.com/thereayou/chat-local/internal/services"
)

type DebugHandler struct {
	db       *database.Database
	chat     *services.ChatService
	autosend *debug.Controller
	messages *HTTPMessageHandler
}

func NewDebugHandler(db *database.Database, chat *services.ChatService, autosend *debug.Controller) *DebugHandler {
	return &DebugHandler{
		db:       db,
		chat:     chat,
		autosend: autosend,
		messages: NewHTTPMessageHandler(db, chat),
	}
}

func (h *DebugHandler) StartAutoSend(c *gin.Context) {
	room, ok := lookupRoom(c, h.db)
	if !ok {
		return
	}

	var req dto.AutoSendRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	cfg := debug.DefaultConfig()
	if req.IntervalSeconds != 0 {
		cfg.Interval = time.Duration(req.IntervalSeconds * float64(time.Second))
	}
	if req.Total != 0 {
		cfg.Total = req.Total
	}
	if req.Mode != "" {
		cfg.Mode = services.SenderMode(req.Mode)
	}
	cfg.SenderID = req.SenderID

	sender := services.RandomRequest{Mode: cfg.Mode, SenderID: cfg.SenderID}
	if err := services.CheckSender(room, sender); errors.Is(err, services.ErrInvalidSender) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.autosend.Start(room.ID, cfg)
	switch {
	case errors.Is(err, debug.ErrInvalidConfig):
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval must be 0.5-10s, total 1-50, mode random or single"})
		return
	case errors.Is(err, debug.ErrAlreadyRunning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start auto send"})
		return
	}

	c.JSON(http.StatusAccepted, h.autosend.Status(room.ID))
}

func (h *DebugHandler) StopAutoSend(c *gin.Context) {
	roomID, ok := parseRoomID(c)
	if !ok {
		return
	}

	if err := h.autosend.Stop(roomID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.autosend.Status(roomID))
}

func (h *DebugHandler) AutoSendStatus(c *gin.Context) {
	roomID, ok := parseRoomID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.autosend.Status(roomID))
}

// SendRandom posts one phrase from the mock table right away.
func (h *DebugHandler) SendRandom(c *gin.Context) {
	roomID, ok := parseRoomID(c)
	if !ok {
		return
	}

	req := dto.RandomMessageRequest{Mode: string(services.SenderModeRandom)}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	message, err := h.chat.SendRandomMessage(c.Request.Context(), roomID, services.RandomRequest{
		Mode:     services.SenderMode(req.Mode),
		SenderID: req.SenderID,
	})
	if !writeSendError(c, err) {
		return
	}

	h.messages.respondMessage(c, message)
}
