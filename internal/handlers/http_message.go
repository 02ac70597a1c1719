package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/database"
	"github.com/thereayou/chat-local/internal/handlers/dto"
	"github.com/thereayou/chat-local/internal/middleware"
	"github.com/thereayou/chat-local/internal/models"
	"github.com/thereayou/chat-local/internal/services"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type HTTPMessageHandler struct {
	db   *database.Database
	chat *services.ChatService
}

func NewHTTPMessageHandler(db *database.Database, chat *services.ChatService) *HTTPMessageHandler {
	return &HTTPMessageHandler{db: db, chat: chat}
}

// GetRoomMessages returns one page of the room's history, oldest first.
// ?before= pages further back from a message id.
func (h *HTTPMessageHandler) GetRoomMessages(c *gin.Context) {
	room, ok := lookupRoom(c, h.db)
	if !ok {
		return
	}

	limit := defaultPageSize
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxPageSize {
			limit = parsed
		}
	}

	var beforeID *uuid.UUID
	if before := c.Query("before"); before != "" {
		id, err := uuid.Parse(before)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid before id"})
			return
		}
		beforeID = &id
	}

	f := h.db.Factory()
	all, err := f.Messages().ListByRoomID(room.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	page, hasMore, err := services.PageMessages(all, limit, beforeID)
	if errors.Is(err, services.ErrInvalidCursor) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to page messages"})
		return
	}

	names, err := senderNames(f.Members(), page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load senders"})
		return
	}

	response := dto.MessagePage{Messages: make([]dto.MessageResponse, len(page)), HasMore: hasMore}
	for i := range page {
		response.Messages[i] = formatMessageResponse(&page[i], names)
	}

	c.JSON(http.StatusOK, response)
}

// SendMessage posts as the session's sender.
func (h *HTTPMessageHandler) SendMessage(c *gin.Context) {
	senderID := c.MustGet(middleware.SenderIDKey).(uuid.UUID)

	roomID, ok := parseRoomID(c)
	if !ok {
		return
	}

	var req dto.MessagePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chat.SendMessage(c.Request.Context(), roomID, senderID, req.Content)
	if !writeSendError(c, err) {
		return
	}

	h.respondMessage(c, message)
}

func (h *HTTPMessageHandler) respondMessage(c *gin.Context, message *models.Message) {
	names, err := senderNames(h.db.Factory().Members(), []models.Message{*message})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sender"})
		return
	}
	c.JSON(http.StatusCreated, formatMessageResponse(message, names))
}

// writeSendError maps ChatService errors to responses. It reports whether
// err was nil.
func writeSendError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, services.ErrEmptyMessage), errors.Is(err, services.ErrUnknownMode),
		errors.Is(err, services.ErrInvalidSender):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
	}
	return false
}
