package handlers

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/database"
	"github.com/thereayou/chat-local/internal/handlers/dto"
	"github.com/thereayou/chat-local/internal/services"
	"github.com/thereayou/chat-local/internal/websocket"
)

// MessageHandler backs the commands websocket clients may send. A posted
// message reaches the room through the event relay, not from here.
type MessageHandler struct {
	db   *database.Database
	chat *services.ChatService
}

var _ websocket.Actions = (*MessageHandler)(nil)

func NewMessageHandler(db *database.Database, chat *services.ChatService) *MessageHandler {
	return &MessageHandler{db: db, chat: chat}
}

func (h *MessageHandler) RoomExists(roomID uuid.UUID) (bool, error) {
	room, err := h.db.Factory().Rooms().Find(roomID)
	if err != nil {
		return false, err
	}
	return room != nil, nil
}

func (h *MessageHandler) PostMessage(senderID, roomID uuid.UUID, data json.RawMessage) error {
	var payload dto.MessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return websocket.ErrInvalidMessage
	}

	_, err := h.chat.SendMessage(context.Background(), roomID, senderID, payload.Content)
	return err
}
