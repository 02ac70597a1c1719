package dto

import (
	"time"

	"github.com/google/uuid"
)

// MessagePayload is the body of a posted message, over HTTP or as the data
// of a websocket "message" frame.
type MessagePayload struct {
	Content string `json:"content" binding:"required"`
}

type MessageResponse struct {
	ID         uuid.UUID `json:"id"`
	RoomID     uuid.UUID `json:"room_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type MessagePage struct {
	Messages []MessageResponse `json:"messages"`
	HasMore  bool              `json:"has_more"`
}
