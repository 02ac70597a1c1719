package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Name      string      `json:"name" binding:"required"`
	Type      string      `json:"type" binding:"required,oneof=group direct"`
	MemberIDs []uuid.UUID `json:"member_ids"`
}

type RoomResponse struct {
	ID                 uuid.UUID   `json:"id"`
	Name               string      `json:"name"`
	Type               string      `json:"type"`
	TypeName           string      `json:"type_name"`
	MemberIDs          []uuid.UUID `json:"member_ids"`
	LastMessageAt      time.Time   `json:"last_message_at"`
	LastMessageContent string      `json:"last_message_content"`
	CreatedAt          time.Time   `json:"created_at"`
}

type CreateMemberRequest struct {
	Name string `json:"name" binding:"required"`
}

type MemberResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
