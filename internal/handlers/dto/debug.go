package dto

import "github.com/google/uuid"

type AutoSendRequest struct {
	// IntervalSeconds and Total fall back to 1s and 5 when zero.
	IntervalSeconds float64   `json:"interval_seconds"`
	Total           int       `json:"total"`
	Mode            string    `json:"mode"`
	SenderID        uuid.UUID `json:"sender_id"`
}

type RandomMessageRequest struct {
	Mode     string    `json:"mode"`
	SenderID uuid.UUID `json:"sender_id"`
}

type BulkRoomsRequest struct {
	RoomCount    *int `json:"room_count"`
	MessageCount *int `json:"message_count"`
	MinMembers   *int `json:"min_members"`
	MaxMembers   *int `json:"max_members"`
}
