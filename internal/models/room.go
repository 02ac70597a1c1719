package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Room struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name               string      `gorm:"not null"`
	Type               string      `gorm:"not null;check:type IN ('direct','group')"`
	MemberIDs          []uuid.UUID `gorm:"serializer:json;type:text"`
	LastMessageAt      time.Time   `gorm:"index"`
	LastMessageContent string
	CreatedAt          time.Time

	// Relations
	Messages []Message `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

func (r *Room) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RoomType rebuilds the tagged room type from the stored columns.
func (r *Room) RoomType() RoomType {
	return RoomType{Kind: RoomKind(r.Type), MemberIDs: r.MemberIDs}
}

// UpdateLastMessage copies the message into the room's last-message cache.
// Nothing is persisted; see database.RoomRepository.UpdateLastMessage.
func (r *Room) UpdateLastMessage(m *Message) {
	r.LastMessageAt = m.CreatedAt
	r.LastMessageContent = m.Content
}

func (r *Room) HasMember(id uuid.UUID) bool {
	for _, memberID := range r.MemberIDs {
		if memberID == id {
			return true
		}
	}
	return false
}
