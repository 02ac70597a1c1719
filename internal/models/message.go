package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SelfID is the sender id reserved for the device owner.
var SelfID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int64     `gorm:"not null;default:0;index:idx_messages_room_seq,priority:2"`
	Content   string    `gorm:"not null"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"index"`

	// Nullable back-reference to the owning room
	RoomID *uuid.UUID `gorm:"type:uuid;index;index:idx_messages_room_seq,priority:1"`
}

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *Message) IsFromSelf() bool {
	return m.SenderID == SelfID
}
