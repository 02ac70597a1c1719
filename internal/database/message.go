package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/models"
	"gorm.io/gorm"
)

type MessageOption func(*models.Message)

// WithCreatedAt back-dates a message instead of stamping it with the clock.
// Times are stored in UTC so that ordering compares instants.
func WithCreatedAt(t time.Time) MessageOption {
	return func(m *models.Message) {
		m.CreatedAt = t.UTC()
	}
}

type MessageRepository interface {
	Find(id uuid.UUID) (*models.Message, error)
	Count() (int64, error)
	ListByRoomID(roomID uuid.UUID) ([]models.Message, error)
	Insert(content string, senderID uuid.UUID, room *models.Room, opts ...MessageOption) (*models.Message, error)
	DeleteAll() error
}

type messageRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func (r *messageRepository) Find(id uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := r.db.First(&message, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("messages: find: %w", err)
	}
	return &message, nil
}

func (r *messageRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Message{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("messages: count: %w", err)
	}
	return count, nil
}

// ListByRoomID returns the room's messages oldest first.
func (r *messageRepository) ListByRoomID(roomID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message

	err := r.db.
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Order("seq ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("messages: list room %s: %w", roomID, err)
	}
	return messages, nil
}

// Insert links a new message to room. The room's last-message cache is left
// untouched; callers follow up with RoomRepository.UpdateLastMessage.
func (r *messageRepository) Insert(content string, senderID uuid.UUID, room *models.Room, opts ...MessageOption) (*models.Message, error) {
	if room == nil {
		return nil, ErrNilRoom
	}

	roomID := room.ID
	message := &models.Message{
		Content:   content,
		SenderID:  senderID,
		CreatedAt: r.now().UTC(),
		RoomID:    &roomID,
	}
	for _, opt := range opts {
		opt(message)
	}

	// Seq breaks created_at ties within the room. Reading the current
	// maximum and inserting share one transaction.
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var lastSeq int64
		err := tx.Model(&models.Message{}).
			Where("room_id = ?", roomID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&lastSeq).Error
		if err != nil {
			return err
		}

		message.Seq = lastSeq + 1
		return tx.Create(message).Error
	})
	if err != nil {
		return nil, fmt.Errorf("messages: insert: %w", err)
	}
	return message, nil
}

func (r *messageRepository) DeleteAll() error {
	if err := r.db.Where("1 = 1").Delete(&models.Message{}).Error; err != nil {
		return fmt.Errorf("messages: delete all: %w", err)
	}
	return nil
}
