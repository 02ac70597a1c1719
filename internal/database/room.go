package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomSortField string

const (
	SortByLastMessageAt RoomSortField = "last_message_at"
	SortByName          RoomSortField = "name"
	SortByCreatedAt     RoomSortField = "created_at"
)

func (f RoomSortField) valid() bool {
	switch f {
	case SortByLastMessageAt, SortByName, SortByCreatedAt:
		return true
	}
	return false
}

type SortDescriptor struct {
	Field      RoomSortField
	Descending bool
}

// DefaultRoomSort puts the most recently active room first.
var DefaultRoomSort = SortDescriptor{Field: SortByLastMessageAt, Descending: true}

type RoomInsertOption func(*models.Room)

// WithLastMessage seeds the room's last-message cache.
func WithLastMessage(at time.Time, content string) RoomInsertOption {
	return func(r *models.Room) {
		r.LastMessageAt = at.UTC()
		r.LastMessageContent = content
	}
}

type RoomRepository interface {
	Find(id uuid.UUID) (*models.Room, error)
	List(sortBy ...SortDescriptor) ([]models.Room, error)
	Count() (int64, error)
	Insert(name string, roomType models.RoomType, opts ...RoomInsertOption) (*models.Room, error)
	UpdateLastMessage(room *models.Room, message *models.Message) error
	DeleteAll() error
}

type roomRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// Find returns nil without an error when no room has the id.
func (r *roomRepository) Find(id uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.db.First(&room, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rooms: find: %w", err)
	}
	return &room, nil
}

func (r *roomRepository) List(sortBy ...SortDescriptor) ([]models.Room, error) {
	if len(sortBy) == 0 {
		sortBy = []SortDescriptor{DefaultRoomSort}
	}

	query := r.db.Model(&models.Room{})
	for _, s := range sortBy {
		if !s.Field.valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSortField, s.Field)
		}
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: string(s.Field)},
			Desc:   s.Descending,
		})
	}

	var rooms []models.Room
	if err := query.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("rooms: list: %w", err)
	}
	return rooms, nil
}

func (r *roomRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Room{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("rooms: count: %w", err)
	}
	return count, nil
}

func (r *roomRepository) Insert(name string, roomType models.RoomType, opts ...RoomInsertOption) (*models.Room, error) {
	if err := roomType.Validate(); err != nil {
		return nil, err
	}

	now := r.now().UTC()
	room := &models.Room{
		Name:          name,
		Type:          string(roomType.Kind),
		MemberIDs:     roomType.MemberIDs,
		LastMessageAt: now,
		CreatedAt:     now,
	}
	for _, opt := range opts {
		opt(room)
	}

	if err := r.db.Create(room).Error; err != nil {
		return nil, fmt.Errorf("rooms: insert: %w", err)
	}
	return room, nil
}

// UpdateLastMessage republishes message as the room's last message. Inserting
// a message never does this on its own.
func (r *roomRepository) UpdateLastMessage(room *models.Room, message *models.Message) error {
	room.UpdateLastMessage(message)
	room.LastMessageAt = room.LastMessageAt.UTC()

	err := r.db.Model(room).Updates(map[string]interface{}{
		"last_message_at":      room.LastMessageAt,
		"last_message_content": room.LastMessageContent,
	}).Error
	if err != nil {
		return fmt.Errorf("rooms: update last message: %w", err)
	}
	return nil
}

// DeleteAll removes every room together with the messages they own.
func (r *roomRepository) DeleteAll() error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id IS NOT NULL").Delete(&models.Message{}).Error; err != nil {
			return err
		}

		return tx.Where("1 = 1").Delete(&models.Room{}).Error
	})
	if err != nil {
		return fmt.Errorf("rooms: delete all: %w", err)
	}
	return nil
}
