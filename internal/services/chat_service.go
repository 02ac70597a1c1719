package services

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/database"
	"github.com/thereayou/chat-local/internal/events"
	"github.com/thereayou/chat-local/internal/mock"
	"github.com/thereayou/chat-local/internal/models"
)

type SenderMode string

const (
	SenderModeRandom SenderMode = "random"
	SenderModeSingle SenderMode = "single"
)

func (m SenderMode) Valid() bool {
	return m == SenderModeRandom || m == SenderModeSingle
}

// MessageEvent is the payload of a message_created event.
type MessageEvent struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomEvent is the payload of a room_updated event.
type RoomEvent struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	LastMessageAt      time.Time `json:"last_message_at"`
	LastMessageContent string    `json:"last_message_content"`
}

// RandomRequest mirrors one tick of the debug auto-sender.
type RandomRequest struct {
	Mode     SenderMode `json:"mode"`
	SenderID uuid.UUID  `json:"sender_id"`
}

type ChatService struct {
	db  *database.Database
	bus events.Bus

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewChatService(db *database.Database, bus events.Bus, rng *rand.Rand) *ChatService {
	return &ChatService{db: db, bus: bus, rng: rng}
}

// SendMessage stores the message and refreshes the room's last-message cache
// in the same commit, then announces both changes.
func (s *ChatService) SendMessage(ctx context.Context, roomID, senderID uuid.UUID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	var (
		room    *models.Room
		message *models.Message
	)
	err := s.db.WithCommit(func(f database.RepositoryFactory) error {
		var err error
		room, err = f.Rooms().Find(roomID)
		if err != nil {
			return err
		}
		if room == nil {
			return ErrRoomNotFound
		}

		message, err = f.Messages().Insert(content, senderID, room)
		if err != nil {
			return err
		}

		return f.Rooms().UpdateLastMessage(room, message)
	})
	if err != nil {
		return nil, err
	}

	s.Notify(ctx, events.TypeMessageCreated, room.ID, MessageEvent{
		ID:        message.ID,
		RoomID:    room.ID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	})
	s.Notify(ctx, events.TypeRoomUpdated, room.ID, RoomEvent{
		ID:                 room.ID,
		Name:               room.Name,
		LastMessageAt:      room.LastMessageAt,
		LastMessageContent: room.LastMessageContent,
	})

	return message, nil
}

// SendRandomMessage posts a phrase from the mock table. In random mode the
// sender is drawn from the local user and the room's members; in single mode
// req.SenderID is used, defaulting to the local user.
func (s *ChatService) SendRandomMessage(ctx context.Context, roomID uuid.UUID, req RandomRequest) (*models.Message, error) {
	if !req.Mode.Valid() {
		return nil, ErrUnknownMode
	}

	room, err := s.db.Factory().Rooms().Find(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	if err := CheckSender(room, req); err != nil {
		return nil, err
	}

	s.rngMu.Lock()
	senderID := req.SenderID
	if req.Mode == SenderModeRandom {
		candidates := append([]uuid.UUID{models.SelfID}, room.MemberIDs...)
		senderID = candidates[s.rng.Intn(len(candidates))]
	} else if senderID == uuid.Nil {
		senderID = models.SelfID
	}
	content := mock.RandomMessage(s.rng)
	s.rngMu.Unlock()

	return s.SendMessage(ctx, roomID, senderID, content)
}

// CheckSender validates req against room. A single-mode sender must be the
// local user or one of the room's members; uuid.Nil stands for the local user.
func CheckSender(room *models.Room, req RandomRequest) error {
	if !req.Mode.Valid() {
		return ErrUnknownMode
	}
	if req.Mode != SenderModeSingle {
		return nil
	}
	if req.SenderID == uuid.Nil || req.SenderID == models.SelfID || room.HasMember(req.SenderID) {
		return nil
	}
	return ErrInvalidSender
}

// Notify publishes an event. Delivery is best effort: the write it
// describes is already committed.
func (s *ChatService) Notify(ctx context.Context, t events.Type, roomID uuid.UUID, data interface{}) {
	ev, err := events.New(t, roomID, data)
	if err != nil {
		log.Printf("Failed to encode %s event: %v", t, err)
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		log.Printf("Failed to publish %s event: %v", t, err)
	}
}
