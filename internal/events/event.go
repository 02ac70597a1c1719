package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeMessageCreated    Type = "message_created"
	TypeRoomUpdated       Type = "room_updated"
	TypeSendRandomMessage Type = "send_random_message"
	TypeDataReset         Type = "data_reset"
)

var ErrBusClosed = errors.New("event bus closed")

type Event struct {
	Type      Type            `json:"type"`
	RoomID    uuid.UUID       `json:"room_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	// Origin names the process that should act on a command event.
	Origin string `json:"origin,omitempty"`
}

// New builds an event with data marshalled to JSON.
func New(t Type, roomID uuid.UUID, data interface{}) (Event, error) {
	ev := Event{Type: t, RoomID: roomID, Timestamp: time.Now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Event{}, err
		}
		ev.Data = raw
	}
	return ev, nil
}

// Bus delivers every published event to every live subscriber.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe returns the event stream and a function that ends the
	// subscription. The stream is closed once ctx is done or cancel is called.
	Subscribe(ctx context.Context) (<-chan Event, func())
	Close() error
}
