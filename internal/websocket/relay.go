package websocket

import (
	"context"
	"encoding/json"
	"log"

	"github.com/thereayou/chat-local/internal/events"
)

// Relay forwards bus events to connected clients until ctx is done.
// Command events are not pushed.
func (h *Hub) Relay(ctx context.Context, bus events.Bus) {
	stream, cancel := bus.Subscribe(ctx)
	defer cancel()

	for ev := range stream {
		h.Forward(ev)
	}
}

// Forward pushes one event: message_created to the room, room_updated and
// data_reset to everyone.
func (h *Hub) Forward(ev events.Event) {
	var msgType MessageType
	switch ev.Type {
	case events.TypeMessageCreated:
		msgType = TypeMessageCreated
	case events.TypeRoomUpdated:
		msgType = TypeRoomUpdated
	case events.TypeDataReset:
		msgType = TypeDataReset
	default:
		return
	}

	roomID := ev.RoomID
	msg := Message{
		Type:      msgType,
		RoomID:    &roomID,
		Data:      ev.Data,
		Timestamp: ev.Timestamp,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to encode %s frame: %v", msgType, err)
		return
	}

	if msgType == TypeMessageCreated {
		h.SendToRoom(ev.RoomID, data)
		return
	}
	h.SendToAll(data)
}
