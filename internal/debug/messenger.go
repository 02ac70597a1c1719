package debug

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/events"
	"github.com/thereayou/chat-local/internal/models"
	"github.com/thereayou/chat-local/internal/services"
)

type RandomSender interface {
	SendRandomMessage(ctx context.Context, roomID uuid.UUID, req services.RandomRequest) (*models.Message, error)
}

// Messenger turns send_random_message commands published by this process
// into stored messages.
type Messenger struct {
	bus    events.Bus
	sender RandomSender
	origin string
}

func NewMessenger(bus events.Bus, sender RandomSender, origin string) *Messenger {
	return &Messenger{bus: bus, sender: sender, origin: origin}
}

// Run consumes the bus until ctx is done.
func (m *Messenger) Run(ctx context.Context) {
	stream, cancel := m.bus.Subscribe(ctx)
	defer cancel()

	for ev := range stream {
		if ev.Type != events.TypeSendRandomMessage || ev.Origin != m.origin {
			continue
		}

		var req services.RandomRequest
		if err := json.Unmarshal(ev.Data, &req); err != nil {
			log.Printf("Invalid auto send payload: %v", err)
			continue
		}

		if _, err := m.sender.SendRandomMessage(ctx, ev.RoomID, req); err != nil {
			log.Printf("Failed to send random message to room %s: %v", ev.RoomID, err)
		}
	}
}
