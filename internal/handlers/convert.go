package handlers

import (
	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/database"
	"github.com/thereayou/chat-local/internal/handlers/dto"
	"github.com/thereayou/chat-local/internal/models"
)

const (
	selfName    = "Me"
	unknownName = "Unknown"
)

func formatRoomResponse(room *models.Room) dto.RoomResponse {
	memberIDs := room.MemberIDs
	if memberIDs == nil {
		memberIDs = []uuid.UUID{}
	}
	return dto.RoomResponse{
		ID:                 room.ID,
		Name:               room.Name,
		Type:               room.Type,
		TypeName:           room.RoomType().Name(),
		MemberIDs:          memberIDs,
		LastMessageAt:      room.LastMessageAt,
		LastMessageContent: room.LastMessageContent,
		CreatedAt:          room.CreatedAt,
	}
}

// senderNames resolves display names for the senders of messages.
func senderNames(repo database.MemberRepository, messages []models.Message) (map[uuid.UUID]string, error) {
	names := map[uuid.UUID]string{models.SelfID: selfName}
	for _, m := range messages {
		if _, ok := names[m.SenderID]; ok {
			continue
		}
		member, err := repo.Find(m.SenderID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			names[m.SenderID] = unknownName
			continue
		}
		names[m.SenderID] = member.Name
	}
	return names, nil
}

func formatMessageResponse(m *models.Message, names map[uuid.UUID]string) dto.MessageResponse {
	resp := dto.MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		SenderName: names[m.SenderID],
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
	if m.RoomID != nil {
		resp.RoomID = *m.RoomID
	}
	if resp.SenderName == "" {
		resp.SenderName = unknownName
	}
	return resp
}
