package models

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRoomType = errors.New("invalid room type")

type RoomKind string

const (
	RoomKindDirect RoomKind = "direct"
	RoomKindGroup  RoomKind = "group"
)

// RoomType is either a direct message with one member or a group with any
// number of members.
type RoomType struct {
	Kind      RoomKind
	MemberIDs []uuid.UUID
}

func NewDirectRoomType(memberID uuid.UUID) RoomType {
	return RoomType{Kind: RoomKindDirect, MemberIDs: []uuid.UUID{memberID}}
}

func NewGroupRoomType(memberIDs []uuid.UUID) RoomType {
	ids := make([]uuid.UUID, len(memberIDs))
	copy(ids, memberIDs)
	return RoomType{Kind: RoomKindGroup, MemberIDs: ids}
}

func (t RoomType) Validate() error {
	switch t.Kind {
	case RoomKindDirect:
		if len(t.MemberIDs) != 1 {
			return ErrInvalidRoomType
		}
	case RoomKindGroup:
	default:
		return ErrInvalidRoomType
	}
	return nil
}

// Name is the label shown next to the room name.
func (t RoomType) Name() string {
	switch t.Kind {
	case RoomKindDirect:
		return "Direct Message"
	case RoomKindGroup:
		return "Group"
	}
	return "Unknown"
}
