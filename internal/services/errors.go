package services

import "errors"

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrRoomNotFound   = errors.New("room not found")
	ErrUnknownMode    = errors.New("unknown sender mode")
	ErrInvalidSender  = errors.New("sender is neither the local user nor a room member")
	ErrInvalidCursor  = errors.New("cursor message not in room")
	ErrInvalidPageLen = errors.New("page size must be positive")
)
