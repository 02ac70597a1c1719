package websocket

import "errors"

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrClientClosed    = errors.New("client connection is closed")
	ErrInvalidMessage  = errors.New("invalid message format")
	ErrNotInRoom       = errors.New("client has not joined the room")
	ErrRoomNotFound    = errors.New("room not found")
)
